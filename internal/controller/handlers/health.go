package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Server is running",
		"time":    h.now().UTC(),
	})
}
