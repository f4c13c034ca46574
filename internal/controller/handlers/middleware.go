package handlers

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/nurse_mentorship/internal/controller/middleware"
	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/gin-gonic/gin"
)

// requireActor достаёт пользователя из токена
// Возвращает actor и true если OK, иначе отвечает 401
func (h *Handlers) requireActor(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Authorization required",
		})
		return model.Actor{}, false
	}
	return actor, true
}

// pathID разбирает числовой параметр пути
func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, model.ValidationError("invalid %s", name))
		return 0, false
	}
	return id, true
}

// queryInt разбирает необязательный числовой параметр запроса, 0 если его нет
func (h *Handlers) queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.respondError(c, model.ValidationError("%s must be a number", name))
		return 0, false
	}
	return v, true
}

// queryID разбирает необязательный ID в параметре запроса
func (h *Handlers) queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		h.respondError(c, model.ValidationError("invalid %s", name))
		return nil, false
	}
	return &v, true
}

// queryBool разбирает необязательный флаг
func (h *Handlers) queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		h.respondError(c, model.ValidationError("%s must be true or false", name))
		return false, false
	}
	return v, true
}

// bindJSON разбирает тело запроса и проверяет binding теги
func (h *Handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, bindingError(err))
		return false
	}
	return true
}
