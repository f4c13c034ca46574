package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// statusFor возвращает HTTP статус для вида ошибки
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidState),
		errors.Is(err, model.ErrPolicyViolation),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidCoupon):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError отвечает {success:false, error}. Текст внутренних ошибок клиенту не уходит.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "Internal server error"
	}
	_ = c.Error(err)

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// bindingError превращает ошибку разбора тела в ValidationError с понятным текстом
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.ValidationError("invalid request body")
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return model.ValidationError("%s", strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "slug":
		return field + " must contain lowercase letters, digits and dashes"
	case "coupon":
		return field + " must be 3-32 letters or digits"
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
