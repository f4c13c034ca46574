package middleware

import (
	"net/http"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Claims полезная нагрузка токена. Токены выпускает внешний сервис авторизации.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет Bearer токен (HS256) и кладёт пользователя в контекст
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		role := model.Role(claims.Role)
		if claims.UserID <= 0 || !role.Valid() {
			abort(c, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, role)

		c.Next()
	}
}

// RoleMiddleware пропускает только перечисленные роли
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, http.StatusForbidden, "User role not found")
			return
		}

		for _, allowed := range allowedRoles {
			if actor.Role == allowed {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// ActorFrom достаёт пользователя, положенного AuthMiddleware
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return model.Actor{}, false
	}
	role, ok := c.Get(ctxRole)
	if !ok {
		return model.Actor{}, false
	}

	id, ok1 := userID.(int64)
	r, ok2 := role.(model.Role)
	if !ok1 || !ok2 {
		return model.Actor{}, false
	}
	return model.Actor{UserID: id, Role: r}, true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
