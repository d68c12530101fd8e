package middleware

import (
	"net/http"
	"slices"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole allows the request through only for the listed roles.
// It must run after the JWT middleware.
func RequireRole(log *zap.Logger, roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if slices.Contains(roles, session.Role) {
			c.Next()
			return
		}

		if log != nil {
			log.Warn("Role check denied",
				zap.String("user_id", session.UserID.String()),
				zap.String("role", session.Role.String()),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_FORBIDDEN",
				"message": "Access denied: insufficient role",
			},
		})
	}
}
