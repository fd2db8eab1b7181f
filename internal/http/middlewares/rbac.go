package middlewares

import (
	"net/http"

	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// RequireUserType guards form posts. Pages use RequirePage instead.
func (m *SessionMiddleware) RequireUserType(required user.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := SessionFromContext(c)

		if !ok || s.Email == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if s.Type != required {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
