package middleware

import (
	"net/http"

	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks that the authenticated profile has the admin role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.From(c)
		if s == nil || !s.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
