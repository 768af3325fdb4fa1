package middleware

import (
	"net/http"

	"dataplug/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired rejects callers without the ADMIN role. Runs after
// AuthRequired, which puts the role in context.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
