// admin_only.go
package middleware

import (
	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeySessionRole) != service.RoleAdmin {
			abortWithError(c, apperror.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}
