// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"shipment-tracking-service/internal/apperror"
	"shipment-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeySessionSubject = "sessionSubject"
	ContextKeySessionRole    = "sessionRole"
)

// AuthMiddleware validates the bearer token and stores the session in the
// gin context.
func AuthMiddleware(auth service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperror.Unauthorized("missing authorization header"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		session, err := auth.ValidateToken(token)
		if err != nil {
			abortWithError(c, apperror.Unauthorized("invalid or expired token"))
			return
		}

		c.Set(ContextKeySessionSubject, session.Subject)
		c.Set(ContextKeySessionRole, session.Role)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err *apperror.Error) {
	status := err.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, gin.H{
		"code":       err.Code,
		"message":    err.Message,
		"request_id": c.GetString(ContextKeyRequestID),
	})
}
