package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"glambook/internal/pkg/response"
)

// InternalTokenAuth guards service-to-service callbacks, such as the payment
// capture webhook, with a static bearer token. Requests without the exact
// token are rejected; an empty configured token disables the surface
// entirely rather than leaving it open.
func InternalTokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Error(c, http.StatusServiceUnavailable, "INTERNAL_DISABLED", "Internal endpoints are not configured")
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] != token {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid internal token")
			c.Abort()
			return
		}

		c.Next()
	}
}
