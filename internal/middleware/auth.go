package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tenantcrm/internal/authz"
	"tenantcrm/internal/services"
)

// AuthMiddleware resolves the bearer token into a Principal. Requests
// without a valid token never reach the handlers.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims, err := authService.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		authz.SetPrincipal(c, claims.Principal())
		c.Next()
	}
}
