package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/identity-service/pkg/helpers"
	"github.com/oksasatya/identity-service/pkg/response"
)

// Auth validates the Authorization bearer token and sets username, fullName,
// and roles in the Gin context on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid bearer token", err.Error())
			c.Abort()
			return
		}

		c.Set("username", claims.Subject)
		c.Set("fullName", claims.FullName)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// RequireRole gates a route group behind a role carried in the token claims.
// Auth must run first.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get("roles")
		if names, ok := roles.([]string); ok {
			for _, name := range names {
				if name == role {
					c.Next()
					return
				}
			}
		}
		response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}
