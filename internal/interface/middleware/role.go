package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/pkg/response"
)

// RequireRole admits requests whose token role is one of roles. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			response.Error(c, http.StatusForbidden, "forbidden")
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
