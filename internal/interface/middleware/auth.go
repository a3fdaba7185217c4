package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/pkg/helpers"
	"github.com/oksasatya/pawpatrol/pkg/response"
)

// Auth requires an "Authorization: Bearer <token>" header and stores the
// verified claims under CtxClaimsKey. It never consults a store.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "no token provided")
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFrom returns the claims attached by Auth, or nil.
func ClaimsFrom(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.Claims)
	return claims
}
