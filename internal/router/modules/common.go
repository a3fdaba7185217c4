package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// Deps are the cross-cutting components every module needs.
type Deps struct {
	JWT   *helpers.JWTManager
	Redis *redis.Client
}

// authed returns a group behind the bearer gate with a per-user limit.
func (d Deps) authed(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	g := rg.Group(path)
	g.Use(
		middleware.Auth(d.JWT),
		middleware.RateLimit(d.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	return g
}

// gate returns the role gate the policy table requires for (res, act), if any.
func gate(res application.Resource, act application.Action) []gin.HandlerFunc {
	role, ok := application.GateRole(res, act)
	if !ok {
		return nil
	}
	return []gin.HandlerFunc{middleware.RequireRole(string(role))}
}

func chain(pre []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, pre...), h)
}
