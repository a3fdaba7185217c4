package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
)

type DebugModule struct {
	Deps
}

func NewDebugModule(deps Deps) *DebugModule { return &DebugModule{Deps: deps} }

// Register exposes expvar metrics, rate limited per IP except for private networks.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
