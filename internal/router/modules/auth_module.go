package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Deps
}

func NewAuthModule(h *handlers.AuthHandler, deps Deps) *AuthModule {
	return &AuthModule{Handler: h, Deps: deps}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}
