package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Deps
}

func NewUserModule(h *handlers.UserHandler, deps Deps) *UserModule {
	return &UserModule{Handler: h, Deps: deps}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := m.authed(rg, "/users")
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateMe)
		auth.DELETE("/me", m.Handler.DeleteMe)
		auth.GET("", m.Handler.List)
		auth.GET("/:id", m.Handler.Get)
	}
}
