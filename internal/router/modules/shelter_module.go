package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/internal/application"
	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
)

type ShelterModule struct {
	Handler *handlers.ShelterHandler
	Deps
}

func NewShelterModule(h *handlers.ShelterHandler, deps Deps) *ShelterModule {
	return &ShelterModule{Handler: h, Deps: deps}
}

func (m *ShelterModule) Register(rg *gin.RouterGroup) {
	// Public listing, limited per IP
	public := rg.Group("/shelters")
	public.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil))
	{
		public.GET("", m.Handler.List)
		public.GET("/:id", m.Handler.Get)
	}

	auth := m.authed(rg, "/shelters")
	{
		auth.POST("", chain(gate(application.ResourceShelter, application.ActionCreate), m.Handler.Create)...)
		auth.PUT("/:id", chain(gate(application.ResourceShelter, application.ActionUpdate), m.Handler.Update)...)
		auth.DELETE("/:id", chain(gate(application.ResourceShelter, application.ActionDelete), m.Handler.Delete)...)
	}
}
