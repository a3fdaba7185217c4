package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/internal/application"
	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
)

type MediaModule struct {
	Handler *handlers.MediaHandler
	Deps
}

func NewMediaModule(h *handlers.MediaHandler, deps Deps) *MediaModule {
	return &MediaModule{Handler: h, Deps: deps}
}

func (m *MediaModule) Register(rg *gin.RouterGroup) {
	create := gate(application.ResourceMedia, application.ActionCreate)

	auth := m.authed(rg, "/dog-report-media")
	{
		auth.GET("/report/:reportId", m.Handler.ListByReport)
		auth.GET("/:id", m.Handler.Get)
		auth.POST("", chain(create, m.Handler.Create)...)
		auth.POST("/upload", chain(create, m.Handler.Upload)...)
		auth.PUT("/:id", chain(gate(application.ResourceMedia, application.ActionUpdate), m.Handler.Update)...)
		auth.DELETE("/:id", chain(gate(application.ResourceMedia, application.ActionDelete), m.Handler.Delete)...)
	}
}
