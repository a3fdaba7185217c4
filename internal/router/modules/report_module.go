package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/internal/application"
	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
)

type ReportModule struct {
	Handler *handlers.ReportHandler
	Deps
}

func NewReportModule(h *handlers.ReportHandler, deps Deps) *ReportModule {
	return &ReportModule{Handler: h, Deps: deps}
}

func (m *ReportModule) Register(rg *gin.RouterGroup) {
	auth := m.authed(rg, "/dog-reports")
	{
		auth.GET("", m.Handler.List)
		auth.GET("/my-reports", m.Handler.ListMine)
		auth.GET("/nearby", m.Handler.Nearby)
		auth.GET("/:id", m.Handler.Get)
		auth.POST("", chain(gate(application.ResourceReport, application.ActionCreate), m.Handler.Create)...)
		auth.PUT("/:id", chain(gate(application.ResourceReport, application.ActionUpdate), m.Handler.Update)...)
		auth.DELETE("/:id", chain(gate(application.ResourceReport, application.ActionDelete), m.Handler.Delete)...)
		auth.PATCH("/:id/status", chain(gate(application.ResourceReport, application.ActionSetStatus), m.Handler.UpdateStatus)...)
	}
}
