package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/interface/middleware"
	"github.com/oksasatya/pawpatrol/pkg/response"
	"github.com/oksasatya/pawpatrol/pkg/validation"
)

// NewEngine builds the gin engine with the global middleware chain and every module mounted.
func NewEngine(cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.Use(cors.New(corsConfig(cfg)))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "route not found")
	})

	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.CORSOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
