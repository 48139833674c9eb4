package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-profile-service/internal/container"
	handlers "github.com/oksasatya/user-profile-service/internal/interface/http"
	"github.com/oksasatya/user-profile-service/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	r.Engine.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"title":               cfg.AppName,
			"service-version":     cfg.AppVersion,
			"application-version": cfg.OriginVersion,
		})
	})

	r.Add(modules.NewProfileModule(
		handlers.NewProfileHandler(c.Service, c.Logger),
		c.JWT,
		c.Redis,
		cfg.XAccessToken,
		cfg.IsProduction(),
	))
	r.Add(modules.NewServiceModule(
		handlers.NewServiceHandler(c.Service, c.Logger),
		cfg.XAccessToken,
		cfg.IsProduction(),
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
