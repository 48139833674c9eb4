package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-profile-service/internal/interface/http"
	"github.com/oksasatya/user-profile-service/internal/interface/middleware"
)

// ServiceModule wires the peer-service routes, all behind the header token.
type ServiceModule struct {
	Handler      *handlers.ServiceHandler
	ServiceToken string
	Enforce      bool
}

func NewServiceModule(h *handlers.ServiceHandler, serviceToken string, enforce bool) *ServiceModule {
	return &ServiceModule{Handler: h, ServiceToken: serviceToken, Enforce: enforce}
}

func (m *ServiceModule) Register(rg *gin.RouterGroup) {
	svc := rg.Group("/service")
	svc.Use(middleware.ServiceToken(m.ServiceToken, m.Enforce))
	{
		svc.GET("/search", m.Handler.Search)
		svc.GET("/:id", m.Handler.GetProfile)
		svc.PATCH("/", m.Handler.AdjustStatistic)
	}
}
