package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-profile-service/internal/interface/http"
	"github.com/oksasatya/user-profile-service/internal/interface/middleware"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

// ProfileModule wires the /users routes.
// Header token: availability check, create, admin drop.
// Bearer: own profile, media and device registration.
type ProfileModule struct {
	Handler      *handlers.ProfileHandler
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	ServiceToken string
	Enforce      bool
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager, rdb *redis.Client, serviceToken string, enforce bool) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt, Redis: rdb, ServiceToken: serviceToken, Enforce: enforce}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	// Trusted peers and internal callers are not throttled
	allow := middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowServiceToken(m.ServiceToken))
	checkLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), allow)
	createLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), allow)
	token := middleware.ServiceToken(m.ServiceToken, m.Enforce)

	users.GET("/:username", checkLimiter, token, m.Handler.CheckUsername)
	users.POST("/", createLimiter, token, m.Handler.Create)
	users.DELETE("/drop/:id", token, m.Handler.Drop)

	auth := users.Group("")
	auth.Use(middleware.BearerAuth(m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/", m.Handler.GetOwn)
		auth.PATCH("/", m.Handler.Update)
		auth.DELETE("/", m.Handler.Delete)
		auth.POST("/avatar", m.Handler.AddAvatar)
		auth.DELETE("/avatar/:avatarId", m.Handler.DeleteAvatar)
		auth.POST("/back_pad", m.Handler.ReplaceBackPad)
		auth.POST("/append/device", m.Handler.AppendDevice)
	}
}
