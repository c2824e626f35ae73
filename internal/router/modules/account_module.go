package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javierbuenopatience/patience-backend/internal/container"
	handlers "github.com/javierbuenopatience/patience-backend/internal/interface/http"
	"github.com/javierbuenopatience/patience-backend/internal/interface/middleware"
)

// AccountModule wires the registration, login and profile routes.
// Registration and login carry per-IP rate limits; everything here is
// stateless, so no auth middleware exists.
type AccountModule struct {
	Handler *handlers.AccountHandler
}

func NewAccountModule(h *handlers.AccountHandler) *AccountModule {
	return &AccountModule{Handler: h}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Registration and login count against separate per-IP buckets.
	// Private and loopback callers bypass the limiter in development.
	var allow middleware.AllowFunc
	if cfg := container.GetConfig(); cfg != nil && cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), allow)

	rg.POST("/users/", limiter, m.Handler.Register)
	rg.POST("/login", limiter, m.Handler.Login)
	rg.GET("/profile", m.Handler.GetProfile)
	rg.POST("/profile", m.Handler.UpdateProfile)
}
