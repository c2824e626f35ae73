package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/javierbuenopatience/patience-backend/internal/interface/http"
)

// ActivityModule wires the activity listing route.
type ActivityModule struct {
	Handler *handlers.ActivityHandler
}

func NewActivityModule(h *handlers.ActivityHandler) *ActivityModule {
	return &ActivityModule{Handler: h}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	rg.GET("/activities", m.Handler.List)
}
