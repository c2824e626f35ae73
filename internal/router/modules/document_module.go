package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/javierbuenopatience/patience-backend/internal/interface/http"
)

// DocumentModule wires the upload and document listing routes.
type DocumentModule struct {
	Handler *handlers.DocumentHandler
}

func NewDocumentModule(h *handlers.DocumentHandler) *DocumentModule {
	return &DocumentModule{Handler: h}
}

func (m *DocumentModule) Register(rg *gin.RouterGroup) {
	rg.POST("/uploadfile", m.Handler.Upload)
	rg.GET("/documents", m.Handler.List)
}
