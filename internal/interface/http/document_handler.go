package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javierbuenopatience/patience-backend/internal/application"
	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	"github.com/javierbuenopatience/patience-backend/pkg/response"
)

type DocumentHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewDocumentHandler(svc *application.AccountService, logger *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{Svc: svc, Logger: logger}
}

type documentResponse struct {
	ID        int64  `json:"id"`
	UserEmail string `json:"user_email"`
	Filename  string `json:"filename"`
	FileURL   string `json:"file_url"`
	FileType  string `json:"file_type"`
}

func toDocumentResponse(d *entity.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		UserEmail: d.UserEmail,
		Filename:  d.Filename,
		FileURL:   d.FileURL,
		FileType:  d.FileType,
	}
}

// Upload POST /uploadfile?user_email=  (multipart "file" part)
func (h *DocumentHandler) Upload(c *gin.Context) {
	email, ok := userEmailParam(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"file": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"file": "could not be read"})
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	d, err := h.Svc.UploadDocument(c.Request.Context(), email, fh.Filename, contentType, f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(d))
}

// List GET /documents?user_email=
func (h *DocumentHandler) List(c *gin.Context) {
	email, ok := userEmailParam(c)
	if !ok {
		return
	}
	docs, err := h.Svc.ListDocuments(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	c.JSON(http.StatusOK, out)
}
