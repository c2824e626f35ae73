package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javierbuenopatience/patience-backend/internal/application"
)

type ActivityHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewActivityHandler(svc *application.AccountService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Svc: svc, Logger: logger}
}

type activityResponse struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"user_email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// List GET /activities?user_email=
func (h *ActivityHandler) List(c *gin.Context) {
	email, ok := userEmailParam(c)
	if !ok {
		return
	}
	acts, err := h.Svc.ListActivities(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityResponse{ID: a.ID, UserEmail: a.UserEmail, Message: a.Message, CreatedAt: a.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}
