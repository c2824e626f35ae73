package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javierbuenopatience/patience-backend/internal/application"
	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	"github.com/javierbuenopatience/patience-backend/pkg/patch"
	"github.com/javierbuenopatience/patience-backend/pkg/response"
	"github.com/javierbuenopatience/patience-backend/pkg/validation"
)

const examDateLayout = "2006-01-02"

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name         patch.Field[string] `json:"name"`
	Phone        patch.Field[string] `json:"phone"`
	ExamDate     patch.Field[string] `json:"exam_date"`
	Specialty    patch.Field[string] `json:"specialty"`
	Hobbies      patch.Field[string] `json:"hobbies"`
	Location     patch.Field[string] `json:"location"`
	ProfileImage patch.Field[string] `json:"profile_image"`
}

// profileResponse is the public projection of a user. The password
// digest never appears here.
type profileResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	ExamDate     *string `json:"exam_date"`
	Specialty    *string `json:"specialty"`
	Hobbies      *string `json:"hobbies"`
	Location     *string `json:"location"`
	ProfileImage *string `json:"profile_image"`
}

func toProfileResponse(u *entity.User) profileResponse {
	var examDate *string
	if u.ExamDate != nil {
		s := u.ExamDate.Format(examDateLayout)
		examDate = &s
	}
	return profileResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		ExamDate:     examDate,
		Specialty:    u.Specialty,
		Hobbies:      u.Hobbies,
		Location:     u.Location,
		ProfileImage: u.ProfileImage,
	}
}

// writeServiceError maps the service error taxonomy onto transport
// statuses. Anything unrecognized becomes an opaque 500; the cause is
// logged, not returned.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error(c, http.StatusBadRequest, "email already registered", nil)
	case errors.Is(err, application.ErrUnknownEmail):
		response.Error(c, http.StatusBadRequest, "unknown email", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "invalid credentials", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error(c, http.StatusInternalServerError, "storage unavailable", nil)
	case errors.Is(err, application.ErrStorage):
		response.Error(c, http.StatusInternalServerError, "storage error", nil)
	default:
		if logger != nil {
			logger.WithError(err).Error("unexpected service error")
		}
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// Register POST /users/
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, registerResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

// Login POST /login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(u))
}

// GetProfile GET /profile?user_email=
func (h *AccountHandler) GetProfile(c *gin.Context) {
	email, ok := userEmailParam(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(u))
}

// UpdateProfile POST /profile?user_email=
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	email, ok := userEmailParam(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Specialty:    req.Specialty,
		Hobbies:      req.Hobbies,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	}
	if req.ExamDate.Set {
		in.ExamDate.Set = true
		in.ExamDate.Null = req.ExamDate.Null
		if !req.ExamDate.Null {
			t, err := time.Parse(examDateLayout, req.ExamDate.Value)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "invalid payload",
					map[string]string{"exam_date": "must match datetime format: " + examDateLayout})
				return
			}
			in.ExamDate.Value = t
		}
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), email, in)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(u))
}

// userEmailParam reads the user_email query parameter shared by the
// profile, upload and listing routes.
func userEmailParam(c *gin.Context) (string, bool) {
	email := c.Query("user_email")
	if email == "" {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"user_email": "is required"})
		return "", false
	}
	return email, true
}
