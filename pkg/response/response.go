package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the envelope for every error response. Success bodies are
// the bare projections fixed by the transport contract, so only errors
// carry the envelope. Message is always a human-readable summary; no
// internal detail (SQL text, stack traces) belongs here.
type ErrorBody struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail"`
	Fields    any       `json:"fields,omitempty"`
}

// Error writes an error body with the given status. fields is optional
// per-field detail (validation errors).
func Error(ctx *gin.Context, status int, detail string, fields any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, ErrorBody{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Detail:    detail,
		Fields:    fields,
	})
}
