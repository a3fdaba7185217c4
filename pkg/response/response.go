package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string            `json:"error"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// JSON writes data as the response body. Success responses carry the
// resource itself with no envelope.
func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

func Error(ctx *gin.Context, status int, message string) {
	write(ctx, status, message, nil)
}

// ValidationError writes a 400 with per-field details.
func ValidationError(ctx *gin.Context, message string, details map[string]string) {
	write(ctx, http.StatusBadRequest, message, details)
}

func write(ctx *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Error:     message,
		Details:   details,
		RequestID: ctx.GetString("request_id"),
	})
}
