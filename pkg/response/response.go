package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request-id middleware stores the trace id under.
const RequestIDKey = "request_id"

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString(RequestIDKey),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString(RequestIDKey),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a success envelope with the given status.
func OK[T any](ctx *gin.Context, status int, data T, message string) {
	r := Success(ctx, status, data, message, nil)
	ctx.JSON(r.Status, r)
}

// Fail writes an error envelope and aborts the handler chain.
func Fail(ctx *gin.Context, status int, message string, err any) {
	r := Error[any](ctx, status, message, err)
	ctx.AbortWithStatusJSON(r.Status, r)
}
