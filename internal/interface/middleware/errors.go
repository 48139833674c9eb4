package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/pkg/response"
)

// ErrorHandler turns the last error pushed with c.Error into the response
// envelope. Unclassified errors become a 500 with a generic message; their
// detail only reaches the log.
func ErrorHandler(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		kind := apperr.KindOf(err)
		status := apperr.Status(kind)

		message := "internal server error"
		var details any
		if ae, ok := asAppError(err); ok && kind != apperr.KindInternal {
			message = ae.Message
			details = ae.Details
		}
		if status >= 500 {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(response.RequestIDKey),
				"kind":       string(kind),
			}).WithError(err).Error("request error")
		}
		response.Fail(c, status, message, details)
	}
}

func asAppError(err error) (*apperr.Error, bool) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Recovery converts a panic into an internal error for ErrorHandler to render,
// so panics get the same envelope and request id as any other failure.
// Register it after ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		_ = c.Error(apperr.Wrap(apperr.KindInternal, "panic", fmt.Errorf("%v", rec)))
		c.Abort()
	})
}
