package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
)

const ServiceTokenHeader = "x-access-token"

// ServiceToken gates peer-service routes on the shared x-access-token header.
// When enforce is false (non-production) every request passes.
func ServiceToken(expected string, enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		got := c.GetHeader(ServiceTokenHeader)
		if got == "" {
			abortWith(c, apperr.Unauthorized("missing service token"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			abortWith(c, apperr.Forbidden("access denied"))
			return
		}
		c.Next()
	}
}
