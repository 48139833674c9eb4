package middleware

import (
	"crypto/subtle"
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and private-range callers
// (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16), i.e. peers inside the cluster.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowServiceToken bypasses the limiter for callers presenting the shared service token.
func AllowServiceToken(token string) AllowFunc {
	return func(c *gin.Context) bool {
		got := c.GetHeader(ServiceTokenHeader)
		return token != "" && got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
	}
}

// AnyOf bypasses when any of fns does.
func AnyOf(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}
