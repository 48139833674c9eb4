package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// RealIP stores the client IP under real_ip. Proxy headers are checked in order
// CF-Connecting-IP, X-Real-IP, left-most X-Forwarded-For; c.ClientIP() is the fallback.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	candidates := []string{c.GetHeader("CF-Connecting-IP"), c.GetHeader("X-Real-IP")}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, first)
	}
	for _, v := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
