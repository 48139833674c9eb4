package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware injects a unique request_id into the Gin context for every request.
// A well-formed incoming X-Request-ID is reused so traces span services.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Request = c.Request.WithContext(helpers.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
