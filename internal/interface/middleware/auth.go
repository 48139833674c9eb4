package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// BearerAuth decodes the Authorization bearer token into a Principal.
// It sets userID and principal in the Gin context on success.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if header == "" || !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWith(c, apperr.Unauthorized("missing bearer token"))
			return
		}
		p, err := jwt.ParsePrincipal(strings.TrimSpace(token))
		if err != nil {
			abortWith(c, apperr.Wrap(apperr.KindInvalidToken, "invalid access token", err))
			return
		}
		c.Set(CtxUserIDKey, p.ID)
		c.Set(CtxPrincipalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by BearerAuth.
func PrincipalFrom(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}

// abortWith records err for ErrorHandler and stops the chain.
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
