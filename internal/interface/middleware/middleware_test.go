package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status    int            `json:"status"`
	RequestID string         `json:"request_id"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Error     map[string]any `json:"error"`
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler(helpers.NewNopLogger()))
	r.Use(mw...)
	return r
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestBearerAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newEngine(BearerAuth(jwt))
	r.GET("/me", func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "userID": c.GetString(CtxUserIDKey)})
	})

	t.Run("missing", func(t *testing.T) {
		w, env := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.RequestID)
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		w, env := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid access token", env.Message)
	})

	t.Run("valid", func(t *testing.T) {
		token, _, err := jwt.GenerateAccessToken(entity.Principal{ID: "u-1", Username: "alice_01"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"u-1","userID":"u-1"}`, w.Body.String())
	})
}

func TestServiceToken(t *testing.T) {
	build := func(enforce bool) *gin.Engine {
		r := newEngine(ServiceToken("peer-secret", enforce))
		r.GET("/svc", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	tests := []struct {
		name    string
		enforce bool
		token   string
		want    int
	}{
		{"missing in production", true, "", http.StatusUnauthorized},
		{"mismatch in production", true, "wrong", http.StatusForbidden},
		{"match in production", true, "peer-secret", http.StatusNoContent},
		{"bypassed outside production", false, "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/svc", nil)
			if tt.token != "" {
				req.Header.Set(ServiceTokenHeader, tt.token)
			}
			w, _ := do(build(tt.enforce), req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestErrorHandler_StatusTable(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("invalid payload", map[string]string{"username": "is required"}), http.StatusBadRequest, "invalid payload"},
		{apperr.NotFound("user not found"), http.StatusNotFound, "user not found"},
		{apperr.Conflict("username already exists"), http.StatusConflict, "username already exists"},
		{apperr.Forbidden("access denied"), http.StatusForbidden, "access denied"},
		{apperr.InvalidToken("bad token"), http.StatusUnauthorized, "bad token"},
		{apperr.Wrap(apperr.KindUpstream, "search unavailable", errors.New("dial tcp")), http.StatusBadGateway, "search unavailable"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := newEngine()
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tt.err) })
			w, env := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, w.Header().Get(RequestIDHeader), env.RequestID)
		})
	}
}

func TestRecovery_RendersEnvelope(t *testing.T) {
	r := newEngine(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	w, env := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Status)
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, w.Header().Get(RequestIDHeader), env.RequestID)
	assert.NotContains(t, w.Body.String(), "nil map write")
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperr.Validation("invalid payload", map[string]string{"username": "is required"}))
	})
	_, env := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "is required", env.Error["username"])
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		fromCtx = helpers.RequestIDFrom(c.Request.Context())
		c.String(http.StatusOK, c.GetString(response.RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), fromCtx)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := newEngine(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"cloudflare", "CF-Connecting-IP", "203.0.113.7", "203.0.113.7"},
		{"x-real-ip", "X-Real-IP", "198.51.100.2", "198.51.100.2"},
		{"forwarded for", "X-Forwarded-For", "198.51.100.9, 10.0.0.1", "198.51.100.9"},
		{"garbage falls back", "X-Forwarded-For", "nope", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.Header.Set(tt.header, tt.value)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestAllowFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Set(CtxRealIPKey, "10.1.2.3")
	assert.True(t, AllowPrivateIP()(c))
	c.Set(CtxRealIPKey, "203.0.113.7")
	assert.False(t, AllowPrivateIP()(c))

	allow := AnyOf(AllowPrivateIP(), AllowServiceToken("peer-secret"))
	assert.False(t, allow(c))
	c.Request.Header.Set(ServiceTokenHeader, "peer-secret")
	assert.True(t, allow(c))
	assert.False(t, AllowServiceToken("")(c))
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w, _ := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
