package community

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
)

func newTestClient(url string, retries int) *Client {
	c := NewClient(url, "peer-secret", retries)
	c.InitialInterval = time.Millisecond
	return c
}

func TestRegister_SendsPayloadAndToken(t *testing.T) {
	var got Registration
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		token = r.Header.Get("cross-service-token")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	reg := Registration{ID: "id-1", Username: "alice_01", FirstName: "Alice", LastName: "Smith", MediaURL: "https://cdn/a.png"}
	require.NoError(t, newTestClient(srv.URL, 3).Register(context.Background(), reg))
	assert.Equal(t, "peer-secret", token)
	assert.Equal(t, reg, got)
	assert.False(t, got.IsPrime)
}

func TestRegister_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(srv.URL, 5).Register(context.Background(), Registration{ID: "x"}))
	assert.EqualValues(t, 3, calls.Load())
}

func TestRegister_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, 2).Register(context.Background(), Registration{ID: "x"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.EqualValues(t, 3, calls.Load())
}

func TestRegister_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, 5).Register(context.Background(), Registration{ID: "x"})
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRegister_StopsOnDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", 1000)
	c.InitialInterval = 20 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Error(t, c.Register(ctx, Registration{ID: "x"}))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRegister_DisabledWithoutURL(t *testing.T) {
	assert.NoError(t, NewClient("", "t", 3).Register(context.Background(), Registration{}))
}
