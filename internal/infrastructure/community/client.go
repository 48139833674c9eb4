package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
)

const tokenHeader = "cross-service-token"

// Registration is the payload the community service expects for a new member.
type Registration struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	MediaURL  string `json:"mediaUrl"`
	IsPrime   bool   `json:"isPrime"`
}

// Client registers accounts with the community service. 5xx responses and
// transport errors are retried with exponential backoff, at most MaxRetries
// times; 4xx responses fail immediately.
type Client struct {
	BaseURL    string
	Token      string
	HTTP       *http.Client
	MaxRetries int

	// InitialInterval overrides the first backoff step; zero keeps the library default.
	InitialInterval time.Duration
}

func NewClient(baseURL, token string, maxRetries int) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		MaxRetries: maxRetries,
	}
}

// Enabled reports whether a peer URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

func (c *Client) Register(ctx context.Context, reg Registration) error {
	if !c.Enabled() {
		return nil
	}
	body, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	attempts := 0
	op := func() error {
		attempts++
		return c.post(ctx, body)
	}

	eb := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		eb.InitialInterval = c.InitialInterval
	}
	eb.MaxElapsedTime = 0 // bounded by MaxRetries and ctx instead
	var b backoff.BackOff = backoff.WithMaxRetries(eb, uint64(max(c.MaxRetries, 0)))
	b = backoff.WithContext(b, ctx)

	if err := backoff.Retry(op, b); err != nil {
		return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("community registration failed after %d attempt(s)", attempts), err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.Token)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, res.Body)

	switch {
	case res.StatusCode >= 500:
		return fmt.Errorf("community service: %s", res.Status)
	case res.StatusCode >= 400:
		return backoff.Permanent(fmt.Errorf("community service: %s", res.Status))
	}
	return nil
}
