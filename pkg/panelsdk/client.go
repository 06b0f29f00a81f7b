package panelsdk

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:3002"

// TokenSource yields the bearer token to attach to a request. An empty token
// means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Client talks to the vendor API. The zero value is not usable; create one
// with NewClient and adjust the exported fields before first use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Tokens supplies the Authorization header. Nil sends every request
	// without one.
	Tokens TokenSource

	// Limiter, when set, is waited on before each request is sent.
	Limiter *rate.Limiter

	// Metrics, when set, records request counts and latencies.
	Metrics *Metrics
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a shallow copy of c that authenticates with token
// regardless of the configured TokenSource. Used between login and the
// first profile fetch, before the session has been committed.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Tokens = StaticToken(token)
	return &cp
}
