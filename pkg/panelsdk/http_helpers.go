package panelsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/idx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// RequestOptions configures a single call. The zero value is a GET with no
// body.
type RequestOptions struct {
	Method string
	Query  url.Values

	// Body is encoded as JSON when non-nil.
	Body any

	// Header values override the defaults, including Authorization.
	Header http.Header
}

// Do sends a request to path and decodes the response envelope into T.
// op names the call for metrics, e.g. "products.list".
//
// Non-2xx responses return *APIError with the server's message (or
// "Request failed"). Transport failures and unreadable success bodies
// return *APIError with status 0 and message "Network error".
func Do[T any](ctx context.Context, c *Client, op, path string, opts *RequestOptions) (*Envelope[T], error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	start := time.Now()

	req, err := c.newRequest(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			c.Metrics.observe(op, 0, time.Since(start))
			return nil, networkError(err)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.observe(op, 0, time.Since(start))
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.Metrics.observe(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, networkError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	env, err := decodeEnvelope[T](body)
	if err != nil {
		return nil, networkError(err)
	}
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, path string, opts *RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.BaseURL + path
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("panelsdk: encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("panelsdk: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(slogx.RequestIDHeader, idx.New().String())

	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("panelsdk: read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// parseErrorResponse builds the *APIError for a non-2xx response. The status
// is always kept so a 401 with an HTML body still matches ErrUnauthorized.
func parseErrorResponse(status int, body []byte) *APIError {
	msg := serverMessage(body)
	if msg == "" {
		msg = MessageRequestFailed
	}
	return &APIError{StatusCode: status, Message: msg, Body: body}
}
