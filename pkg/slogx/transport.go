package slogx

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestIDHeader carries the correlation ID between the panel and the API.
const RequestIDHeader = "X-Request-ID"

// Transport is an http.RoundTripper that logs every outbound request at
// debug level and failures at warn level. The Authorization header is never
// logged.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := t.Logger
	if log == nil {
		log = FromContext(req.Context())
	}
	log = log.With(
		"req_id", req.Header.Get(RequestIDHeader),
		"method", req.Method,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Warn("api_request_failed", "duration_ms", elapsed, "err", err)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	log.Log(req.Context(), level, "api_request",
		"status", resp.StatusCode,
		"duration_ms", elapsed,
	)
	return resp, nil
}
