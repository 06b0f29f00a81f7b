package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// DefaultRefreshWindow is how close to expiry a token is refreshed.
const DefaultRefreshWindow = 2 * time.Minute

// SessionWatcher periodically checks the access token's expiry. A token
// inside the refresh window is renewed with the refresh token. A session
// whose refresh is rejected is ended; network failures leave it in place.
type SessionWatcher struct {
	Auth     *AuthService
	Logger   *slog.Logger
	Interval time.Duration
	Window   time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSessionWatcher creates a watcher. If interval is 0 or negative it
// defaults to 30 seconds.
func NewSessionWatcher(auth *AuthService, logger *slog.Logger, interval time.Duration) *SessionWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &SessionWatcher{
		Auth:     auth,
		Logger:   logger,
		Interval: interval,
		Window:   DefaultRefreshWindow,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the watcher in the background until Stop is called.
func (w *SessionWatcher) Start() {
	go w.run()
	w.Logger.Info("session watcher started", "interval", w.Interval, "window", w.Window)
}

// Stop shuts the watcher down, waiting for an in-progress check.
func (w *SessionWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.Logger.Info("session watcher stopped")
}

func (w *SessionWatcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.check()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		}
	}
}

func (w *SessionWatcher) check() {
	ctx, cancel := context.WithTimeout(context.Background(), w.Interval)
	defer cancel()
	w.Check(slogx.WithContext(ctx, w.Logger))
}

// Check performs a single pass.
func (w *SessionWatcher) Check(ctx context.Context) {
	store := w.Auth.Session
	gen := store.Generation()
	sess := store.Session()
	if !sess.IsAuthenticated || sess.ExpiresAt.IsZero() {
		return
	}

	now := w.Now()
	if sess.ExpiresAt.Sub(now) > w.Window {
		return
	}

	if sess.RefreshToken == "" {
		if sess.Expired(now) {
			w.Auth.Guard.expire(ctx, gen, "token expired")
		}
		return
	}

	err := w.Auth.Refresh(ctx)
	if err == nil {
		w.Logger.Debug("access token refreshed")
		return
	}
	if errors.Is(err, panelsdk.ErrNetwork) {
		// Retried on the next tick.
		w.Logger.Warn("token refresh unavailable", "err", err)
		return
	}
	w.Logger.Warn("token refresh rejected", "err", err)
	w.Auth.Guard.expire(ctx, gen, "refresh failed")
}
