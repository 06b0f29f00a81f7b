// Package service is the session-aware layer between commands and the API
// client. It owns the policy the client deliberately lacks: a 401 tears the
// session down and sends the user to the login screen.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/session"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// Screens the panel can send the user to.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

var ErrNotLoggedIn = errors.New("not logged in, run `panel login`")

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Guard wraps API calls with the session teardown policy.
type Guard struct {
	Session  *session.Store
	Navigate Navigator
}

// Require returns ErrNotLoggedIn, after redirecting to login, when there is
// no authenticated session.
func (g *Guard) Require(ctx context.Context) error {
	if g.Session.Session().IsAuthenticated {
		return nil
	}
	g.navigate(PathLogin)
	return ErrNotLoggedIn
}

// Landing is where the user should start: the dashboard when logged in,
// login otherwise.
func (g *Guard) Landing() string {
	if g.Session.Session().IsAuthenticated {
		return PathDashboard
	}
	return PathLogin
}

// Do runs fn. If it fails with ErrUnauthorized, the session that was current
// when fn started is cleared and the user is sent to login before the error
// is returned. A newer session is left alone.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	gen := g.Session.Generation()
	err := fn(ctx)
	if errors.Is(err, panelsdk.ErrUnauthorized) {
		g.expire(ctx, gen, "unauthorized")
	}
	return err
}

// expire clears the session issued as gen and redirects to login.
func (g *Guard) expire(ctx context.Context, gen uint64, reason string) {
	log := slogx.FromContext(ctx)

	err := g.Session.ClearAuthIf(ctx, gen)
	switch {
	case errors.Is(err, session.ErrStale):
		log.Debug("ignoring teardown for superseded session", "reason", reason)
		return
	case err != nil:
		log.Error("session teardown incomplete", "reason", reason, "err", err)
	default:
		log.Warn("session ended", "reason", reason)
	}
	g.navigate(PathLogin)
}

func (g *Guard) navigate(path string) {
	if g.Navigate != nil {
		g.Navigate.Navigate(path)
	}
}

// call is Guard.Do for gateway calls returning an envelope.
func call[T any](ctx context.Context, g *Guard, fn func(context.Context) (*panelsdk.Envelope[T], error)) (*panelsdk.Envelope[T], error) {
	var env *panelsdk.Envelope[T]
	err := g.Do(ctx, func(ctx context.Context) error {
		var err error
		env, err = fn(ctx)
		return err
	})
	return env, err
}

// data unwraps an envelope's payload, substituting the zero value when the
// backend sent none.
func data[T any](env *panelsdk.Envelope[T]) *T {
	if env == nil || env.Data == nil {
		return new(T)
	}
	return env.Data
}

func requireID(id string) error {
	if id == "" {
		return &panelsdk.ValidationError{Fields: map[string]string{"id": "Product ID is required"}}
	}
	return nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
