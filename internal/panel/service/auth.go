package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/session"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

var (
	ErrEmptyLogin     = errors.New("login: backend returned no tokens")
	ErrNoRefreshToken = errors.New("refresh: session has no refresh token")
)

type AuthService struct {
	API     *panelsdk.Client
	Session *session.Store
	Guard   *Guard
}

// Login authenticates, fetches the vendor's store with the new token and
// only then commits the session. If another login or logout happened in the
// meantime the result is discarded with session.ErrStale.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	req := panelsdk.LoginRequest{Email: email, Password: password}
	if err := panelsdk.Check(req); err != nil {
		return domain.Session{}, err
	}

	gen := s.Session.Generation()
	s.Session.SetLoading(true)
	defer s.Session.SetLoading(false)

	env, err := s.API.Login(ctx, req)
	if err != nil {
		return domain.Session{}, wrap("login", err)
	}
	res := data(env)
	if res.Tokens.AccessToken == "" {
		return domain.Session{}, ErrEmptyLogin
	}

	prof, err := s.API.WithToken(res.Tokens.AccessToken).GetProfile(ctx)
	if err != nil {
		return domain.Session{}, wrap("login: fetch profile", err)
	}

	first, last := domain.SplitContactName(res.Vendor.ContactPersonName)
	auth := session.Auth{
		User: domain.User{
			ID:        res.Vendor.ID,
			Email:     res.Vendor.Email,
			FirstName: first,
			LastName:  last,
		},
		Store:        storeFromProfile(data(prof).Store),
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}
	if err := s.Session.SetAuthIf(ctx, gen, auth); err != nil {
		return s.Session.Session(), wrap("login", err)
	}

	slogx.FromContext(ctx).Info("logged in", "vendor_id", auth.User.ID, "store_id", auth.Store.ID)
	return s.Session.Session(), nil
}

// Register creates a vendor account. The caller logs in separately.
func (s *AuthService) Register(ctx context.Context, req panelsdk.RegisterRequest) (*panelsdk.Vendor, error) {
	if err := panelsdk.Check(req); err != nil {
		return nil, err
	}
	env, err := s.API.Register(ctx, req)
	if err != nil {
		return nil, wrap("register", err)
	}
	return &data(env).Vendor, nil
}

// Logout tells the backend, then clears the session whatever it said.
func (s *AuthService) Logout(ctx context.Context) error {
	log := slogx.FromContext(ctx)

	if s.Session.Session().IsAuthenticated {
		if _, err := s.API.Logout(ctx); err != nil {
			log.Warn("logout request failed, clearing session anyway", "err", err)
		}
	}

	err := s.Session.ClearAuth(ctx)
	s.Guard.navigate(PathLogin)
	return wrap("logout", err)
}

func (s *AuthService) ChangePassword(ctx context.Context, req panelsdk.ChangePasswordRequest) error {
	if err := panelsdk.Check(req); err != nil {
		return err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return err
	}
	_, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[json.RawMessage], error) {
		return s.API.ChangePassword(ctx, req)
	})
	return wrap("change password", err)
}

// Refresh trades the session's refresh token for a new pair. A 401 ends the
// session like any other call.
func (s *AuthService) Refresh(ctx context.Context) error {
	if err := s.Guard.Require(ctx); err != nil {
		return err
	}
	gen := s.Session.Generation()
	rt := s.Session.Session().RefreshToken
	if rt == "" {
		return ErrNoRefreshToken
	}

	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.RefreshResponse], error) {
		return s.API.Refresh(ctx, rt)
	})
	if err != nil {
		return wrap("refresh", err)
	}

	tokens := data(env).Tokens
	if tokens.AccessToken == "" {
		return ErrEmptyLogin
	}
	return wrap("refresh", s.Session.SetTokensIf(ctx, gen, tokens.AccessToken, tokens.RefreshToken))
}

func storeFromProfile(p panelsdk.StoreProfile) domain.Store {
	return domain.Store{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		LogoURL:     p.LogoURL,
		Email:       p.Email,
		IsActive:    p.IsActive,
	}
}
