package service

import (
	"context"
	"errors"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/session"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

type ProfileService struct {
	API     *panelsdk.Client
	Session *session.Store
	Guard   *Guard
}

// Get fetches the store profile and folds it into the session snapshot.
func (s *ProfileService) Get(ctx context.Context) (*panelsdk.ProfileResponse, error) {
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	gen := s.Session.Generation()
	env, err := call(ctx, s.Guard, s.API.GetProfile)
	if err != nil {
		return nil, wrap("get profile", err)
	}

	prof := data(env)
	s.sync(ctx, gen, prof.Store)
	return prof, nil
}

// Update changes the store profile. The session snapshot only changes once
// the backend has accepted the update.
func (s *ProfileService) Update(ctx context.Context, update panelsdk.ProfileUpdate) (domain.Store, error) {
	if err := panelsdk.Check(update); err != nil {
		return domain.Store{}, err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return domain.Store{}, err
	}

	gen := s.Session.Generation()
	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.ProfileUpdateResponse], error) {
		return s.API.UpdateProfile(ctx, update)
	})
	if err != nil {
		return domain.Store{}, wrap("update profile", err)
	}

	if res := data(env); res.Store.ID != "" {
		s.sync(ctx, gen, res.Store)
	} else {
		s.apply(ctx, gen, domain.StorePatch{
			Name:        update.Name,
			Description: update.Description,
			LogoURL:     update.LogoURL,
		})
	}

	sess := s.Session.Session()
	if sess.Store == nil {
		return domain.Store{}, session.ErrNotAuthenticated
	}
	return *sess.Store, nil
}

func (s *ProfileService) sync(ctx context.Context, gen uint64, p panelsdk.StoreProfile) {
	st := storeFromProfile(p)
	s.apply(ctx, gen, domain.StorePatch{
		Name:        &st.Name,
		Description: &st.Description,
		LogoURL:     &st.LogoURL,
		Email:       &st.Email,
		IsActive:    &st.IsActive,
	})
}

func (s *ProfileService) apply(ctx context.Context, gen uint64, patch domain.StorePatch) {
	err := s.Session.UpdateStoreIf(ctx, gen, patch)
	switch {
	case errors.Is(err, session.ErrStale):
		slogx.FromContext(ctx).Debug("profile response arrived for a superseded session")
	case err != nil:
		slogx.FromContext(ctx).Error("failed to persist store snapshot", "err", err)
	}
}
