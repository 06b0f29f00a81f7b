// Package session holds the panel's explicit context objects: the
// authenticated Session and the UI preferences. Both are created by the
// application, rehydrated from storage with Load and passed to whoever needs
// them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

var (
	ErrInvalidSession   = errors.New("session: user ID, store ID and token are required")
	ErrStale            = errors.New("session: superseded by a newer session")
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Auth is everything needed to start a session.
type Auth struct {
	User         domain.User
	Store        domain.Store
	Token        string
	RefreshToken string
}

// Store is the single source of truth for who is logged in.
//
// Mutations are serialised. Each one commits in memory first, then writes
// through to storage, then notifies subscribers on the calling goroutine
// before returning. A storage failure is returned to the caller but the
// in-memory change stands.
//
// Generation increases whenever the identity or its tokens change. Callers
// that start a request under one generation use the ...If variants to apply
// its result, so a slow response can't overwrite a newer session.
type Store struct {
	kv storage.KV

	// write serialises mutations end to end, including persistence.
	write sync.Mutex

	mu   sync.RWMutex
	sess domain.Session
	gen  uint64

	subs listeners[domain.Session]
}

// NewStore returns an empty, unauthenticated Store. Call Load to rehydrate.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Session returns a copy of the current session.
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Clone()
}

// Generation identifies the current session for stale-response checks.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Subscribe registers fn to be called after every change.
func (s *Store) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	return s.subs.add(fn)
}

// Token returns the persisted bearer token, or "" when there is none. It
// makes Store a panelsdk.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, err := s.kv.Get(ctx, storage.KeyAuthToken)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "", nil
	case errors.Is(err, storage.ErrCorrupt):
		slogx.FromContext(ctx).Warn("persisted token unreadable, sending unauthenticated", "err", err)
		return "", nil
	case err != nil:
		return "", err
	}
	return tok, nil
}

// SetAuth replaces the session with a new authenticated identity and
// persists both the token and the snapshot.
func (s *Store) SetAuth(ctx context.Context, user domain.User, store domain.Store, token string) error {
	return s.setAuth(ctx, nil, Auth{User: user, Store: store, Token: token})
}

// SetAuthIf is SetAuth guarded by generation; it returns ErrStale without
// changing anything when gen is no longer current.
func (s *Store) SetAuthIf(ctx context.Context, gen uint64, auth Auth) error {
	return s.setAuth(ctx, &gen, auth)
}

func (s *Store) setAuth(ctx context.Context, gen *uint64, a Auth) error {
	if a.Token == "" || a.User.ID == "" || a.Store.ID == "" {
		return ErrInvalidSession
	}

	expiresAt, err := jwtx.ExpiresAt(a.Token)
	if err != nil {
		slogx.FromContext(ctx).Debug("access token expiry unknown", "err", err)
	}

	user, store := a.User, a.Store
	next := domain.Session{
		User:            &user,
		Store:           &store,
		Token:           a.Token,
		RefreshToken:    a.RefreshToken,
		ExpiresAt:       expiresAt,
		IsAuthenticated: true,
	}

	return s.mutate(ctx, gen, true, func(cur domain.Session) (domain.Session, error) {
		next.IsLoading = cur.IsLoading
		return next, nil
	}, func(ctx context.Context, snap domain.Session) error {
		return s.persistAuth(ctx, snap)
	})
}

// SetTokens swaps in a refreshed token pair for the current identity.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	return s.setTokens(ctx, nil, access, refresh)
}

// SetTokensIf is SetTokens guarded by generation.
func (s *Store) SetTokensIf(ctx context.Context, gen uint64, access, refresh string) error {
	return s.setTokens(ctx, &gen, access, refresh)
}

func (s *Store) setTokens(ctx context.Context, gen *uint64, access, refresh string) error {
	if access == "" {
		return ErrInvalidSession
	}
	expiresAt, err := jwtx.ExpiresAt(access)
	if err != nil {
		slogx.FromContext(ctx).Debug("access token expiry unknown", "err", err)
	}

	return s.mutate(ctx, gen, true, func(cur domain.Session) (domain.Session, error) {
		if !cur.IsAuthenticated {
			return cur, ErrNotAuthenticated
		}
		cur.Token = access
		if refresh != "" {
			cur.RefreshToken = refresh
		}
		cur.ExpiresAt = expiresAt
		return cur, nil
	}, func(ctx context.Context, snap domain.Session) error {
		return s.persistAuth(ctx, snap)
	})
}

// ClearAuth resets to the empty session and removes the persisted token and
// snapshot. Calling it with no session is a no-op apart from the storage
// delete.
func (s *Store) ClearAuth(ctx context.Context) error {
	return s.clearAuth(ctx, nil)
}

// ClearAuthIf is ClearAuth guarded by generation. A 401 from a request
// issued under an older session must not log out the newer one.
func (s *Store) ClearAuthIf(ctx context.Context, gen uint64) error {
	return s.clearAuth(ctx, &gen)
}

func (s *Store) clearAuth(ctx context.Context, gen *uint64) error {
	return s.mutate(ctx, gen, true, func(cur domain.Session) (domain.Session, error) {
		return domain.Session{IsLoading: cur.IsLoading}, nil
	}, func(ctx context.Context, _ domain.Session) error {
		return s.kv.Delete(ctx, storage.KeyAuthToken, storage.KeySession)
	})
}

// UpdateStore merges the non-nil fields of patch into the current store. It
// does nothing, successfully, when no one is logged in.
func (s *Store) UpdateStore(ctx context.Context, patch domain.StorePatch) error {
	return s.updateStore(ctx, nil, patch)
}

// UpdateStoreIf is UpdateStore guarded by generation.
func (s *Store) UpdateStoreIf(ctx context.Context, gen uint64, patch domain.StorePatch) error {
	return s.updateStore(ctx, &gen, patch)
}

func (s *Store) updateStore(ctx context.Context, gen *uint64, patch domain.StorePatch) error {
	return s.mutate(ctx, gen, false, func(cur domain.Session) (domain.Session, error) {
		if cur.Store == nil {
			return cur, errNoop
		}
		merged := patch.Apply(*cur.Store)
		cur.Store = &merged
		return cur, nil
	}, func(ctx context.Context, snap domain.Session) error {
		b, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return s.kv.Set(ctx, storage.KeySession, string(b))
	})
}

// SetLoading flips the transient loading flag. It is never persisted.
func (s *Store) SetLoading(loading bool) {
	_ = s.mutate(context.Background(), nil, false, func(cur domain.Session) (domain.Session, error) {
		cur.IsLoading = loading
		return cur, nil
	}, nil)
}

// Load rehydrates from storage. A missing snapshot leaves the session empty;
// a malformed one is discarded along with the token and the session reset.
// Only storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	log := slogx.FromContext(ctx)

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, errMalformed) {
			return err
		}
		log.Warn("discarding malformed session snapshot", "err", err)
		if derr := s.kv.Delete(ctx, storage.KeyAuthToken, storage.KeySession); derr != nil {
			return fmt.Errorf("session: purge malformed snapshot: %w", derr)
		}
		snap = domain.Session{}
	}

	return s.mutate(ctx, nil, true, func(cur domain.Session) (domain.Session, error) {
		snap.IsLoading = cur.IsLoading
		return snap, nil
	}, nil)
}

var (
	errNoop      = errors.New("no-op")
	errMalformed = errors.New("malformed session snapshot")
)

func (s *Store) readSnapshot(ctx context.Context) (domain.Session, error) {
	raw, err := s.kv.Get(ctx, storage.KeySession)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// A token without a snapshot can't be attributed to anyone.
		if _, terr := s.kv.Get(ctx, storage.KeyAuthToken); terr == nil {
			return domain.Session{}, fmt.Errorf("%w: token without snapshot", errMalformed)
		}
		return domain.Session{}, nil
	case errors.Is(err, storage.ErrCorrupt):
		return domain.Session{}, fmt.Errorf("%w: %v", errMalformed, err)
	case err != nil:
		return domain.Session{}, fmt.Errorf("session: read snapshot: %w", err)
	}

	var snap domain.Session
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if !snap.Valid() {
		return domain.Session{}, fmt.Errorf("%w: authentication fields inconsistent", errMalformed)
	}
	if !snap.IsAuthenticated {
		return domain.Session{}, nil
	}

	tok, err := s.kv.Get(ctx, storage.KeyAuthToken)
	if err != nil && !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrCorrupt) {
		return domain.Session{}, fmt.Errorf("session: read token: %w", err)
	}
	if tok != snap.Token {
		return domain.Session{}, fmt.Errorf("%w: persisted token does not match snapshot", errMalformed)
	}
	return snap, nil
}

func (s *Store) persistAuth(ctx context.Context, snap domain.Session) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.kv.SetMany(ctx, map[string]string{
		storage.KeyAuthToken: snap.Token,
		storage.KeySession:   string(b),
	})
}

// mutate runs one serialised change: check generation, apply fn, commit in
// memory, persist, notify. bump advances the generation. fn returning
// errNoop skips everything and reports success.
func (s *Store) mutate(
	ctx context.Context,
	gen *uint64,
	bump bool,
	fn func(domain.Session) (domain.Session, error),
	persist func(context.Context, domain.Session) error,
) error {
	s.write.Lock()

	s.mu.Lock()
	if gen != nil && *gen != s.gen {
		s.mu.Unlock()
		s.write.Unlock()
		return ErrStale
	}
	next, err := fn(s.sess.Clone())
	if err != nil {
		s.mu.Unlock()
		s.write.Unlock()
		if errors.Is(err, errNoop) {
			return nil
		}
		return err
	}
	s.sess = next
	if bump {
		s.gen++
	}
	snap := next.Clone()
	s.mu.Unlock()

	var perr error
	if persist != nil {
		if perr = persist(ctx, snap); perr != nil {
			slogx.FromContext(ctx).Error("session persistence failed", "err", perr)
			perr = fmt.Errorf("session: persist: %w", perr)
		}
	}
	s.write.Unlock()

	s.subs.notify(s.Session)
	return perr
}
