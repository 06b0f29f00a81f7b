package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

var ErrInvalidTheme = errors.New("session: theme must be light or dark")

// Preferences holds UI preferences. They are persisted under their own key
// and survive logout.
type Preferences struct {
	kv storage.KV

	write sync.Mutex

	mu    sync.RWMutex
	prefs domain.UIPreferences

	subs listeners[domain.UIPreferences]
}

func NewPreferences(kv storage.KV) *Preferences {
	return &Preferences{kv: kv, prefs: domain.DefaultPreferences()}
}

func (p *Preferences) Preferences() domain.UIPreferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs
}

func (p *Preferences) Subscribe(fn func(domain.UIPreferences)) (unsubscribe func()) {
	return p.subs.add(fn)
}

// Load rehydrates from storage, falling back to defaults for a missing or
// malformed value.
func (p *Preferences) Load(ctx context.Context) error {
	prefs := domain.DefaultPreferences()

	raw, err := p.kv.Get(ctx, storage.KeyUIPreferences)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, storage.ErrCorrupt):
		p.discard(ctx, err)
	case err != nil:
		return fmt.Errorf("session: read preferences: %w", err)
	default:
		var stored domain.UIPreferences
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			p.discard(ctx, err)
			break
		}
		if _, err := domain.ParseTheme(string(stored.Theme)); err != nil {
			p.discard(ctx, err)
			break
		}
		prefs = stored
	}

	return p.mutate(ctx, func(domain.UIPreferences) (domain.UIPreferences, error) { return prefs, nil }, false)
}

func (p *Preferences) discard(ctx context.Context, cause error) {
	slogx.FromContext(ctx).Warn("discarding malformed UI preferences", "err", cause)
	if err := p.kv.Delete(ctx, storage.KeyUIPreferences); err != nil {
		slogx.FromContext(ctx).Error("purge UI preferences", "err", err)
	}
}

func (p *Preferences) ToggleSidebar(ctx context.Context) error {
	return p.mutate(ctx, func(cur domain.UIPreferences) (domain.UIPreferences, error) {
		cur.SidebarOpen = !cur.SidebarOpen
		return cur, nil
	}, true)
}

func (p *Preferences) SetSidebarOpen(ctx context.Context, open bool) error {
	return p.mutate(ctx, func(cur domain.UIPreferences) (domain.UIPreferences, error) {
		cur.SidebarOpen = open
		return cur, nil
	}, true)
}

func (p *Preferences) SetTheme(ctx context.Context, theme domain.Theme) error {
	if _, err := domain.ParseTheme(string(theme)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return p.mutate(ctx, func(cur domain.UIPreferences) (domain.UIPreferences, error) {
		cur.Theme = theme
		return cur, nil
	}, true)
}

func (p *Preferences) mutate(ctx context.Context, fn func(domain.UIPreferences) (domain.UIPreferences, error), persist bool) error {
	p.write.Lock()

	p.mu.Lock()
	next, err := fn(p.prefs)
	if err != nil {
		p.mu.Unlock()
		p.write.Unlock()
		return err
	}
	p.prefs = next
	p.mu.Unlock()

	var perr error
	if persist {
		b, err := json.Marshal(next)
		if err == nil {
			err = p.kv.Set(ctx, storage.KeyUIPreferences, string(b))
		}
		if err != nil {
			slogx.FromContext(ctx).Error("preferences persistence failed", "err", err)
			perr = fmt.Errorf("session: persist preferences: %w", err)
		}
	}
	p.write.Unlock()

	p.subs.notify(p.Preferences)
	return perr
}
