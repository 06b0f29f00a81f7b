package domain_test

import (
	"testing"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/stretchr/testify/require"
)

func TestUserInitials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *domain.User
		want string
	}{
		{"full name", &domain.User{FirstName: "ayşe", LastName: "yılmaz", Email: "a@renart.com"}, "AY"},
		{"first name only", &domain.User{FirstName: "Ayşe", Email: "vendor@renart.com"}, "V"},
		{"email only", &domain.User{Email: "vendor@renart.com"}, "V"},
		{"nothing", &domain.User{}, "U"},
		{"nil", nil, "U"},
		{"multibyte", &domain.User{FirstName: "Çağla", LastName: "Öz"}, "ÇÖ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.Initials())
		})
	}
}

func TestSplitContactName(t *testing.T) {
	t.Parallel()

	first, last := domain.SplitContactName("  Ada  Lovelace Byron ")
	require.Equal(t, "Ada", first)
	require.Equal(t, "Lovelace Byron", last)

	first, last = domain.SplitContactName("Cher")
	require.Equal(t, "Cher", first)
	require.Empty(t, last)
}

func TestStorePatchApply(t *testing.T) {
	t.Parallel()

	name := "X"
	base := domain.Store{ID: "s1", Name: "Old", Description: "desc", LogoURL: "https://l", Email: "s@renart.com", IsActive: true}

	got := domain.StorePatch{Name: &name}.Apply(base)

	want := base
	want.Name = "X"
	require.Equal(t, want, got)
}

func TestSessionValid(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1"}
	store := &domain.Store{ID: "s1"}

	require.True(t, domain.Session{}.Valid())
	require.True(t, domain.Session{User: user, Store: store, Token: "t", IsAuthenticated: true}.Valid())
	require.False(t, domain.Session{User: user, Store: store, Token: "t"}.Valid())
	require.False(t, domain.Session{User: user, Token: "t", IsAuthenticated: true}.Valid())
	require.False(t, domain.Session{User: user, Store: store, IsAuthenticated: true}.Valid())
}

func TestSessionExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	require.False(t, domain.Session{}.Expired(now))
	require.False(t, domain.Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	require.True(t, domain.Session{ExpiresAt: now}.Expired(now))
}

func TestSessionCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := domain.Session{User: &domain.User{ID: "u1"}, Store: &domain.Store{Name: "A"}}
	cp := orig.Clone()
	cp.Store.Name = "B"
	cp.User.ID = "u2"

	require.Equal(t, "A", orig.Store.Name)
	require.Equal(t, "u1", orig.User.ID)
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	th, err := domain.ParseTheme("dark")
	require.NoError(t, err)
	require.Equal(t, domain.ThemeDark, th)

	_, err = domain.ParseTheme("solarized")
	require.Error(t, err)

	require.Equal(t, domain.UIPreferences{SidebarOpen: true, Theme: domain.ThemeLight}, domain.DefaultPreferences())
}
