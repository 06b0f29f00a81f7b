package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/service"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/session"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage/drivers/memory"
	"github.com/bedirhantong/renart-vendor-panel/internal/vendorapi"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testUser   = domain.User{ID: "v-1", Email: "vendor@renart.com", FirstName: "Renart", LastName: "Vendor"}
	testStore  = domain.Store{ID: "s-1", Name: "Renart Jewelry", Email: "vendor@renart.com", IsActive: true}
)

func ptr[T any](v T) *T { return &v }

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type harness struct {
	kv        *memory.Store
	session   *session.Store
	nav       *navRecorder
	guard     *service.Guard
	auth      *service.AuthService
	profile   *service.ProfileService
	dashboard *service.DashboardService
	products  *service.ProductService
}

func newHarness(t *testing.T, baseURL string) *harness {
	t.Helper()

	kv := memory.NewStore()
	sess := session.NewStore(kv)
	client := panelsdk.NewClient(baseURL)
	client.Tokens = sess

	nav := &navRecorder{}
	guard := &service.Guard{Session: sess, Navigate: nav}

	return &harness{
		kv:        kv,
		session:   sess,
		nav:       nav,
		guard:     guard,
		auth:      &service.AuthService{API: client, Session: sess, Guard: guard},
		profile:   &service.ProfileService{API: client, Session: sess, Guard: guard},
		dashboard: &service.DashboardService{API: client, Guard: guard},
		products:  &service.ProductService{API: client, Guard: guard},
	}
}

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	r, err := vendorapi.NewRouter(vendorapi.Config{Secret: testSecret, Seed: true}, slogx.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// unreachable fails the test if any request arrives.
func unreachable(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loginSeed(t *testing.T, h *harness) domain.Session {
	t.Helper()
	sess, err := h.auth.Login(t.Context(), vendorapi.SeedEmail, vendorapi.SeedPassword)
	require.NoError(t, err)
	return sess
}

func TestLoginCommitsSession(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()

	sess := loginSeed(t, h)
	require.True(t, sess.IsAuthenticated)
	require.False(t, sess.IsLoading)
	require.Equal(t, "Ayşe", sess.User.FirstName)
	require.Equal(t, "Yılmaz", sess.User.LastName)
	require.Equal(t, "AY", sess.User.Initials())
	require.Equal(t, "Renart Jewelry", sess.Store.Name)
	require.NotEmpty(t, sess.RefreshToken)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), sess.ExpiresAt, time.Minute)

	tok, err := h.kv.Get(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, sess.Token, tok)
	require.Empty(t, h.nav.Paths())
	require.Equal(t, service.PathDashboard, h.guard.Landing())
}

func TestLoginValidatesBeforeRequest(t *testing.T) {
	h := newHarness(t, unreachable(t).URL)

	_, err := h.auth.Login(t.Context(), "not-an-email", "123")
	var verr *panelsdk.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "password")
	require.False(t, h.session.Session().IsAuthenticated)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t, newStub(t).URL)

	_, err := h.auth.Login(t.Context(), vendorapi.SeedEmail, "wrong-password")
	require.ErrorIs(t, err, panelsdk.ErrUnauthorized)

	sess := h.session.Session()
	require.False(t, sess.IsAuthenticated)
	require.False(t, sess.IsLoading)
	require.Equal(t, service.PathLogin, h.guard.Landing())
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid or expired token"}`))
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t, srv.URL)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "expired-token"))

	var sawCleared bool
	h.guard.Navigate = service.NavigatorFunc(func(path string) {
		sawCleared = !h.session.Session().IsAuthenticated
		h.nav.Navigate(path)
	})

	_, err := h.dashboard.Get(ctx)
	require.ErrorIs(t, err, panelsdk.ErrUnauthorized)

	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid or expired token", apiErr.Message)

	require.False(t, h.session.Session().IsAuthenticated)
	_, err = h.kv.Get(ctx, storage.KeyAuthToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = h.kv.Get(ctx, storage.KeySession)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.Equal(t, []string{service.PathLogin}, h.nav.Paths())
	require.True(t, sawCleared)
}

func TestNetworkErrorLeavesSessionAlone(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := newHarness(t, url)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "token-1"))
	before := h.kv.Snapshot()

	_, err := h.products.List(ctx, panelsdk.ProductQuery{})
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 0, apiErr.StatusCode)
	require.Equal(t, panelsdk.MessageNetworkError, apiErr.Message)
	require.ErrorIs(t, err, panelsdk.ErrNetwork)

	require.True(t, h.session.Session().IsAuthenticated)
	require.Equal(t, before, h.kv.Snapshot())
	require.Empty(t, h.nav.Paths())
}

func TestStaleUnauthorizedKeepsNewerSession(t *testing.T) {
	var h *harness
	newer := domain.User{ID: "v-2", Email: "other@renart.com"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Another login completes while this request is in flight.
		if err := h.session.SetAuth(context.Background(), newer, testStore, "token-2"); err != nil {
			t.Errorf("SetAuth: %v", err)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	h = newHarness(t, srv.URL)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "token-1"))

	_, err := h.dashboard.Get(ctx)
	require.ErrorIs(t, err, panelsdk.ErrUnauthorized)

	sess := h.session.Session()
	require.True(t, sess.IsAuthenticated)
	require.Equal(t, "v-2", sess.User.ID)
	require.Equal(t, "token-2", sess.Token)
	require.Empty(t, h.nav.Paths())
}

func TestRequireRedirectsWithoutSession(t *testing.T) {
	h := newHarness(t, unreachable(t).URL)

	_, err := h.products.List(t.Context(), panelsdk.ProductQuery{})
	require.ErrorIs(t, err, service.ErrNotLoggedIn)
	require.Equal(t, []string{service.PathLogin}, h.nav.Paths())
}

func TestProfileUpdateSyncsSession(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()
	loginSeed(t, h)
	gen := h.session.Generation()

	store, err := h.profile.Update(ctx, panelsdk.ProfileUpdate{
		Name:    ptr("Renart Atelier"),
		LogoURL: ptr("https://cdn.renart.com/logo.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renart Atelier", store.Name)
	require.Equal(t, "Handcrafted gold jewelry", store.Description)

	sess := h.session.Session()
	require.Equal(t, "Renart Atelier", sess.Store.Name)
	require.Equal(t, "https://cdn.renart.com/logo.png", sess.Store.LogoURL)
	require.Equal(t, gen, h.session.Generation())

	prof, err := h.profile.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Renart Atelier", prof.Store.Name)
}

func TestProfileUpdateFailureLeavesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Database unavailable"}`))
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t, srv.URL)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "token-1"))

	_, err := h.profile.Update(ctx, panelsdk.ProfileUpdate{Name: ptr("Other")})
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "Database unavailable", apiErr.Message)

	require.Equal(t, testStore, *h.session.Session().Store)
	require.Empty(t, h.nav.Paths())
}

func TestProfileUpdateValidates(t *testing.T) {
	h := newHarness(t, unreachable(t).URL)

	_, err := h.profile.Update(t.Context(), panelsdk.ProfileUpdate{LogoURL: ptr("ftp://nope")})
	var verr *panelsdk.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "logoUrl")
}

func TestLogoutClearsEvenWhenAPIFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t, srv.URL)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "token-1"))

	require.NoError(t, h.auth.Logout(ctx))
	require.False(t, h.session.Session().IsAuthenticated)
	_, err := h.kv.Get(ctx, storage.KeyAuthToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.Equal(t, []string{service.PathLogin}, h.nav.Paths())
}

func TestLogoutAgainstBackend(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()
	sess := loginSeed(t, h)

	require.NoError(t, h.auth.Logout(ctx))
	require.False(t, h.session.Session().IsAuthenticated)

	// The backend revoked the refresh token.
	_, err := h.auth.API.Refresh(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, panelsdk.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()
	before := loginSeed(t, h)
	gen := h.session.Generation()

	require.NoError(t, h.auth.Refresh(ctx))

	after := h.session.Session()
	require.NotEqual(t, before.Token, after.Token)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)
	require.Equal(t, before.User, after.User)
	require.Greater(t, h.session.Generation(), gen)

	tok, err := h.kv.Get(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, after.Token, tok)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	h := newHarness(t, unreachable(t).URL)
	require.NoError(t, h.session.SetAuth(t.Context(), testUser, testStore, "token-1"))

	require.ErrorIs(t, h.auth.Refresh(t.Context()), service.ErrNoRefreshToken)
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()
	loginSeed(t, h)

	err := h.auth.ChangePassword(ctx, panelsdk.ChangePasswordRequest{CurrentPassword: vendorapi.SeedPassword, NewPassword: "123"})
	var verr *panelsdk.ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, h.auth.ChangePassword(ctx, panelsdk.ChangePasswordRequest{
		CurrentPassword: vendorapi.SeedPassword,
		NewPassword:     "brand-new-secret",
	}))
	require.True(t, h.session.Session().IsAuthenticated)
}

func TestRegister(t *testing.T) {
	h := newHarness(t, newStub(t).URL)

	v, err := h.auth.Register(t.Context(), panelsdk.RegisterRequest{
		Email:           "new@renart.com",
		Password:        "secret12",
		BusinessName:    "New Gold",
		BusinessType:    "retail",
		ContactName:     "Can Kaya",
		ContactPhone:    "+90 555 111 2233",
		BusinessAddress: "Ankara",
	})
	require.NoError(t, err)
	require.Equal(t, "new@renart.com", v.Email)
	require.False(t, h.session.Session().IsAuthenticated)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	loginSeed(t, h)

	dash, err := h.dashboard.Get(t.Context())
	require.NoError(t, err)
	require.Equal(t, 5, dash.Statistics.Products.Total)
	require.NotEmpty(t, dash.TopProducts)
}

func TestProductLifecycle(t *testing.T) {
	h := newHarness(t, newStub(t).URL)
	ctx := t.Context()
	loginSeed(t, h)

	weight, err := panelsdk.NewDecimal("3.2")
	require.NoError(t, err)

	created, err := h.products.Create(ctx, panelsdk.ProductInput{
		Name:            "Charm Necklace",
		Weight:          weight,
		PopularityScore: 6.5,
		Colors:          []string{panelsdk.ColorWhite},
	})
	require.NoError(t, err)
	require.Len(t, created.Images, 1)

	list, err := h.products.List(ctx, panelsdk.ProductQuery{Search: "charm"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	require.Equal(t, created.ID, list.Products[0].ID)

	updated, err := h.products.Update(ctx, created.ID, panelsdk.ProductUpdate{Name: ptr("Charm Necklace II")})
	require.NoError(t, err)
	require.Equal(t, "Charm Necklace II", updated.Name)

	got, err := h.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Charm Necklace II", got.Name)

	require.NoError(t, h.products.Delete(ctx, created.ID))

	_, err = h.products.Get(ctx, created.ID)
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.True(t, h.session.Session().IsAuthenticated)
}

func TestProductValidation(t *testing.T) {
	h := newHarness(t, unreachable(t).URL)
	ctx := t.Context()
	require.NoError(t, h.session.SetAuth(ctx, testUser, testStore, "token-1"))

	_, err := h.products.Create(ctx, panelsdk.ProductInput{Name: "No colours", Weight: panelsdk.DecimalFromFloat(1)})
	var verr *panelsdk.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "colors")

	_, err = h.products.Get(ctx, "")
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "id")

	require.ErrorAs(t, h.products.Delete(ctx, ""), &verr)

	_, err = h.products.List(ctx, panelsdk.ProductQuery{Status: "archived"})
	require.ErrorAs(t, err, &verr)
}
