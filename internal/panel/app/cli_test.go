package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/domain"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage/drivers/sqlite"
	"github.com/bedirhantong/renart-vendor-panel/internal/vendorapi"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T, secret string) *httptest.Server {
	t.Helper()
	r, err := vendorapi.NewRouter(vendorapi.Config{Secret: []byte(secret), Seed: true}, slogx.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string, extra map[string]string) Config {
	t.Helper()
	vars := map[string]string{
		"PANEL_API_URL":  apiURL,
		"PANEL_DATA_DIR": t.TempDir(),
		"LOG_LEVEL":      "error",
	}
	for k, v := range extra {
		vars[k] = v
	}
	cfg, err := LoadConfigFrom(vars)
	require.NoError(t, err)
	return cfg
}

type result struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, cfg Config, stdin string, args ...string) result {
	t.Helper()

	c := &cli{load: func() (Config, error) { return cfg, nil }}
	root := newRootCmd(c)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err != nil {
		reportError(&errOut, err)
	}
	c.close(&errOut)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func login(t *testing.T, cfg Config) {
	t.Helper()
	res := runCLI(t, cfg, vendorapi.SeedPassword+"\n", "login", "--email", vendorapi.SeedEmail)
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "Welcome, Ayşe Yılmaz.")
}

func TestLandingFollowsSession(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)

	res := runCLI(t, cfg, "")
	require.NoError(t, res.err)
	require.Equal(t, "/login\n", res.stdout)

	login(t, cfg)

	res = runCLI(t, cfg, "")
	require.NoError(t, res.err)
	require.Equal(t, "/dashboard\n", res.stdout)

	res = runCLI(t, cfg, "", "whoami", "-o", "json")
	require.NoError(t, res.err)
	var who struct {
		Session domain.Session `json:"session"`
		Landing string         `json:"landing"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &who))
	require.True(t, who.Session.IsAuthenticated)
	require.Equal(t, "Renart Jewelry", who.Session.Store.Name)
	require.Equal(t, "/dashboard", who.Landing)

	res = runCLI(t, cfg, "", "logout")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Logged out.")

	res = runCLI(t, cfg, "", "whoami")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Not logged in.")
}

func TestCommandsRequireLogin(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)

	res := runCLI(t, cfg, "", "dashboard")
	require.Error(t, res.err)
	require.Contains(t, res.stderr, "panel login")
}

func TestProductCommands(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)
	login(t, cfg)

	res := runCLI(t, cfg, "", "products", "create",
		"--name", "Pearl Ring", "--weight", "1.75", "--popularity", "4",
		"--color", "white", "--color", "rose", "-o", "json")
	require.NoError(t, res.err, res.stderr)
	var created panelsdk.Product
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &created))
	require.Len(t, created.Images, 2)

	res = runCLI(t, cfg, "", "products", "list", "--search", "pearl", "-o", "json")
	require.NoError(t, res.err, res.stderr)
	var list panelsdk.ProductList
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &list))
	require.Len(t, list.Products, 1)
	require.Equal(t, created.ID, list.Products[0].ID)

	res = runCLI(t, cfg, "", "products", "update", created.ID, "--active=false")
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "Product updated.")

	res = runCLI(t, cfg, "", "products", "list", "--status", "inactive")
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "Pearl Ring")
	require.Contains(t, res.stdout, "Tennis Bracelet")

	res = runCLI(t, cfg, "", "products", "delete", created.ID)
	require.NoError(t, res.err, res.stderr)

	res = runCLI(t, cfg, "", "products", "get", created.ID)
	require.Error(t, res.err)
	require.Contains(t, res.stderr, "Error: Product not found")
}

func TestValidationErrorsArePrintedPerField(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)
	login(t, cfg)

	res := runCLI(t, cfg, "", "products", "create", "--name", "Nameless")
	require.Error(t, res.err)
	require.Contains(t, res.stderr, "Please fix the following:")
	require.Contains(t, res.stderr, "  colors: ")
	require.Contains(t, res.stderr, "  weight: ")
}

func TestDashboardAndProfileCommands(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)
	login(t, cfg)

	res := runCLI(t, cfg, "", "dashboard")
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "5 total")
	require.Contains(t, res.stdout, "Engagement Ring 1")

	res = runCLI(t, cfg, "", "profile", "update", "--name", "Renart Atelier")
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "Renart Atelier")

	res = runCLI(t, cfg, "", "whoami")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Renart Atelier")

	res = runCLI(t, cfg, "", "profile", "update")
	require.ErrorContains(t, res.err, "nothing to update")
}

func TestUnauthorizedSignsOut(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)
	login(t, cfg)

	// A backend with a different signing key rejects the stored token.
	other := newStub(t, "fedcba9876543210fedcba9876543210")
	res := runCLI(t, cfg, "", "--api-url", other.URL, "dashboard")
	require.ErrorIs(t, res.err, panelsdk.ErrUnauthorized)
	require.Contains(t, res.stderr, "You are signed out.")
	require.Contains(t, res.stderr, "Error: Invalid or expired token")

	res = runCLI(t, cfg, "", "whoami")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Not logged in.")
}

func TestNetworkErrorKeepsSession(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)
	login(t, cfg)

	gone := httptest.NewServer(nil)
	gone.Close()

	res := runCLI(t, cfg, "", "--api-url", gone.URL, "dashboard")
	require.ErrorIs(t, res.err, panelsdk.ErrNetwork)
	require.Contains(t, res.stderr, "Error: Network error")

	res = runCLI(t, cfg, "")
	require.NoError(t, res.err)
	require.Equal(t, "/dashboard\n", res.stdout)
}

func TestPrefsCommands(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", nil)

	res := runCLI(t, cfg, "", "prefs", "theme", "dark")
	require.NoError(t, res.err, res.stderr)

	res = runCLI(t, cfg, "", "prefs", "sidebar", "toggle")
	require.NoError(t, res.err, res.stderr)

	res = runCLI(t, cfg, "", "prefs", "-o", "json")
	require.NoError(t, res.err)
	var prefs domain.UIPreferences
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &prefs))
	require.Equal(t, domain.UIPreferences{SidebarOpen: false, Theme: domain.ThemeDark}, prefs)

	res = runCLI(t, cfg, "", "prefs", "theme", "solarized")
	require.Error(t, res.err)
}

func TestSealedStorage(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, map[string]string{
		"PANEL_STORAGE_KEY": "correct horse battery staple",
	})
	login(t, cfg)

	res := runCLI(t, cfg, "", "whoami", "-o", "json")
	require.NoError(t, res.err)
	var who struct {
		Session domain.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &who))
	require.True(t, who.Session.IsAuthenticated)

	db, err := sqlite.NewStore(cfg.DatabaseFile)
	require.NoError(t, err)
	defer db.Close()
	raw, err := db.Get(context.Background(), storage.KeyAuthToken)
	require.NoError(t, err)
	require.NotEqual(t, who.Session.Token, raw)
	require.NotContains(t, raw, who.Session.Token)
}

func TestMetricsFlag(t *testing.T) {
	cfg := testConfig(t, newStub(t, "0123456789abcdef0123456789abcdef").URL, nil)

	res := runCLI(t, cfg, vendorapi.SeedPassword+"\n", "--metrics", "login", "--email", vendorapi.SeedEmail)
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stderr, `renart_panel_api_requests_total{code="200",op="auth.login"} 1`)
	require.Contains(t, res.stderr, `renart_panel_api_requests_total{code="200",op="profile.get"} 1`)
}

func TestOutputFlagValidated(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", nil)
	res := runCLI(t, cfg, "", "-o", "yaml", "whoami")
	require.ErrorContains(t, res.err, "--output")
}

func TestDatabaseFileLivesInDataDir(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", nil)
	require.Equal(t, "panel.db", filepath.Base(cfg.DatabaseFile))
}
