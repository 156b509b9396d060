package serverapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungunda/howobot2/internal/config"
	"github.com/gungunda/howobot2/internal/planner"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DataDir = dataDir

	h, err := NewHandler(Options{
		Config: cfg,
		Clock:  planner.NewFakeClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, dataDir
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	code, got := getJSON(t, srv.URL+"/healthz")
	assert.Equal(t, 200, code)
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "howobot", got["service"])
}

func TestServer_Readyz(t *testing.T) {
	srv, _ := newTestServer(t)

	code, got := getJSON(t, srv.URL+"/readyz")
	assert.Equal(t, 200, code)
	assert.Equal(t, true, got["ok"])
}

func TestServer_HomeAndAppPages(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/app"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", path)
	}
}

func TestServer_AppResetQueryClearsState(t *testing.T) {
	srv, dataDir := newTestServer(t)

	// Materialize some state through the API first.
	resp, err := http.Post(srv.URL+"/api/day/2025-01-01/tasks", "application/json",
		strings.NewReader(`{"title": "Math", "minutesPlanned": 40}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 201, resp.StatusCode)

	statePath := filepath.Join(dataDir, "planner.json")
	_, err = os.Stat(statePath)
	require.NoError(t, err, "state document exists after a mutation")

	// reset=1 clears persisted state and lands back on the app page.
	resp, err = http.Get(srv.URL + "/app?reset=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode, "redirect followed to /app")

	_, err = os.Stat(statePath)
	assert.True(t, os.IsNotExist(err), "state document deleted by reset")

	code, got := getJSON(t, srv.URL+"/api/day?date=2025-01-01")
	assert.Equal(t, 200, code)
	assert.Empty(t, got["tasks"])
}

func TestServer_ConfigEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	code, got := getJSON(t, srv.URL+"/api/config")
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(10), got["bumpStep"])
}

func TestServer_StaticAssetsServed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/static/js/app.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestServer_RequestIDHeaderSet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestServer_SQLiteDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.Driver = "sqlite"

	h, err := NewHandler(Options{Config: cfg})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	code, got := getJSON(t, srv.URL+"/readyz")
	assert.Equal(t, 200, code)
	assert.Equal(t, true, got["ok"])

	_, err = os.Stat(filepath.Join(cfg.Storage.DataDir, "howobot.db"))
	assert.NoError(t, err)
}

func TestServer_UnknownDriverRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "redis"

	_, err := NewHandler(Options{Config: cfg})
	assert.Error(t, err)
}

func TestServer_NilConfigRejected(t *testing.T) {
	_, err := NewHandler(Options{})
	assert.Error(t, err)
}
