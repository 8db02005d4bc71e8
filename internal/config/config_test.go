package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/domain"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DASHBOARD_CONFIG", "PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
		"MAX_BODY_BYTES", "XML_URL", "ROUTE_ENDPOINT", "HTTP_TIMEOUT",
		"SOURCE_SELECTION_MODE", "STORE_DRIVER", "STORE_DSN",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_defaults verifies that every value falls back to the embedded
// defaults when nothing is configured.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.EqualValues(t, 1<<20, cfg.MaxBodyBytes)
	require.Equal(t, "https://httpbin.org/xml", cfg.XMLURL)
	require.Equal(t, "https://httpbin.org/post", cfg.RouteEndpoint)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, domain.SelectSingle, cfg.SelectionMode)
	require.Equal(t, "memory", cfg.StoreDriver)
	require.Empty(t, cfg.StoreDSN)
}

// TestLoad_envOverrides verifies that all values can be overridden via env vars.
func TestLoad_envOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("MAX_BODY_BYTES", "2048")
	t.Setenv("XML_URL", "http://feeds.local/locations.xml")
	t.Setenv("ROUTE_ENDPOINT", "http://router.local/routes")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SOURCE_SELECTION_MODE", "multi")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("STORE_DSN", "redis://localhost:6379/0")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.EqualValues(t, 2048, cfg.MaxBodyBytes)
	require.Equal(t, "http://feeds.local/locations.xml", cfg.XMLURL)
	require.Equal(t, "http://router.local/routes", cfg.RouteEndpoint)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, domain.SelectMulti, cfg.SelectionMode)
	require.Equal(t, "redis", cfg.StoreDriver)
	require.Equal(t, "redis://localhost:6379/0", cfg.StoreDSN)
}

// TestLoad_file verifies that a TOML file overlays the defaults and that the
// environment still wins over the file.
func TestLoad_file(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[selection]
mode = "multi"

[store]
driver = "sqlite"
dsn = "file:routes.db"

[server]
port = "7070"
`), 0o600))
	t.Setenv("DASHBOARD_CONFIG", path)
	t.Setenv("PORT", "6060")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, domain.SelectMulti, cfg.SelectionMode)
	require.Equal(t, "sqlite", cfg.StoreDriver)
	require.Equal(t, "file:routes.db", cfg.StoreDSN)
	require.Equal(t, "6060", cfg.Port)
	require.Equal(t, "https://httpbin.org/xml", cfg.XMLURL, "unset keys keep their default")
}

func TestLoad_missingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := config.Load()

	require.ErrorContains(t, err, "nope.toml")
}

// TestLoad_invalid verifies that every bad setting is named in one error.
func TestLoad_invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_SELECTION_MODE", "several")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "SOURCE_SELECTION_MODE")
	require.ErrorContains(t, err, "LOG_LEVEL")
	require.ErrorContains(t, err, "HTTP_TIMEOUT")
	require.ErrorContains(t, err, "STORE_DSN")
}

func TestWriteExample(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dashboard.toml")

	require.NoError(t, config.WriteExample(path))
	require.Error(t, config.WriteExample(path), "existing file is not overwritten")

	t.Setenv("DASHBOARD_CONFIG", path)
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.StoreDriver)
}
