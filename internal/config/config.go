// Package config loads and validates application configuration.
//
// Values are layered: the embedded defaults (config.example.toml), then the
// TOML file named by DASHBOARD_CONFIG if set, then environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/repo"
)

//go:embed config.example.toml
var exampleConf []byte

// Config holds all configuration values for the API server and dashctl.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string

	// LogFormat selects the log handler: json (slog) or text (charmbracelet/log).
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies, including XML uploads.
	MaxBodyBytes int64

	// XMLURL is the location document fetched on start and on refresh.
	XMLURL string

	// RouteEndpoint receives route requests as JSON.
	RouteEndpoint string

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration

	// SelectionMode is fixed for the lifetime of the process.
	SelectionMode domain.SourceSelectionMode

	// StoreDriver names the route history backend (see repo.OpenStore).
	StoreDriver string

	// StoreDSN is the backend connection string. Unused by the memory driver.
	StoreDSN string
}

// fileConfig mirrors the TOML layout.
type fileConfig struct {
	Server struct {
		Port         string   `toml:"port"`
		CORSOrigins  []string `toml:"cors_origins"`
		MaxBodyBytes int64    `toml:"max_body_bytes"`
	} `toml:"server"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Endpoints struct {
		XMLURL        string `toml:"xml_url"`
		RouteEndpoint string `toml:"route_endpoint"`
		HTTPTimeout   string `toml:"http_timeout"`
	} `toml:"endpoints"`
	Selection struct {
		Mode string `toml:"mode"`
	} `toml:"selection"`
	Store struct {
		Driver string `toml:"driver"`
		DSN    string `toml:"dsn"`
	} `toml:"store"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
	drivers    = []string{repo.DriverMemory, repo.DriverPostgres, repo.DriverSQLite, repo.DriverMySQL, repo.DriverRedis}
)

// Load builds a Config from the embedded defaults, the optional
// DASHBOARD_CONFIG file and the environment.
// Returns an error naming every invalid setting.
func Load() (Config, error) {
	var fc fileConfig
	if err := toml.Unmarshal(exampleConf, &fc); err != nil {
		return Config{}, fmt.Errorf("config.Load: parse embedded defaults: %w", err)
	}

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
		// Keys missing from the file keep their default.
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	var problems []string

	cfg := Config{
		Port:          getEnv("PORT", fc.Server.Port),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", fc.Log.Level)),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", fc.Log.Format)),
		CORSOrigins:   fc.Server.CORSOrigins,
		XMLURL:        getEnv("XML_URL", fc.Endpoints.XMLURL),
		RouteEndpoint: getEnv("ROUTE_ENDPOINT", fc.Endpoints.RouteEndpoint),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", fc.Store.Driver)),
		StoreDSN:      getEnv("STORE_DSN", fc.Store.DSN),
		MaxBodyBytes:  fc.Server.MaxBodyBytes,
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}

	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("MAX_BODY_BYTES: %q is not an integer", v))
			n = fc.Server.MaxBodyBytes
		}
		cfg.MaxBodyBytes = n
	}
	if cfg.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES: must be positive")
	}

	timeout := getEnv("HTTP_TIMEOUT", fc.Endpoints.HTTPTimeout)
	d, err := time.ParseDuration(timeout)
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("HTTP_TIMEOUT: %q is not a duration", timeout))
	case d <= 0:
		problems = append(problems, "HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = d

	mode, err := domain.ParseSourceSelectionMode(strings.ToLower(getEnv("SOURCE_SELECTION_MODE", fc.Selection.Mode)))
	if err != nil {
		problems = append(problems, "SOURCE_SELECTION_MODE: "+strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
	}
	cfg.SelectionMode = mode

	if !slices.Contains(logLevels, cfg.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL: %q is not one of %s", cfg.LogLevel, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT: %q is not one of %s", cfg.LogFormat, strings.Join(logFormats, ", ")))
	}
	if !slices.Contains(drivers, cfg.StoreDriver) {
		problems = append(problems, fmt.Sprintf("STORE_DRIVER: %q is not one of %s", cfg.StoreDriver, strings.Join(drivers, ", ")))
	} else if cfg.StoreDriver != repo.DriverMemory && cfg.StoreDSN == "" {
		problems = append(problems, "STORE_DSN: required for driver "+cfg.StoreDriver)
	}

	if len(problems) > 0 {
		return Config{}, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

// WriteExample writes the default configuration file to path.
// It refuses to overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("config.WriteExample: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
