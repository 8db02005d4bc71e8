package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/locations"
	"github.com/pkordes/routing-dashboard/internal/repo"
)

// run executes dashctl with args against a memory store and returns stdout.
func run(t *testing.T, store repo.KVStore, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	r := NewRunner(RunnerOpts{
		Config: cfg,
		Output: &out,
		OpenStore: func(context.Context, string, string) (repo.KVStore, func(), error) {
			return store, func() {}, nil
		},
	})
	app := &cli.Command{Name: "dashctl", Commands: r.register()}
	err := app.Run(context.Background(), append([]string{"dashctl"}, args...))
	return out.String(), err
}

func seedHistory(t *testing.T, store repo.KVStore, ids ...string) {
	t.Helper()
	routes := make([]domain.Route, 0, len(ids))
	for i, id := range ids {
		src := domain.LocationItem{ID: "source-0", Name: "Studio A", Region: "North"}
		routes = append(routes, domain.Route{
			ID:           id,
			Kind:         domain.RouteSingle,
			Source:       &src,
			Destinations: []domain.LocationItem{{ID: "destination-0", Name: "Tower 1", Region: "East"}},
			CreatedAt:    time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
		})
	}
	require.NoError(t, repo.NewRouteHistoryRepo(store).Save(context.Background(), routes))
}

func TestRunner_NewRunnerDefaults(t *testing.T) {
	r := NewRunner(RunnerOpts{})

	assert.NotNil(t, r.config)
	assert.Equal(t, repo.DriverMemory, r.config.StoreDriver)
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.output)
	assert.NotNil(t, r.openStore)
}

func TestRunner_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.xml")
	require.NoError(t, os.WriteFile(path, []byte(locations.SampleDocument), 0o600))

	out, err := run(t, repo.NewMemoryKVStore(), nil, "parse", path)

	require.NoError(t, err)
	var locs domain.Locations
	require.NoError(t, json.Unmarshal([]byte(out), &locs))
	assert.Len(t, locs.Sources, 4)
	assert.Len(t, locs.Destinations, 5)
}

func TestRunner_ParseMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<locations><source>"), 0o600))

	_, err := run(t, repo.NewMemoryKVStore(), nil, "parse", path)

	require.ErrorIs(t, err, domain.ErrParse)
}

func TestRunner_RoutesList(t *testing.T) {
	store := repo.NewMemoryKVStore()
	seedHistory(t, store, "r3", "r2", "r1")

	out, err := run(t, store, nil, "routes", "list", "--limit", "2", "--pretty=false")

	require.NoError(t, err)
	var routes []domain.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 2)
	assert.Equal(t, "r3", routes[0].ID)
	assert.Equal(t, "r2", routes[1].ID)
}

func TestRunner_RoutesDelete(t *testing.T) {
	store := repo.NewMemoryKVStore()
	seedHistory(t, store, "r2", "r1")

	out, err := run(t, store, nil, "routes", "delete", "r2")

	require.NoError(t, err)
	assert.Contains(t, out, "deleted r2")

	routes, err := repo.NewRouteHistoryRepo(store).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "r1", routes[0].ID)
}

func TestRunner_RoutesDeleteUnknown(t *testing.T) {
	store := repo.NewMemoryKVStore()
	seedHistory(t, store, "r1")

	_, err := run(t, store, nil, "routes", "delete", "nope")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunner_MigrateRequiresPostgres(t *testing.T) {
	cfg := &config.Config{StoreDriver: repo.DriverSQLite, StoreDSN: "file:routes.db"}

	_, err := run(t, repo.NewMemoryKVStore(), cfg, "migrate")

	require.ErrorIs(t, err, errUnsupported)
}

func TestRunner_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.toml")

	out, err := run(t, repo.NewMemoryKVStore(), nil, "config", "init", path)

	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}
