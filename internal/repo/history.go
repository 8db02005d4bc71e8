package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// RoutesKey is the storage slot holding the route history.
const RoutesKey = "dashboard-routes"

// RouteHistoryRepo maps the route history to a single JSON array stored under
// RoutesKey. Every Save rewrites the whole array.
type RouteHistoryRepo interface {
	// Load returns the stored routes, most recent first.
	// A slot that was never written yields an empty, non-nil slice.
	Load(ctx context.Context) ([]domain.Route, error)

	// Save replaces the stored routes with routes.
	Save(ctx context.Context, routes []domain.Route) error
}

type kvRouteHistoryRepo struct {
	store KVStore
}

// NewRouteHistoryRepo constructs a RouteHistoryRepo on top of any KVStore.
func NewRouteHistoryRepo(store KVStore) RouteHistoryRepo {
	return &kvRouteHistoryRepo{store: store}
}

// Load reads and decodes the history slot.
// A slot holding invalid JSON is reported as domain.ErrPersistence.
func (r *kvRouteHistoryRepo) Load(ctx context.Context) ([]domain.Route, error) {
	raw, ok, err := r.store.Get(ctx, RoutesKey)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteHistoryRepo.Load: %w", err)
	}
	if !ok {
		return []domain.Route{}, nil
	}

	var routes []domain.Route
	if err := json.Unmarshal(raw, &routes); err != nil {
		return nil, fmt.Errorf("repo.RouteHistoryRepo.Load: decode: %w: %w", domain.ErrPersistence, err)
	}
	if routes == nil {
		routes = []domain.Route{}
	}
	return routes, nil
}

// Save encodes routes and writes them to the history slot.
func (r *kvRouteHistoryRepo) Save(ctx context.Context, routes []domain.Route) error {
	if routes == nil {
		routes = []domain.Route{}
	}
	raw, err := json.Marshal(routes)
	if err != nil {
		return fmt.Errorf("repo.RouteHistoryRepo.Save: encode: %w: %w", domain.ErrPersistence, err)
	}
	if err := r.store.Set(ctx, RoutesKey, raw); err != nil {
		return fmt.Errorf("repo.RouteHistoryRepo.Save: %w", err)
	}
	return nil
}
