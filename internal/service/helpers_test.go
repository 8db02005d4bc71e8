package service_test

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/repo"
	"github.com/pkordes/routing-dashboard/internal/service"
)

// mockFetcher is a hand-written test double for service.DocumentFetcher.
type mockFetcher struct {
	fetch func(ctx context.Context, url string) (string, error)
}

func (m *mockFetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	return m.fetch(ctx, url)
}

// mockSender is a test double for service.RouteSender.
type mockSender struct {
	send func(ctx context.Context, endpoint string, rr domain.RouteRequest) (any, error)
}

func (m *mockSender) SendRouteRequest(ctx context.Context, endpoint string, rr domain.RouteRequest) (any, error) {
	return m.send(ctx, endpoint, rr)
}

// mockHistoryRepo is a test double for repo.RouteHistoryRepo.
type mockHistoryRepo struct {
	load func(ctx context.Context) ([]domain.Route, error)
	save func(ctx context.Context, routes []domain.Route) error
}

func (m *mockHistoryRepo) Load(ctx context.Context) ([]domain.Route, error) {
	return m.load(ctx)
}
func (m *mockHistoryRepo) Save(ctx context.Context, routes []domain.Route) error {
	return m.save(ctx, routes)
}

// staticLocations is a service.LocationSource returning a fixed value.
type staticLocations domain.Locations

func (s staticLocations) Current() domain.Locations { return domain.Locations(s) }

// hookedLocations returns fixed lists and runs onCurrent first, which lets a
// test change the selection after RouteService has taken its snapshot.
type hookedLocations struct {
	locs      domain.Locations
	onCurrent func()
}

func (h hookedLocations) Current() domain.Locations {
	h.onCurrent()
	return h.locs
}

// failFirstLoad wraps a history repo and fails its first Load.
type failFirstLoad struct {
	repo.RouteHistoryRepo
	failed bool
}

func (f *failFirstLoad) Load(ctx context.Context) ([]domain.Route, error) {
	if !f.failed {
		f.failed = true
		return nil, fmt.Errorf("%w: connection refused", domain.ErrPersistence)
	}
	return f.RouteHistoryRepo.Load(ctx)
}

// compile-time checks.
var (
	_ service.DocumentFetcher = (*mockFetcher)(nil)
	_ service.RouteSender     = (*mockSender)(nil)
	_ repo.RouteHistoryRepo   = (*mockHistoryRepo)(nil)
	_ service.LocationSource  = staticLocations{}
	_ service.LocationSource  = hookedLocations{}
	_ repo.RouteHistoryRepo   = (*failFirstLoad)(nil)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// sampleLocations mirrors the first entries of the bundled sample document.
func sampleLocations() domain.Locations {
	return domain.Locations{
		Sources: []domain.LocationItem{
			{ID: "source-0", Name: "New York Hub", Region: "North America"},
			{ID: "source-1", Name: "London Gateway", Region: "Europe"},
		},
		Destinations: []domain.LocationItem{
			{ID: "destination-0", Name: "Los Angeles Terminal", Region: "North America"},
			{ID: "destination-1", Name: "Frankfurt Hub", Region: "Europe"},
			{ID: "destination-2", Name: "Singapore Gateway", Region: "Asia Pacific"},
		},
	}
}
