package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/routing-dashboard/internal/client"
	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/repo"
	"github.com/pkordes/routing-dashboard/internal/selection"
)

// LocationSource supplies the currently loaded lists that selected ids are
// resolved against. *LocationService satisfies it.
type LocationSource interface {
	Current() domain.Locations
}

// RouteSender delivers a RouteRequest to an outside endpoint.
type RouteSender interface {
	SendRouteRequest(ctx context.Context, endpoint string, rr domain.RouteRequest) (any, error)
}

// SendResult is the outcome of a successful Send.
type SendResult struct {
	Request  domain.RouteRequest
	Response any
}

// RouteService builds routes from the current selection, keeps the route
// history, and sends route requests.
//
// The history is read from the repo once and then kept in memory. Every
// create or delete rewrites the whole persisted list. Persistence failures
// are logged and swallowed. Until the first read succeeds the history is
// session-only: nothing is written, so a transient read failure can never
// overwrite the stored list, and the read is retried on the next call.
type RouteService struct {
	history         repo.RouteHistoryRepo
	locations       LocationSource
	selection       *selection.Manager
	sender          RouteSender
	defaultEndpoint string
	log             *slog.Logger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	routes []domain.Route
	loaded bool
}

// RouteServiceOption customises a RouteService.
type RouteServiceOption func(*RouteService)

// WithClock overrides the creation-time source. Used by tests.
func WithClock(now func() time.Time) RouteServiceOption {
	return func(s *RouteService) { s.now = now }
}

// WithIDGenerator overrides the route id source. Used by tests.
func WithIDGenerator(newID func() string) RouteServiceOption {
	return func(s *RouteService) { s.newID = newID }
}

// NewRouteService constructs a RouteService. defaultEndpoint is used when
// Send is not given an endpoint.
func NewRouteService(
	history repo.RouteHistoryRepo,
	locs LocationSource,
	sel *selection.Manager,
	sender RouteSender,
	defaultEndpoint string,
	log *slog.Logger,
	opts ...RouteServiceOption,
) *RouteService {
	s := &RouteService{
		history:         history,
		locations:       locs,
		selection:       sel,
		sender:          sender,
		defaultEndpoint: defaultEndpoint,
		log:             log,
		now:             time.Now,
		newID:           newRouteID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newRouteID returns a time-ordered UUIDv7. Ids created by one process are
// strictly increasing, so two routes built in the same millisecond still differ.
func newRouteID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Build creates a route from the current selection, prepends it to the
// history and clears the selected ids it consumed.
//
// Returns domain.ErrValidation, without touching history or selection, when
// either selection set is empty or none of its ids resolve to a loaded
// location. Ids that do not resolve are dropped silently.
func (s *RouteService) Build(ctx context.Context) (domain.Route, error) {
	snap, sources, destinations, err := s.resolveSelection()
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Build: %w", err)
	}

	route := domain.Route{
		ID:           s.newID(),
		Destinations: destinations,
		CreatedAt:    s.now().UTC(),
	}
	if s.selection.Mode() == domain.SelectSingle {
		src := sources[0]
		route.Kind = domain.RouteSingle
		route.Source = &src
	} else {
		route.Kind = domain.RouteMulti
		route.Sources = sources
	}

	s.mu.Lock()
	s.ensureLoaded(ctx)
	next := make([]domain.Route, 0, len(s.routes)+1)
	next = append(next, route)
	next = append(next, s.routes...)
	s.routes = next
	s.persist(ctx, next)
	s.mu.Unlock()

	s.selection.Release(snap.Sources, snap.Destinations)
	s.log.InfoContext(ctx, "route created",
		"route_id", route.ID,
		"kind", route.Kind,
		"sources", len(sources),
		"destinations", len(destinations),
	)
	return route, nil
}

// Delete removes the route with the given id from the history.
// Deleting an id that is not in the history is a no-op.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	idx := slices.IndexFunc(s.routes, func(r domain.Route) bool { return r.ID == id })
	if idx < 0 {
		s.log.DebugContext(ctx, "route not in history", "route_id", id)
		return nil
	}

	next := slices.Delete(slices.Clone(s.routes), idx, idx+1)
	s.routes = next
	s.persist(ctx, next)
	s.log.InfoContext(ctx, "route deleted", "route_id", id)
	return nil
}

// List returns one page of the history, most recent first, and the total
// number of routes.
func (s *RouteService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	return slices.Clone(domain.Paginate(s.routes, p)), len(s.routes)
}

// Send posts the current selection as a RouteRequest to endpoint (or the
// default endpoint when empty). The sent ids are cleared from the selection
// only on success so a failed request can be retried as-is. Failures wrap domain.ErrRouteRequest.
func (s *RouteService) Send(ctx context.Context, endpoint string) (SendResult, error) {
	snap, sources, destinations, err := s.resolveSelection()
	if err != nil {
		return SendResult{}, fmt.Errorf("service.RouteService.Send: %w", err)
	}
	if endpoint == "" {
		endpoint = s.defaultEndpoint
	}

	rr := domain.RouteRequest{Sources: sources, Destinations: destinations}
	s.log.InfoContext(ctx, "sending route request", "endpoint", endpoint,
		"sources", len(sources), "destinations", len(destinations))

	resp, err := s.sender.SendRouteRequest(ctx, endpoint, rr)
	if err != nil {
		s.log.ErrorContext(ctx, "route request failed",
			"endpoint", endpoint, "status", client.StatusCode(err), "error", err)
		return SendResult{}, fmt.Errorf("service.RouteService.Send: %w", err)
	}

	s.selection.Release(snap.Sources, snap.Destinations)
	return SendResult{Request: rr, Response: resp}, nil
}

// resolveSelection maps the selected ids onto the loaded lists. The snapshot
// is returned so callers release exactly the ids they consumed; toggles made
// in the meantime survive.
func (s *RouteService) resolveSelection() (snap domain.Selection, sources, destinations []domain.LocationItem, err error) {
	snap = s.selection.Snapshot()
	if len(snap.Sources) == 0 || len(snap.Destinations) == 0 {
		return snap, nil, nil, fmt.Errorf("%w: please select at least one source and one destination", domain.ErrValidation)
	}

	locs := s.locations.Current()
	sources = domain.FilterByIDs(locs.Sources, snap.Sources)
	destinations = domain.FilterByIDs(locs.Destinations, snap.Destinations)
	if len(sources) == 0 || len(destinations) == 0 {
		return snap, nil, nil, fmt.Errorf("%w: selected locations are not in the loaded lists", domain.ErrValidation)
	}
	return snap, sources, destinations, nil
}

// ensureLoaded reads the persisted history until a read succeeds. While the
// store is unreadable s.routes holds only routes built this session. Once a
// read succeeds those routes are placed ahead of the stored ones and the
// merged list is written back. Callers hold s.mu.
func (s *RouteService) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	stored, err := s.history.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "route history unavailable, keeping session-only history", "error", err)
		return
	}
	s.loaded = true

	if len(s.routes) == 0 {
		s.routes = stored
		return
	}
	merged := slices.Clone(s.routes)
	for _, r := range stored {
		if !slices.ContainsFunc(merged, func(m domain.Route) bool { return m.ID == r.ID }) {
			merged = append(merged, r)
		}
	}
	s.routes = merged
	s.persist(ctx, merged)
}

// persist writes routes back to the repo. Nothing is written before the
// stored history has been read. Callers hold s.mu.
func (s *RouteService) persist(ctx context.Context, routes []domain.Route) {
	if !s.loaded {
		s.log.DebugContext(ctx, "route history not read yet, skipping write", "routes", len(routes))
		return
	}
	if err := s.history.Save(ctx, routes); err != nil {
		s.log.ErrorContext(ctx, "failed to persist route history", "error", err, "routes", len(routes))
	}
}
