// Package handler implements the HTTP handlers for the routing dashboard API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, location.go, etc.) but all share the same Server struct so
// they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/service"
)

// LocationServicer defines the location operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without a document server.
type LocationServicer interface {
	Current() domain.Locations
	Load(ctx context.Context, url string) (service.LoadResult, error)
	LoadDocument(ctx context.Context, doc string) (service.LoadResult, error)
}

// SelectionManager defines the selection operations the handlers depend on.
// *selection.Manager satisfies it.
type SelectionManager interface {
	Toggle(kind domain.SelectionKind, id string, checked bool) error
	Snapshot() domain.Selection
	Reset()
}

// RouteServicer defines the route operations the handlers depend on.
type RouteServicer interface {
	Build(ctx context.Context) (domain.Route, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int)
	Send(ctx context.Context, endpoint string) (service.SendResult, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	locations LocationServicer
	selection SelectionManager
	routes    RouteServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(locations LocationServicer, sel SelectionManager, routes RouteServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{locations: locations, selection: sel, routes: routes, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes registers every endpoint on a fresh chi router.
// Mount it in main.go after the global middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", s.GetLocations)
		r.Put("/", s.PutLocations)
		r.Post("/refresh", s.RefreshLocations)
	})

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.GetSelection)
		r.Delete("/", s.ResetSelection)
		r.Post("/toggle", s.ToggleSelection)
	})

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", s.ListRoutes)
		r.Post("/", s.CreateRoute)
		r.Get("/export", s.ExportRoutes)
		r.Delete("/{id}", s.DeleteRoute)
	})

	r.Post("/route-requests", s.SendRouteRequest)

	return r
}
