package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/handler"
	"github.com/pkordes/routing-dashboard/internal/service"
)

// mockLocationServicer is a test double for handler.LocationServicer.
// Set only the method fields your test needs.
type mockLocationServicer struct {
	current      func() domain.Locations
	load         func(ctx context.Context, url string) (service.LoadResult, error)
	loadDocument func(ctx context.Context, doc string) (service.LoadResult, error)
}

func (m *mockLocationServicer) Current() domain.Locations { return m.current() }
func (m *mockLocationServicer) Load(ctx context.Context, url string) (service.LoadResult, error) {
	return m.load(ctx, url)
}
func (m *mockLocationServicer) LoadDocument(ctx context.Context, doc string) (service.LoadResult, error) {
	return m.loadDocument(ctx, doc)
}

var _ handler.LocationServicer = (*mockLocationServicer)(nil)

// mockSelectionManager is a test double for handler.SelectionManager.
type mockSelectionManager struct {
	toggle   func(kind domain.SelectionKind, id string, checked bool) error
	snapshot func() domain.Selection
	reset    func()
}

func (m *mockSelectionManager) Toggle(kind domain.SelectionKind, id string, checked bool) error {
	return m.toggle(kind, id, checked)
}
func (m *mockSelectionManager) Snapshot() domain.Selection { return m.snapshot() }
func (m *mockSelectionManager) Reset() { m.reset() }

var _ handler.SelectionManager = (*mockSelectionManager)(nil)

// mockRouteServicer is a test double for handler.RouteServicer.
type mockRouteServicer struct {
	build  func(ctx context.Context) (domain.Route, error)
	delete func(ctx context.Context, id string) error
	list   func(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int)
	send   func(ctx context.Context, endpoint string) (service.SendResult, error)
}

func (m *mockRouteServicer) Build(ctx context.Context) (domain.Route, error) {
	return m.build(ctx)
}
func (m *mockRouteServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockRouteServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int) {
	return m.list(ctx, p)
}
func (m *mockRouteServicer) Send(ctx context.Context, endpoint string) (service.SendResult, error) {
	return m.send(ctx, endpoint)
}

var _ handler.RouteServicer = (*mockRouteServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serve sends req through the full chi router, the way main.go mounts it.
func serve(srv *handler.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody decodes the standard error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func fixtureLocations() domain.Locations {
	return domain.Locations{
		Sources: []domain.LocationItem{
			{ID: "source-0", Name: "Studio A", Region: "North"},
			{ID: "source-1", Name: "Studio B", Region: "South"},
		},
		Destinations: []domain.LocationItem{
			{ID: "destination-0", Name: "Tower 1", Region: "East"},
			{ID: "destination-1", Name: "Tower 2", Region: "West"},
		},
	}
}

func singleRouteFixture() domain.Route {
	locs := fixtureLocations()
	src := locs.Sources[0]
	return domain.Route{
		ID:           "0190a3b2-0000-7000-8000-000000000001",
		Kind:         domain.RouteSingle,
		Source:       &src,
		Destinations: locs.Destinations,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func multiRouteFixture() domain.Route {
	locs := fixtureLocations()
	return domain.Route{
		ID:           "0190a3b2-0000-7000-8000-000000000002",
		Kind:         domain.RouteMulti,
		Sources:      locs.Sources,
		Destinations: locs.Destinations[1:],
		CreatedAt:    time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC),
	}
}
