package domain

import "time"

// RouteKind tags which variant of Route a record holds.
type RouteKind string

const (
	// RouteSingle routes carry exactly one source in Route.Source.
	RouteSingle RouteKind = "single"
	// RouteMulti routes carry one or more sources in Route.Sources.
	RouteMulti RouteKind = "multi"
)

// Route is a recorded association from one or more sources to one or more
// destinations. Routes are immutable once created.
//
// Exactly one of Source (Kind == RouteSingle) or Sources (Kind == RouteMulti)
// is set.
type Route struct {
	ID           string         `json:"id"`
	Kind         RouteKind      `json:"kind"`
	Source       *LocationItem  `json:"source,omitempty"`
	Sources      []LocationItem `json:"sources,omitempty"`
	Destinations []LocationItem `json:"destinations"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// SourceItems returns the route's sources regardless of its kind.
func (r Route) SourceItems() []LocationItem {
	if r.Kind == RouteSingle && r.Source != nil {
		return []LocationItem{*r.Source}
	}
	return r.Sources
}

// RouteRequest is the transient payload sent to the route endpoint.
// It is never persisted.
type RouteRequest struct {
	Sources      []LocationItem `json:"sources"`
	Destinations []LocationItem `json:"destinations"`
}
