// Package domain contains the core data types for the routing dashboard.
// This package has zero external dependencies and is
// imported by every other internal package (repo, service, handler).
package domain

// LocationItem is a named, regioned endpoint usable as a route source or
// destination.
//
// ID is positional ("source-0", "destination-3") and is only stable for a
// single parse of a single document.
type LocationItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Locations is the result of parsing a location document.
// Both slices are in document order.
type Locations struct {
	Sources      []LocationItem `json:"sources"`
	Destinations []LocationItem `json:"destinations"`
}

// FilterByIDs returns the items whose ID is in ids, preserving the order of
// items. IDs that match nothing are ignored.
func FilterByIDs(items []LocationItem, ids []string) []LocationItem {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]LocationItem, 0, len(ids))
	for _, item := range items {
		if _, ok := want[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}
