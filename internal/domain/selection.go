package domain

import "fmt"

// SourceSelectionMode is the cardinality policy applied to source selection.
type SourceSelectionMode string

const (
	// SelectSingle allows zero or one selected source; selecting a new source
	// replaces the previous one.
	SelectSingle SourceSelectionMode = "single"
	// SelectMulti allows any number of selected sources.
	SelectMulti SourceSelectionMode = "multi"
)

// ParseSourceSelectionMode converts a configuration value into a mode.
func ParseSourceSelectionMode(s string) (SourceSelectionMode, error) {
	switch m := SourceSelectionMode(s); m {
	case SelectSingle, SelectMulti:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown source selection mode %q", ErrValidation, s)
}

// SelectionKind identifies which selection set an id belongs to.
type SelectionKind string

const (
	KindSource      SelectionKind = "source"
	KindDestination SelectionKind = "destination"
)

// Selection is a snapshot of the current selection sets, in insertion order.
type Selection struct {
	Mode         SourceSelectionMode `json:"mode"`
	Sources      []string            `json:"sources"`
	Destinations []string            `json:"destinations"`
}
