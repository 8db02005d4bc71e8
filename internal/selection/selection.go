// Package selection tracks which locations are currently selected as route
// sources and destinations, and enforces the source cardinality policy.
package selection

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// Manager holds the two ordered selection sets.
// It is safe for concurrent use; every mutation runs to completion under
// the lock so no caller observes a half-applied toggle.
type Manager struct {
	mode domain.SourceSelectionMode

	mu           sync.RWMutex
	sources      []string
	destinations []string
}

// NewManager returns an empty Manager applying mode to source selection.
func NewManager(mode domain.SourceSelectionMode) *Manager {
	return &Manager{mode: mode}
}

// Mode returns the source selection policy fixed at construction.
func (m *Manager) Mode() domain.SourceSelectionMode {
	return m.mode
}

// Toggle adds (checked) or removes (!checked) id from the set named by kind.
//
// Under SelectSingle, checking a source clears the source set first, so the
// set holds at most one id. Toggling a present id on, or an absent id off,
// is a no-op. Returns domain.ErrValidation for an unknown kind or empty id.
func (m *Manager) Toggle(kind domain.SelectionKind, id string, checked bool) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case domain.KindSource:
		if checked && m.mode == domain.SelectSingle {
			m.sources = []string{id}
			return nil
		}
		m.sources = apply(m.sources, id, checked)
	case domain.KindDestination:
		m.destinations = apply(m.destinations, id, checked)
	default:
		return fmt.Errorf("%w: unknown selection kind %q", domain.ErrValidation, kind)
	}
	return nil
}

// Sources returns a copy of the selected source ids in selection order.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.sources)
}

// Destinations returns a copy of the selected destination ids in selection order.
func (m *Manager) Destinations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.destinations)
}

// Snapshot returns both sets and the mode as one consistent view.
func (m *Manager) Snapshot() domain.Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Selection{
		Mode:         m.mode,
		Sources:      clone(m.sources),
		Destinations: clone(m.destinations),
	}
}

// Reset empties both sets.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.sources = nil
	m.destinations = nil
	m.mu.Unlock()
}

// Release removes the given ids from the selection and keeps everything else.
// Callers that consumed a Snapshot use it instead of Reset so that ids
// selected after the snapshot are not lost.
func (m *Manager) Release(sources, destinations []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = slices.DeleteFunc(m.sources, func(id string) bool { return slices.Contains(sources, id) })
	m.destinations = slices.DeleteFunc(m.destinations, func(id string) bool { return slices.Contains(destinations, id) })
}

// apply adds or removes id from set, returning the updated set.
func apply(set []string, id string, checked bool) []string {
	if checked {
		if slices.Contains(set, id) {
			return set
		}
		return append(set, id)
	}
	return slices.DeleteFunc(set, func(s string) bool { return s == id })
}

// clone returns a non-nil copy so callers can encode it as [] and mutate freely.
func clone(set []string) []string {
	out := make([]string, len(set))
	copy(out, set)
	return out
}
