package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

func TestFilterByIDs_PreservesListOrderAndDropsUnknown(t *testing.T) {
	items := []domain.LocationItem{
		{ID: "destination-0", Name: "A"},
		{ID: "destination-1", Name: "B"},
		{ID: "destination-2", Name: "C"},
	}

	got := domain.FilterByIDs(items, []string{"destination-2", "destination-9", "destination-0"})

	assert.Equal(t, []domain.LocationItem{items[0], items[2]}, got)
}

func TestParseSourceSelectionMode(t *testing.T) {
	m, err := domain.ParseSourceSelectionMode("single")
	assert.NoError(t, err)
	assert.Equal(t, domain.SelectSingle, m)

	_, err = domain.ParseSourceSelectionMode("some")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRoute_SourceItems(t *testing.T) {
	src := domain.LocationItem{ID: "source-0"}

	single := domain.Route{Kind: domain.RouteSingle, Source: &src}
	multi := domain.Route{Kind: domain.RouteMulti, Sources: []domain.LocationItem{src, {ID: "source-1"}}}

	assert.Len(t, single.SourceItems(), 1)
	assert.Len(t, multi.SourceItems(), 2)
}
