// Package service contains the business logic for the routing dashboard.
// Services validate inputs, enforce selection rules, and orchestrate the
// parser, the selection manager and the repos. No storage code lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/routing-dashboard/internal/client"
	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/locations"
	"github.com/pkordes/routing-dashboard/internal/selection"
)

// sampleNotice is reported when the bundled sample document replaced a
// failed fetch. It is informational, not an error.
const sampleNotice = "Unable to fetch from external server, using sample data instead."

// DocumentFetcher downloads a location document.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (string, error)
}

// LoadResult describes the outcome of a successful load.
type LoadResult struct {
	Locations  domain.Locations
	UsedSample bool
	Notice     string
	Summary    string
}

// LocationService owns the currently loaded source and destination lists.
// Every load replaces both lists; nothing is merged with the previous load.
type LocationService struct {
	fetcher    DocumentFetcher
	selection  *selection.Manager
	defaultURL string
	log        *slog.Logger

	mu      sync.RWMutex
	current domain.Locations
}

// NewLocationService constructs a LocationService. defaultURL is used when a
// load does not name a document URL.
func NewLocationService(fetcher DocumentFetcher, sel *selection.Manager, defaultURL string, log *slog.Logger) *LocationService {
	return &LocationService{
		fetcher:    fetcher,
		selection:  sel,
		defaultURL: defaultURL,
		log:        log,
		current:    emptyLocations(),
	}
}

// Current returns the lists from the most recent load.
// The returned slices are replaced, never mutated, by later loads.
func (s *LocationService) Current() domain.Locations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load fetches the document at url (or the default URL when url is empty)
// and replaces the loaded lists with its contents.
//
// A failed fetch is not an error: the bundled sample document is loaded
// instead and the result reports UsedSample. A document that cannot be parsed
// clears the lists and returns domain.ErrParse.
func (s *LocationService) Load(ctx context.Context, url string) (LoadResult, error) {
	if url == "" {
		url = s.defaultURL
	}

	doc, err := s.fetcher.FetchDocument(ctx, url)
	usedSample := false
	if err != nil {
		s.log.InfoContext(ctx, "using sample data due to fetch error",
			"url", url, "status", client.StatusCode(err), "error", err)
		doc = locations.SampleDocument
		usedSample = true
	}

	result, err := s.apply(ctx, doc)
	if err != nil {
		return LoadResult{}, fmt.Errorf("service.LocationService.Load: %w", err)
	}
	if usedSample {
		result.UsedSample = true
		result.Notice = sampleNotice
	}
	return result, nil
}

// LoadDocument replaces the loaded lists with the contents of an inline
// document. Parse failures behave as in Load.
func (s *LocationService) LoadDocument(ctx context.Context, doc string) (LoadResult, error) {
	result, err := s.apply(ctx, doc)
	if err != nil {
		return LoadResult{}, fmt.Errorf("service.LocationService.LoadDocument: %w", err)
	}
	return result, nil
}

// apply parses doc and swaps it in. Location ids are positional, so any
// selection made against the previous lists is dropped.
func (s *LocationService) apply(ctx context.Context, doc string) (LoadResult, error) {
	parsed, err := locations.Parse(doc)
	if err != nil {
		s.replace(emptyLocations())
		s.log.WarnContext(ctx, "location document rejected", "error", err)
		return LoadResult{}, err
	}

	s.replace(parsed)
	summary := fmt.Sprintf("Loaded %d sources and %d destinations.", len(parsed.Sources), len(parsed.Destinations))
	s.log.InfoContext(ctx, "locations loaded",
		"sources", len(parsed.Sources),
		"destinations", len(parsed.Destinations),
	)
	return LoadResult{Locations: parsed, Summary: summary}, nil
}

func (s *LocationService) replace(l domain.Locations) {
	s.mu.Lock()
	s.current = l
	s.mu.Unlock()
	s.selection.Reset()
}

func emptyLocations() domain.Locations {
	return domain.Locations{Sources: []domain.LocationItem{}, Destinations: []domain.LocationItem{}}
}
