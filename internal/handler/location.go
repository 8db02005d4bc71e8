package handler

import (
	"io"
	"net/http"

	"github.com/pkordes/routing-dashboard/internal/domain"
	"github.com/pkordes/routing-dashboard/internal/service"
)

// locationsResponse is the body of GET /locations.
type locationsResponse struct {
	Mode         domain.SourceSelectionMode `json:"mode"`
	Sources      []domain.LocationItem      `json:"sources"`
	Destinations []domain.LocationItem      `json:"destinations"`
}

// loadResponse is the body returned after a successful load.
type loadResponse struct {
	Sources      []domain.LocationItem `json:"sources"`
	Destinations []domain.LocationItem `json:"destinations"`
	UsedSample   bool                  `json:"used_sample"`
	Notice       string                `json:"notice,omitempty"`
	Summary      string                `json:"summary"`
}

// refreshRequest is the optional body of POST /locations/refresh.
type refreshRequest struct {
	URL string `json:"url"`
}

// GetLocations handles GET /locations.
func (s *Server) GetLocations(w http.ResponseWriter, r *http.Request) {
	cur := s.locations.Current()
	s.writeJSON(w, r, http.StatusOK, locationsResponse{
		Mode:         s.selection.Snapshot().Mode,
		Sources:      cur.Sources,
		Destinations: cur.Destinations,
	})
}

// RefreshLocations handles POST /locations/refresh.
// The body may name a document URL; without one the configured URL is used.
// A fetch failure still answers 200, with used_sample=true.
func (s *Server) RefreshLocations(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	res, err := s.locations.Load(r.Context(), body.URL)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, loadResultToResponse(res))
}

// PutLocations handles PUT /locations. The request body is the XML document.
func (s *Server) PutLocations(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	res, err := s.locations.LoadDocument(r.Context(), string(doc))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, loadResultToResponse(res))
}

func loadResultToResponse(res service.LoadResult) loadResponse {
	return loadResponse{
		Sources:      res.Locations.Sources,
		Destinations: res.Locations.Destinations,
		UsedSample:   res.UsedSample,
		Notice:       res.Notice,
		Summary:      res.Summary,
	}
}
