package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// toggleRequest is the body of POST /selection/toggle.
// Checked is a pointer so a missing field can be told apart from false.
type toggleRequest struct {
	Kind    domain.SelectionKind `json:"kind"`
	ID      string               `json:"id"`
	Checked *bool                `json:"checked"`
}

// GetSelection handles GET /selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.selection.Snapshot())
}

// ToggleSelection handles POST /selection/toggle and returns the updated selection.
func (s *Server) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeBodyError(w, r, err)
		return
	}
	if body.Checked == nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, "validation_error", "checked is required")
		return
	}

	if err := s.selection.Toggle(body.Kind, body.ID, *body.Checked); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.selection.Snapshot())
}

// ResetSelection handles DELETE /selection.
func (s *Server) ResetSelection(w http.ResponseWriter, r *http.Request) {
	s.selection.Reset()
	w.WriteHeader(http.StatusNoContent)
}
