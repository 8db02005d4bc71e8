package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// pagination mirrors domain.PaginationParams plus the total item count.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// routeListResponse is the body of GET /routes.
type routeListResponse struct {
	Data       []domain.Route `json:"data"`
	Pagination pagination     `json:"pagination"`
}

// sendRequest is the optional body of POST /route-requests.
type sendRequest struct {
	Endpoint string `json:"endpoint"`
}

// sendResponse is the body returned after a route request was accepted.
type sendResponse struct {
	Request  domain.RouteRequest `json:"request"`
	Response any                 `json:"response"`
}

// ListRoutes handles GET /routes.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	routes, total := s.routes.List(r.Context(), params)
	s.writeJSON(w, r, http.StatusOK, routeListResponse{
		Data: routes,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateRoute handles POST /routes. The route is built from the current selection.
func (s *Server) CreateRoute(w http.ResponseWriter, r *http.Request) {
	route, err := s.routes.Build(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, route)
}

// DeleteRoute handles DELETE /routes/{id}.
// Deleting an unknown id succeeds; the history is simply left as it was.
func (s *Server) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	if err := s.routes.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendRouteRequest handles POST /route-requests.
// On failure the selection is kept so the client can retry.
func (s *Server) SendRouteRequest(w http.ResponseWriter, r *http.Request) {
	var body sendRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	res, err := s.routes.Send(r.Context(), body.Endpoint)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, sendResponse{Request: res.Request, Response: res.Response})
}
