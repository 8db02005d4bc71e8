package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(r.Context(), "encode response failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, r, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeServiceError maps a service error onto an HTTP status and error code.
// Unknown errors are logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		s.writeError(w, r, http.StatusUnprocessableEntity, "validation_error", messageAfter(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrParse):
		s.writeError(w, r, http.StatusUnprocessableEntity, "parse_error", messageAfter(err, domain.ErrParse))
	case errors.Is(err, domain.ErrRouteRequest):
		s.writeError(w, r, http.StatusBadGateway, "route_request_failed", messageAfter(err, domain.ErrRouteRequest))
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, "not_found", messageAfter(err, domain.ErrNotFound))
	default:
		s.log.ErrorContext(r.Context(), "unhandled service error", "path", r.URL.Path, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeBodyError reports a request body that could not be read or decoded.
func (s *Server) writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	s.writeError(w, r, http.StatusUnprocessableEntity, "validation_error", "malformed request body: "+err.Error())
}

// decodeOptionalJSON decodes a JSON body into dst. An empty body leaves dst
// untouched and is not an error.
func decodeOptionalJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// messageAfter extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.RouteService.Build: validation error: please select ..." → "please select ..."
func messageAfter(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
