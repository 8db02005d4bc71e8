// Package handler — export.go implements GET /routes/export.
// Returns the whole route history as a flat table, one row per destination.
// Supports ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"route_id", "kind", "created_at",
	"source_ids", "source_names",
	"destination_id", "destination_name", "destination_region",
}

// exportRow is one (route, destination) pair.
// Sources are joined with "|" so each row stays on a single CSV line.
type exportRow struct {
	RouteID           string `json:"route_id"`
	Kind              string `json:"kind"`
	CreatedAt         string `json:"created_at"`
	SourceIDs         string `json:"source_ids"`
	SourceNames       string `json:"source_names"`
	DestinationID     string `json:"destination_id"`
	DestinationName   string `json:"destination_name"`
	DestinationRegion string `json:"destination_region"`
}

// exportPageSize is large enough to read any realistic history in one call.
const exportPageSize = 1 << 20

// ExportRoutes handles GET /routes/export.
func (s *Server) ExportRoutes(w http.ResponseWriter, r *http.Request) {
	var format string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	routes, _ := s.routes.List(r.Context(), domain.PaginationParams{Page: 1, Limit: exportPageSize})
	rows := flattenRoutes(routes)

	if format == "csv" {
		s.writeCSV(w, r, rows)
		return
	}
	s.writeJSON(w, r, http.StatusOK, rows)
}

// flattenRoutes produces one row per destination, most recent route first.
// A route always has at least one destination, so every route appears.
func flattenRoutes(routes []domain.Route) []exportRow {
	rows := make([]exportRow, 0, len(routes))
	for _, rt := range routes {
		srcs := rt.SourceItems()
		ids := make([]string, len(srcs))
		names := make([]string, len(srcs))
		for i, src := range srcs {
			ids[i] = src.ID
			names[i] = src.Name
		}
		for _, d := range rt.Destinations {
			rows = append(rows, exportRow{
				RouteID:           rt.ID,
				Kind:              string(rt.Kind),
				CreatedAt:         rt.CreatedAt.UTC().Format(time.RFC3339),
				SourceIDs:         strings.Join(ids, "|"),
				SourceNames:       strings.Join(names, "|"),
				DestinationID:     d.ID,
				DestinationName:   d.Name,
				DestinationRegion: d.Region,
			})
		}
	}
	return rows
}

// writeCSV encodes rows as CSV with a header line.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, rows []exportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write([]string{
			row.RouteID, row.Kind, row.CreatedAt,
			row.SourceIDs, row.SourceNames,
			row.DestinationID, row.DestinationName, row.DestinationRegion,
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="routes.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.ErrorContext(r.Context(), "write csv export failed", "error", err)
	}
}
