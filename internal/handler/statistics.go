package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// GetStatistics handles GET /statistics.
// Supports ?start_date=, ?end_date= (YYYY-MM-DD, applied only as a pair) and
// ?company=. Financial figures are omitted when the caller lacks access.
func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	var (
		start, end *openapi_types.Date
		company    *string
	)
	if err := bindQuery(r, "start_date", &start); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bindQuery(r, "end_date", &end); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bindQuery(r, "company", &company); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := domain.StatisticsQuery{}
	if start != nil {
		q.StartDate = start.String()
	}
	if end != nil {
		q.EndDate = end.String()
	}
	if company != nil {
		q.Company = *company
	}

	stats, err := s.stats.Get(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if stats.Companies == nil {
		stats.Companies = []domain.CompanyStatistics{}
	}
	writeJSON(w, http.StatusOK, stats)
}
