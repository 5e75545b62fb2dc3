package handler

import (
	"net/http"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// Pagination is the paging block of list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// InvoiceListResponse is the body of GET /service-invoices.
type InvoiceListResponse struct {
	Data       []domain.ServiceInvoice `json:"data"`
	Pagination Pagination              `json:"pagination"`
}

// InvoiceResponse wraps a single invoice.
type InvoiceResponse struct {
	Data domain.ServiceInvoice `json:"data"`
}

// ListInvoices handles GET /service-invoices.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=10, max=100).
func (s *Server) ListInvoices(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := bindQuery(r, "page", &page); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bindQuery(r, "limit", &limit); err != nil {
		s.writeError(w, r, err)
		return
	}
	params := domain.NewPaginationParams(page, limit)

	result, err := s.invoices.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InvoiceListResponse{
		Data: result.Invoices,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Pages: result.Pages,
			Total: result.Total,
		},
	})
}

// CreateInvoice handles POST /service-invoices.
func (s *Server) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv domain.ServiceInvoice
	if err := decodeBody(r, &inv); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.invoices.Create(r.Context(), inv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, InvoiceResponse{Data: created})
}
