// Package handler implements the HTTP handlers for the fleet dashboard API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, view.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/export"
	"github.com/pkordes/fleet-dashboard/internal/listview"
)

// ViewServicer defines the view registry operations the handlers depend on.
// Get and Close only see views created by the same caller as ctx.
type ViewServicer interface {
	Create(ctx context.Context, mode listview.Mode, filter domain.FilterSpec) (uuid.UUID, *listview.ListView, error)
	Get(ctx context.Context, id uuid.UUID) (*listview.ListView, error)
	Close(ctx context.Context, id uuid.UUID) error
}

// ExportServicer writes flat trip exports.
type ExportServicer interface {
	Export(w io.Writer, f export.Format, records []domain.TripRecord) error
}

// StatisticsServicer fetches server-computed statistics.
type StatisticsServicer interface {
	Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error)
}

// InvoiceServicer defines the service-invoice operations.
type InvoiceServicer interface {
	Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error)
}

// Server holds the dependencies of every handler.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	views    ViewServicer
	exports  ExportServicer
	stats    StatisticsServicer
	invoices InvoiceServicer
	log      *slog.Logger
	now      func() time.Time
}

// NewServer constructs the Server with all its dependencies. A nil logger
// falls back to slog.Default().
func NewServer(views ViewServicer, exports ExportServicer, stats StatisticsServicer, invoices InvoiceServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		views:    views,
		exports:  exports,
		stats:    stats,
		invoices: invoices,
		log:      log,
		now:      time.Now,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes registers every endpoint on r.
// Middleware is applied by the caller so tests can mount routes bare.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.CreateView)
		r.Route("/{viewID}", func(r chi.Router) {
			r.Get("/", s.GetView)
			r.Delete("/", s.CloseView)
			r.Put("/filter", s.SetFilter)
			r.Put("/page", s.SetPage)
			r.Put("/mode", s.SetMode)
			r.Post("/sort", s.ToggleSort)
			r.Post("/groups/{parentID}/toggle", s.ToggleGroup)
			r.Delete("/trips/{tripID}", s.DeleteTrip)
			r.Delete("/error", s.DismissError)
			r.Get("/export", s.ExportView)
		})
	})

	r.Get("/statistics", s.GetStatistics)
	r.Get("/service-invoices", s.ListInvoices)
	r.Post("/service-invoices", s.CreateInvoice)
}

// Handler returns a bare router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
