package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/handler"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Views in handler tests run against the real registry with this repo behind it.
type mockTripRepo struct {
	list   func(ctx context.Context, q domain.TripQuery) (domain.TripPage, error)
	delete func(ctx context.Context, id int64) error
}

func (m *mockTripRepo) List(ctx context.Context, q domain.TripQuery) (domain.TripPage, error) {
	return m.list(ctx, q)
}
func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

// mockStatisticsServicer is a test double for handler.StatisticsServicer.
type mockStatisticsServicer struct {
	get func(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error)
}

func (m *mockStatisticsServicer) Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error) {
	return m.get(ctx, q)
}

// mockInvoiceServicer is a test double for handler.InvoiceServicer.
type mockInvoiceServicer struct {
	create func(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error)
	list   func(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error)
}

func (m *mockInvoiceServicer) Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error) {
	return m.create(ctx, inv)
}
func (m *mockInvoiceServicer) List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error) {
	return m.list(ctx, p)
}

// compile-time checks.
var (
	_ repo.TripRepo              = (*mockTripRepo)(nil)
	_ handler.StatisticsServicer = (*mockStatisticsServicer)(nil)
	_ handler.InvoiceServicer    = (*mockInvoiceServicer)(nil)
	_ handler.ViewServicer       = (*service.ViewService)(nil)
	_ handler.ExportServicer     = (*service.ExportService)(nil)
)

// ---- helpers ---------------------------------------------------------------

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

type deps struct {
	trips    *mockTripRepo
	stats    *mockStatisticsServicer
	invoices *mockInvoiceServicer
}

// newHTTPHandler wires a Server the same way main.go does, minus middleware.
func newHTTPHandler(t *testing.T, d deps) (http.Handler, *service.ViewService) {
	t.Helper()
	if d.trips == nil {
		d.trips = pagedRepo(nil)
	}
	views := service.NewViewService(d.trips, service.ViewOptions{PageLimit: 10})
	t.Cleanup(views.CloseAll)
	srv := handler.NewServer(views, service.NewExportService(nil, nil), d.stats, d.invoices, nil)
	return srv.Handler(), views
}

// pagedRepo serves records as a single page.
func pagedRepo(records []domain.TripRecord) *mockTripRepo {
	return &mockTripRepo{
		list: func(_ context.Context, q domain.TripQuery) (domain.TripPage, error) {
			if records == nil {
				records = []domain.TripRecord{}
			}
			return domain.TripPage{Records: records, Page: q.Page, Limit: q.Limit, Pages: 1, Total: int64(len(records))}, nil
		},
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	return doAs(h, "", method, target, body)
}

// doAs is do for a caller holding token, as the token middleware would
// leave it in the request context.
func doAs(h http.Handler, token, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req = req.WithContext(auth.WithToken(req.Context(), token))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

// createView opens a view through the API and returns its id.
func createView(t *testing.T, h http.Handler, body any) handler.ViewResponse {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	rec := do(h, http.MethodPost, "/views", r)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[handler.ViewResponse](t, rec)
}
