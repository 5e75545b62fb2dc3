// Package testutil provides shared helpers for tests that need a fleet
// backend. Backend runs an in-memory fake of the REST API on an
// httptest.Server so repo, listview and handler tests exercise real HTTP.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// Call is one request received by the fake backend.
type Call struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
}

// Backend is an in-memory stand-in for the fleet REST backend.
// All methods are safe for concurrent use.
type Backend struct {
	URL string

	srv *httptest.Server

	mu              sync.Mutex
	trips           []domain.TripRecord
	invoices        []domain.ServiceInvoice
	statistics      []domain.CompanyStatistics
	financialAccess bool
	failStatus      int
	failMessage     string
	calls           []Call
	block           chan struct{}
}

// NewBackend starts a fake backend serving trips. It is closed automatically
// when the test finishes.
func NewBackend(t *testing.T, trips ...domain.TripRecord) *Backend {
	t.Helper()

	b := &Backend{trips: slices.Clone(trips)}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get("/api/trips", b.listTrips)
	r.Get("/api/trips/date", b.listTrips)
	r.Get("/api/trips/company/{company}", b.listTrips)
	r.Get("/api/trips/statistics", b.getStatistics)
	r.Delete("/api/trips/{id}", b.deleteTrip)
	r.Get("/api/service-invoices", b.listInvoices)
	r.Post("/api/service-invoices", b.createInvoice)

	b.srv = httptest.NewServer(r)
	b.URL = b.srv.URL
	t.Cleanup(func() {
		b.Unblock()
		b.srv.Close()
	})
	return b
}

// Client returns an HTTP client wired to the fake server.
func (b *Backend) Client() *http.Client {
	return b.srv.Client()
}

// Fail makes every following request answer with status and the backend's
// {message,error} body until Recover is called.
func (b *Backend) Fail(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = status
	b.failMessage = message
}

// Recover undoes Fail.
func (b *Backend) Recover() {
	b.Fail(0, "")
}

// Block holds every following request until Unblock is called.
func (b *Backend) Block() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.block == nil {
		b.block = make(chan struct{})
	}
}

// Unblock releases requests held by Block.
func (b *Backend) Unblock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.block != nil {
		close(b.block)
		b.block = nil
	}
}

// SetTrips replaces the stored trips.
func (b *Backend) SetTrips(trips ...domain.TripRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trips = slices.Clone(trips)
}

// Trips returns a copy of the stored trips.
func (b *Backend) Trips() []domain.TripRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.trips)
}

// SetStatistics sets the statistics response. The fake zeroes financial
// figures when financialAccess is false, as the real backend does.
func (b *Backend) SetStatistics(financialAccess bool, stats ...domain.CompanyStatistics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.financialAccess = financialAccess
	b.statistics = slices.Clone(stats)
}

// Invoices returns a copy of the invoices created so far.
func (b *Backend) Invoices() []domain.ServiceInvoice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.invoices)
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// LastCall returns the most recent request. It fails the test if none was made.
func (b *Backend) LastCall(t *testing.T) Call {
	t.Helper()
	calls := b.Calls()
	if len(calls) == 0 {
		t.Fatal("testutil.Backend.LastCall: no requests received")
	}
	return calls[len(calls)-1]
}

// ---- handlers --------------------------------------------------------------

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
		})
		status, message := b.failStatus, b.failMessage
		block := b.block
		b.mu.Unlock()

		if block != nil {
			select {
			case <-block:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeJSON(w, status, map[string]string{"message": message, "error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company := chi.URLParam(r, "company")
	if company == "" {
		company = q.Get("company")
	}
	start, end := q.Get("start_date"), q.Get("end_date")
	if strings.HasSuffix(r.URL.Path, "/date") && (start == "" || end == "") {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Both start_date and end_date are required",
			"error":   "missing date range",
		})
		return
	}
	search := strings.ToLower(q.Get("search"))

	b.mu.Lock()
	var matched []domain.TripRecord
	for _, t := range b.trips {
		if company != "" && !strings.EqualFold(t.Company, company) {
			continue
		}
		if start != "" && end != "" && (t.Date < start || t.Date > end) {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		matched = append(matched, t)
	}
	b.mu.Unlock()

	page, limit := intParam(q, "page", 1), intParam(q, "limit", 10)
	total := len(matched)
	pages := (total + limit - 1) / limit
	from := min((page-1)*limit, total)
	to := min(from+limit, total)

	data := matched[from:to]
	if data == nil {
		data = []domain.TripRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{"total": total, "page": page, "limit": limit, "pages": pages},
	})
}

func (b *Backend) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid trip ID", "error": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.trips, func(t domain.TripRecord) bool { return t.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Trip not found", "error": "record not found"})
		return
	}
	b.trips = slices.Delete(b.trips, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}

func (b *Backend) getStatistics(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	access := b.financialAccess
	stats := slices.Clone(b.statistics)
	b.mu.Unlock()

	if !access {
		zero := 0.0
		for i := range stats {
			stats[i].TotalRevenue = &zero
			stats[i].Details = slices.Clone(stats[i].Details)
			for j := range stats[i].Details {
				stats[i].Details[j].TotalRevenue = &zero
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "Trip statistics retrieved successfully",
		"data":               stats,
		"hasFinancialAccess": access,
	})
}

func (b *Backend) listInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := intParam(q, "page", 1), intParam(q, "limit", 10)

	b.mu.Lock()
	all := slices.Clone(b.invoices)
	b.mu.Unlock()

	total := len(all)
	from := min((page-1)*limit, total)
	to := min(from+limit, total)
	data := all[from:to]
	if data == nil {
		data = []domain.ServiceInvoice{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{"total": total, "page": page, "limit": limit, "pages": (total + limit - 1) / limit},
	})
}

func (b *Backend) createInvoice(w http.ResponseWriter, r *http.Request) {
	var inv domain.ServiceInvoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body", "error": err.Error()})
		return
	}

	b.mu.Lock()
	inv.ID = int64(len(b.invoices) + 1)
	b.invoices = append(b.invoices, inv)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Service invoice created successfully", "data": inv})
}

// ---- helpers ---------------------------------------------------------------

func matchesSearch(t domain.TripRecord, search string) bool {
	for _, f := range []string{t.ReceiptNo, t.DriverName, t.CarNoPlate, t.DropOffPoint, t.Terminal} {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func intParam(q url.Values, name string, def int) int {
	n, err := strconv.Atoi(q.Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
