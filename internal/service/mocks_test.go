package service_test

import (
	"context"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
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

type mockStatisticsRepo struct {
	get func(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error)
}

func (m *mockStatisticsRepo) Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error) {
	return m.get(ctx, q)
}

type mockInvoiceRepo struct {
	list   func(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error)
	create func(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error)
}

func (m *mockInvoiceRepo) List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error) {
	return m.list(ctx, p)
}
func (m *mockInvoiceRepo) Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error) {
	return m.create(ctx, inv)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo       = (*mockTripRepo)(nil)
	_ repo.StatisticsRepo = (*mockStatisticsRepo)(nil)
	_ repo.InvoiceRepo    = (*mockInvoiceRepo)(nil)
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
