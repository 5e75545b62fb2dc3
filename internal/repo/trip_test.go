package repo_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/testutil"
)

// ---- helpers ---------------------------------------------------------------

func i64(v int64) *int64 { return &v }

func newClient(t *testing.T, b *testutil.Backend) *repo.Client {
	t.Helper()
	c, err := repo.NewClient(b.URL, b.Client(), nil)
	require.NoError(t, err)
	return c
}

// tripFixture returns a trip with sensible defaults for use in tests.
func tripFixture(id int64, company, date string) domain.TripRecord {
	return domain.TripRecord{
		ID:         id,
		ReceiptNo:  "R-100",
		Date:       date,
		Company:    company,
		Terminal:   "Mostorod",
		DriverName: "Hassan",
	}
}

func query(page, limit int, f domain.FilterSpec) domain.TripQuery {
	return domain.TripQuery{Filter: f, PaginationParams: domain.PaginationParams{Page: page, Limit: limit}}
}

type failingDoer struct{ err error }

func (d failingDoer) Do(*http.Request) (*http.Response, error) { return nil, d.err }

// ---- NewClient -------------------------------------------------------------

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := repo.NewClient("/api", http.DefaultClient, nil)
	assert.Error(t, err)
}

// ---- List ------------------------------------------------------------------

func TestTripRepo_List_Unfiltered(t *testing.T) {
	b := testutil.NewBackend(t,
		tripFixture(1, "Watanya", "2024-01-01"),
		tripFixture(2, "TAQA", "2024-01-02"),
		tripFixture(3, "TAQA", "2024-01-03"),
	)
	r := repo.NewTripRepo(newClient(t, b))

	page, err := r.List(context.Background(), query(1, 2, domain.FilterSpec{}))

	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)

	call := b.LastCall(t)
	assert.Equal(t, "/api/trips", call.Path)
	assert.Equal(t, "1", call.Query.Get("page"))
	assert.Equal(t, "2", call.Query.Get("limit"))
}

func TestTripRepo_List_CompanyRoute(t *testing.T) {
	b := testutil.NewBackend(t,
		tripFixture(1, "Petrol Arrows", "2024-01-01"),
		tripFixture(2, "TAQA", "2024-01-02"),
	)
	r := repo.NewTripRepo(newClient(t, b))

	page, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{Company: "Petrol Arrows"}))

	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(1), page.Records[0].ID)
	assert.Equal(t, "/api/trips/company/Petrol Arrows", b.LastCall(t).Path)
}

func TestTripRepo_List_DateRouteNeedsBothDates(t *testing.T) {
	b := testutil.NewBackend(t,
		tripFixture(1, "TAQA", "2024-01-01"),
		tripFixture(2, "TAQA", "2024-02-01"),
	)
	r := repo.NewTripRepo(newClient(t, b))

	page, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{
		Company:   "TAQA",
		StartDate: "2024-01-15",
		EndDate:   "2024-02-15",
	}))

	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(2), page.Records[0].ID)

	call := b.LastCall(t)
	assert.Equal(t, "/api/trips/date", call.Path)
	assert.Equal(t, "2024-01-15", call.Query.Get("start_date"))
	assert.Equal(t, "2024-02-15", call.Query.Get("end_date"))
	assert.Equal(t, "TAQA", call.Query.Get("company"))
}

func TestTripRepo_List_StartDateAloneSendsNoDates(t *testing.T) {
	b := testutil.NewBackend(t, tripFixture(1, "TAQA", "2024-01-01"))
	r := repo.NewTripRepo(newClient(t, b))

	_, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{StartDate: "2024-01-01"}))

	require.NoError(t, err)
	call := b.LastCall(t)
	assert.Equal(t, "/api/trips", call.Path)
	assert.False(t, call.Query.Has("start_date"))
	assert.False(t, call.Query.Has("end_date"))
}

func TestTripRepo_List_Search(t *testing.T) {
	b := testutil.NewBackend(t, tripFixture(1, "TAQA", "2024-01-01"))
	r := repo.NewTripRepo(newClient(t, b))

	_, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{Search: "  hassan "}))

	require.NoError(t, err)
	assert.Equal(t, "hassan", b.LastCall(t).Query.Get("search"))
}

func TestTripRepo_List_EmptyIsNotNil(t *testing.T) {
	b := testutil.NewBackend(t)
	r := repo.NewTripRepo(newClient(t, b))

	page, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{}))

	require.NoError(t, err)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
	assert.Equal(t, 0, page.Pages)
}

func TestTripRepo_List_DecodesContainers(t *testing.T) {
	child := tripFixture(2, "TAQA", "2024-01-01")
	child.ParentTripID = i64(7)
	b := testutil.NewBackend(t, child)
	r := repo.NewTripRepo(newClient(t, b))

	page, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{}))

	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.NotNil(t, page.Records[0].ParentTripID)
	assert.Equal(t, int64(7), *page.Records[0].ParentTripID)
}

func TestTripRepo_List_ForwardsToken(t *testing.T) {
	b := testutil.NewBackend(t)
	r := repo.NewTripRepo(newClient(t, b))
	ctx := auth.WithToken(context.Background(), "abc.def.ghi")

	_, err := r.List(ctx, query(1, 10, domain.FilterSpec{}))

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc.def.ghi", b.LastCall(t).Authorization)
}

// ---- errors ----------------------------------------------------------------

func TestTripRepo_List_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrBackend},
		{http.StatusBadGateway, domain.ErrBackend},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.Fail(tc.status, "Failed to fetch trips")
			r := repo.NewTripRepo(newClient(t, b))

			_, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{}))

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			var apiErr *repo.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, "Failed to fetch trips", apiErr.Message)
			assert.Equal(t, "Failed to fetch trips", repo.UserMessage(err))
		})
	}
}

func TestTripRepo_List_MessageFallsBackToStatusText(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Fail(http.StatusServiceUnavailable, "")
	r := repo.NewTripRepo(newClient(t, b))

	_, err := r.List(context.Background(), query(1, 10, domain.FilterSpec{}))

	assert.Equal(t, "Service Unavailable", repo.UserMessage(err))
}

func TestTripRepo_List_TransportError(t *testing.T) {
	c, err := repo.NewClient("http://backend.invalid", failingDoer{err: errors.New("connection refused")}, nil)
	require.NoError(t, err)
	r := repo.NewTripRepo(c)

	_, err = r.List(context.Background(), query(1, 10, domain.FilterSpec{}))

	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.Equal(t, "The server could not be reached.", repo.UserMessage(err))
}

// ---- Delete ----------------------------------------------------------------

func TestTripRepo_Delete(t *testing.T) {
	b := testutil.NewBackend(t, tripFixture(1, "TAQA", "2024-01-01"), tripFixture(2, "TAQA", "2024-01-02"))
	r := repo.NewTripRepo(newClient(t, b))

	err := r.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, b.LastCall(t).Method)
	assert.Equal(t, "/api/trips/1", b.LastCall(t).Path)
	require.Len(t, b.Trips(), 1)
	assert.Equal(t, int64(2), b.Trips()[0].ID)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	b := testutil.NewBackend(t)
	r := repo.NewTripRepo(newClient(t, b))

	err := r.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
