package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/export"
	"github.com/pkordes/fleet-dashboard/internal/service"
)

func TestExportService_Rows_OnePerRecord(t *testing.T) {
	svc := service.NewExportService(nil, nil)
	records := []domain.TripRecord{
		{ID: 1, ParentTripID: i64(9)},
		{ID: 2, ParentTripID: i64(9)},
		{ID: 3},
	}

	rows := svc.Rows(records)

	require.Len(t, rows, 3)
	assert.Equal(t, "9", rows[0].ParentTripID)
	assert.Equal(t, "9", rows[1].ParentTripID)
	assert.Equal(t, "", rows[2].ParentTripID)
}

func TestExportService_ExportAll_WalksEveryPage(t *testing.T) {
	var pages []int
	r := &mockTripRepo{
		list: func(_ context.Context, q domain.TripQuery) (domain.TripPage, error) {
			pages = append(pages, q.Page)
			rec := domain.TripRecord{ID: int64(q.Page), Date: fmt.Sprintf("2024-01-0%d", q.Page), DriverName: fmt.Sprintf("d%d", 4-q.Page)}
			return domain.TripPage{Records: []domain.TripRecord{rec}, Page: q.Page, Limit: q.Limit, Pages: 3, Total: 3}, nil
		},
	}
	svc := service.NewExportService(r, nil)
	var buf bytes.Buffer

	n, err := svc.ExportAll(context.Background(), &buf, service.ExportAllRequest{
		Filter: domain.FilterSpec{Company: "TAQA"},
		Sort:   domain.SortSpec{Key: domain.SortDriverName, Direction: domain.Ascending},
		Format: export.CSV,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3}, pages)

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"3", "2", "1"}, []string{lines[1][0], lines[2][0], lines[3][0]})
}

func TestExportService_ExportAll_DefaultOrderIsDateDescending(t *testing.T) {
	r := &mockTripRepo{
		list: func(context.Context, domain.TripQuery) (domain.TripPage, error) {
			return domain.TripPage{Records: []domain.TripRecord{
				{ID: 1, Date: "2024-01-01"},
				{ID: 2, Date: "2024-01-03", ParentTripID: i64(5)},
				{ID: 3, Date: "2024-01-02"},
				{ID: 4, Date: "2024-01-03", ParentTripID: i64(5)},
			}, Pages: 1}, nil
		},
	}
	svc := service.NewExportService(r, nil)
	var buf bytes.Buffer

	_, err := svc.ExportAll(context.Background(), &buf, service.ExportAllRequest{Format: export.CSV})

	require.NoError(t, err)
	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	ids := []string{lines[1][0], lines[2][0], lines[3][0], lines[4][0]}
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids, "containers stay together under their parent")
}

func TestExportService_ExportAll_BackendError(t *testing.T) {
	r := &mockTripRepo{
		list: func(context.Context, domain.TripQuery) (domain.TripPage, error) {
			return domain.TripPage{}, domain.ErrUnauthorized
		},
	}
	svc := service.NewExportService(r, nil)

	_, err := svc.ExportAll(context.Background(), &bytes.Buffer{}, service.ExportAllRequest{Format: export.CSV})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
