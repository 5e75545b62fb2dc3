package service

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/export"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/triplist"
)

// exportPageLimit is the page size used when walking every backend page.
const exportPageLimit = 100

// ExportService turns flat trip records into export files.
type ExportService struct {
	trips  repo.TripRepo
	sorter *triplist.Sorter
}

// NewExportService constructs an ExportService. trips is only needed by
// ExportAll and may be nil otherwise.
func NewExportService(trips repo.TripRepo, sorter *triplist.Sorter) *ExportService {
	if sorter == nil {
		sorter = triplist.NewSorter(language.Und)
	}
	return &ExportService{trips: trips, sorter: sorter}
}

// Rows flattens records into export rows, one per record, in order.
func (s *ExportService) Rows(records []domain.TripRecord) []domain.ExportRow {
	out := make([]domain.ExportRow, 0, len(records))
	for _, r := range records {
		out = append(out, domain.NewExportRow(r))
	}
	return out
}

// Export writes records to w in format f.
func (s *ExportService) Export(w io.Writer, f export.Format, records []domain.TripRecord) error {
	if err := export.Write(w, f, s.Rows(records)); err != nil {
		return fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return nil
}

// ExportAllRequest selects what ExportAll fetches and how it orders it.
type ExportAllRequest struct {
	Filter domain.FilterSpec
	Sort   domain.SortSpec
	Format export.Format
}

// ExportAll walks every backend page matching req.Filter, groups and sorts
// the combined records the way a list view does, and writes them flattened.
// It returns the number of records written.
func (s *ExportService) ExportAll(ctx context.Context, w io.Writer, req ExportAllRequest) (int, error) {
	if s.trips == nil {
		return 0, fmt.Errorf("service.ExportService.ExportAll: no trip repo configured")
	}

	var records []domain.TripRecord
	for page := 1; ; page++ {
		p, err := s.trips.List(ctx, domain.TripQuery{
			Filter:           req.Filter,
			PaginationParams: domain.PaginationParams{Page: page, Limit: exportPageLimit},
		})
		if err != nil {
			return 0, fmt.Errorf("service.ExportService.ExportAll: page %d: %w", page, err)
		}
		records = append(records, p.Records...)
		if page >= p.Pages || len(p.Records) == 0 {
			break
		}
	}

	ordered := triplist.Flatten(s.sorter.Groups(triplist.Group(records), req.Sort))
	if err := s.Export(w, req.Format, ordered); err != nil {
		return 0, fmt.Errorf("service.ExportService.ExportAll: %w", err)
	}
	return len(ordered), nil
}
