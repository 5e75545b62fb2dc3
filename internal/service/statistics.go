package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/repo"
)

// StatisticsService passes server-computed statistics through to the caller.
// Nothing is aggregated here.
type StatisticsService struct {
	repo repo.StatisticsRepo
}

// NewStatisticsService constructs a StatisticsService backed by r.
func NewStatisticsService(r repo.StatisticsRepo) *StatisticsService {
	return &StatisticsService{repo: r}
}

// Get validates the date range and fetches statistics. A half-open range is
// not an error; it is simply not sent.
func (s *StatisticsService) Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error) {
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)
	q.Company = strings.TrimSpace(q.Company)

	if q.StartDate != "" && q.EndDate != "" {
		start, err := time.Parse(domain.DateLayout, q.StartDate)
		if err != nil {
			return domain.Statistics{}, fmt.Errorf("service.StatisticsService.Get: %w: start_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		end, err := time.Parse(domain.DateLayout, q.EndDate)
		if err != nil {
			return domain.Statistics{}, fmt.Errorf("service.StatisticsService.Get: %w: end_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		if end.Before(start) {
			return domain.Statistics{}, fmt.Errorf("service.StatisticsService.Get: %w: end_date is before start_date", domain.ErrValidation)
		}
	}

	stats, err := s.repo.Get(ctx, q)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("service.StatisticsService.Get: %w", err)
	}
	return stats, nil
}
