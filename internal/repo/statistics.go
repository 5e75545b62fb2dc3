package repo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// StatisticsRepo reads the backend's server-computed trip statistics.
type StatisticsRepo interface {
	Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error)
}

type restStatisticsRepo struct {
	c *Client
}

// NewStatisticsRepo constructs a StatisticsRepo that talks to the backend through c.
func NewStatisticsRepo(c *Client) StatisticsRepo {
	return &restStatisticsRepo{c: c}
}

type statisticsEnvelope struct {
	Data               []domain.CompanyStatistics `json:"data"`
	HasFinancialAccess bool                       `json:"hasFinancialAccess"`
}

// Get fetches per-company statistics. The backend zeroes financial figures
// for callers without access; they are returned here as nil instead.
func (r *restStatisticsRepo) Get(ctx context.Context, q domain.StatisticsQuery) (domain.Statistics, error) {
	values, err := statisticsQuery(q)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("repo.StatisticsRepo.Get: %w", err)
	}

	var env statisticsEnvelope
	if err := r.c.do(ctx, http.MethodGet, "/api/trips/statistics", values, nil, &env); err != nil {
		return domain.Statistics{}, fmt.Errorf("repo.StatisticsRepo.Get: %w", err)
	}

	companies := env.Data
	if companies == nil {
		companies = []domain.CompanyStatistics{}
	}
	if !env.HasFinancialAccess {
		for i := range companies {
			stripFinancials(&companies[i])
		}
	}
	return domain.Statistics{FinancialAccess: env.HasFinancialAccess, Companies: companies}, nil
}

// statisticsQuery sends the date range only when both ends are set.
func statisticsQuery(q domain.StatisticsQuery) (url.Values, error) {
	values := url.Values{}
	start, end := strings.TrimSpace(q.StartDate), strings.TrimSpace(q.EndDate)
	if start != "" && end != "" {
		if err := addQuery(values, "start_date", start); err != nil {
			return nil, err
		}
		if err := addQuery(values, "end_date", end); err != nil {
			return nil, err
		}
	}
	if c := strings.TrimSpace(q.Company); c != "" {
		if err := addQuery(values, "company", c); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func stripFinancials(s *domain.CompanyStatistics) {
	s.TotalRevenue = nil
	s.TotalCarRent = nil
	s.TotalVAT = nil
	s.TotalAmount = nil
	for i := range s.Details {
		d := &s.Details[i]
		d.TotalRevenue = nil
		d.CarRental = nil
		d.VAT = nil
		d.TotalWithVAT = nil
		d.Fee = nil
	}
}
