package repo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// TripRepo defines the backend operations for trip records.
// The listview and service layers depend on this interface, not the concrete
// REST implementation, which allows them to be unit-tested with a mock.
type TripRepo interface {
	// List fetches one page of trips matching q.Filter.
	// The backend's meta.pages is the only source of the page count.
	List(ctx context.Context, q domain.TripQuery) (domain.TripPage, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// restTripRepo is the REST implementation of TripRepo.
type restTripRepo struct {
	c *Client
}

// NewTripRepo constructs a TripRepo that talks to the backend through c.
func NewTripRepo(c *Client) TripRepo {
	return &restTripRepo{c: c}
}

// tripListEnvelope is the backend's paginated list response.
type tripListEnvelope struct {
	Data []domain.TripRecord `json:"data"`
	Meta pageMeta            `json:"meta"`
}

// List picks the backend route from the filter: a complete date range wins,
// then a company, then the unfiltered listing.
func (r *restTripRepo) List(ctx context.Context, q domain.TripQuery) (domain.TripPage, error) {
	path, query, err := tripListRequest(q)
	if err != nil {
		return domain.TripPage{}, fmt.Errorf("repo.TripRepo.List: %w", err)
	}

	var env tripListEnvelope
	if err := r.c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return domain.TripPage{}, fmt.Errorf("repo.TripRepo.List: %w", err)
	}

	records := env.Data
	if records == nil {
		records = []domain.TripRecord{}
	}
	return domain.TripPage{
		Records: records,
		Page:    env.Meta.Page,
		Limit:   env.Meta.Limit,
		Pages:   env.Meta.Pages,
		Total:   env.Meta.Total,
	}, nil
}

func tripListRequest(q domain.TripQuery) (string, url.Values, error) {
	f := q.Filter
	values := url.Values{}
	if err := addQuery(values, "page", q.Page); err != nil {
		return "", nil, err
	}
	if err := addQuery(values, "limit", q.Limit); err != nil {
		return "", nil, err
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		if err := addQuery(values, "search", s); err != nil {
			return "", nil, err
		}
	}

	company := strings.TrimSpace(f.Company)
	switch {
	case f.HasDateRange():
		if err := addQuery(values, "start_date", strings.TrimSpace(f.StartDate)); err != nil {
			return "", nil, err
		}
		if err := addQuery(values, "end_date", strings.TrimSpace(f.EndDate)); err != nil {
			return "", nil, err
		}
		if company != "" {
			if err := addQuery(values, "company", company); err != nil {
				return "", nil, err
			}
		}
		return "/api/trips/date", values, nil
	case company != "":
		seg, err := pathParam("company", company)
		if err != nil {
			return "", nil, err
		}
		return "/api/trips/company/" + seg, values, nil
	default:
		return "/api/trips", values, nil
	}
}

// Delete removes one trip record on the backend.
func (r *restTripRepo) Delete(ctx context.Context, id int64) error {
	seg, err := pathParam("id", id)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if err := r.c.do(ctx, http.MethodDelete, "/api/trips/"+seg, nil, nil, nil); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}
