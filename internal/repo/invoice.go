package repo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// InvoiceRepo defines the backend operations for service-inspection invoices.
type InvoiceRepo interface {
	// List returns one page of invoices, newest first as ordered by the backend.
	List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error)

	// Create posts a new invoice and returns the stored record.
	Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error)
}

type restInvoiceRepo struct {
	c *Client
}

// NewInvoiceRepo constructs an InvoiceRepo that talks to the backend through c.
func NewInvoiceRepo(c *Client) InvoiceRepo {
	return &restInvoiceRepo{c: c}
}

type invoiceListEnvelope struct {
	Data []domain.ServiceInvoice `json:"data"`
	Meta pageMeta                `json:"meta"`
}

type invoiceEnvelope struct {
	Data domain.ServiceInvoice `json:"data"`
}

func (r *restInvoiceRepo) List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error) {
	values := url.Values{}
	if err := addQuery(values, "page", p.Page); err != nil {
		return domain.InvoicePage{}, fmt.Errorf("repo.InvoiceRepo.List: %w", err)
	}
	if err := addQuery(values, "limit", p.Limit); err != nil {
		return domain.InvoicePage{}, fmt.Errorf("repo.InvoiceRepo.List: %w", err)
	}

	var env invoiceListEnvelope
	if err := r.c.do(ctx, http.MethodGet, "/api/service-invoices", values, nil, &env); err != nil {
		return domain.InvoicePage{}, fmt.Errorf("repo.InvoiceRepo.List: %w", err)
	}

	invoices := env.Data
	if invoices == nil {
		invoices = []domain.ServiceInvoice{}
	}
	return domain.InvoicePage{
		Invoices: invoices,
		Page:     env.Meta.Page,
		Limit:    env.Meta.Limit,
		Pages:    env.Meta.Pages,
		Total:    env.Meta.Total,
	}, nil
}

func (r *restInvoiceRepo) Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error) {
	var env invoiceEnvelope
	if err := r.c.do(ctx, http.MethodPost, "/api/service-invoices", nil, inv, &env); err != nil {
		return domain.ServiceInvoice{}, fmt.Errorf("repo.InvoiceRepo.Create: %w", err)
	}
	return env.Data, nil
}
