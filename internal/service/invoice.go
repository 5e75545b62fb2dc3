package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/repo"
)

// InvoiceService implements business logic for service-inspection invoices.
type InvoiceService struct {
	repo repo.InvoiceRepo
}

// NewInvoiceService constructs an InvoiceService backed by the provided InvoiceRepo.
func NewInvoiceService(r repo.InvoiceRepo) *InvoiceService {
	return &InvoiceService{repo: r}
}

// Create validates and posts a new invoice.
// Strings are trimmed, blank inspection items are dropped and the rest are
// numbered 1..n in the order given.
func (s *InvoiceService) Create(ctx context.Context, inv domain.ServiceInvoice) (domain.ServiceInvoice, error) {
	inv = normalizeInvoice(inv)
	if err := validateInvoice(inv); err != nil {
		return domain.ServiceInvoice{}, fmt.Errorf("service.InvoiceService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		return domain.ServiceInvoice{}, fmt.Errorf("service.InvoiceService.Create: %w", err)
	}
	return created, nil
}

// List returns one page of invoices.
func (s *InvoiceService) List(ctx context.Context, p domain.PaginationParams) (domain.InvoicePage, error) {
	page, err := s.repo.List(ctx, p)
	if err != nil {
		return domain.InvoicePage{}, fmt.Errorf("service.InvoiceService.List: %w", err)
	}
	return page, nil
}

func normalizeInvoice(inv domain.ServiceInvoice) domain.ServiceInvoice {
	inv.ID = 0
	inv.DriverName = strings.TrimSpace(inv.DriverName)
	inv.Date = strings.TrimSpace(inv.Date)
	inv.PlateNumber = strings.TrimSpace(inv.PlateNumber)
	inv.Supervisor = strings.TrimSpace(inv.Supervisor)
	inv.OperatingRegion = strings.TrimSpace(inv.OperatingRegion)

	items := make([]domain.InspectionItem, 0, len(inv.InspectionItems))
	for _, it := range inv.InspectionItems {
		it.Service = strings.TrimSpace(it.Service)
		it.Notes = strings.TrimSpace(it.Notes)
		if it.Service == "" {
			continue
		}
		it.ItemOrder = len(items) + 1
		items = append(items, it)
	}
	inv.InspectionItems = items
	return inv
}

// validateInvoice enforces the business rules for a new invoice.
// Returns a wrapped domain.ErrValidation so callers can use errors.Is.
func validateInvoice(inv domain.ServiceInvoice) error {
	switch {
	case inv.CarID <= 0:
		return fmt.Errorf("%w: car_id is required", domain.ErrValidation)
	case inv.DriverName == "":
		return fmt.Errorf("%w: driver_name is required", domain.ErrValidation)
	case inv.PlateNumber == "":
		return fmt.Errorf("%w: plate_number is required", domain.ErrValidation)
	case inv.Supervisor == "":
		return fmt.Errorf("%w: supervisor is required", domain.ErrValidation)
	case inv.OperatingRegion == "":
		return fmt.Errorf("%w: operating_region is required", domain.ErrValidation)
	case inv.MeterReading <= 0:
		return fmt.Errorf("%w: meter_reading must be positive", domain.ErrValidation)
	}
	if _, err := time.Parse(domain.DateLayout, inv.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return nil
}
