// Package export writes flat trip exports.
// Input is always []domain.ExportRow: one row per trip record, with
// multi-container trips already flattened into their containers.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// Format is an export file format.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

// ParseFormat returns XLSX for an empty string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", XLSX:
		return XLSX, nil
	case CSV:
		return CSV, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename names a download, e.g. trips_20240131_150405.xlsx.
func Filename(prefix string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), f)
}

// Write encodes rows in format f.
func Write(w io.Writer, f Format, rows []domain.ExportRow) error {
	switch f {
	case CSV:
		return WriteCSV(w, rows)
	case XLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("export.Write: %w: unsupported export format %q", domain.ErrValidation, f)
}

// column is one field of the flat export.
type column struct {
	key   string // CSV header
	title string // XLSX header
	width float64
	value func(r domain.ExportRow) any // nil means an empty cell
}

const (
	colTankCapacity = 10
	colDistance     = 11
	colCompany      = 5
)

var columns = []column{
	{"trip_id", "Trip ID", 10, func(r domain.ExportRow) any { return r.TripID }},
	{"parent_trip_id", "Parent Trip", 12, func(r domain.ExportRow) any { return optString(r.ParentTripID) }},
	{"receipt_no", "Receipt No", 15, func(r domain.ExportRow) any { return optString(r.ReceiptNo) }},
	{"date", "Date", 12, func(r domain.ExportRow) any { return optString(r.Date) }},
	{"company", "Company", 20, func(r domain.ExportRow) any { return optString(r.Company) }},
	{"terminal", "Terminal", 18, func(r domain.ExportRow) any { return optString(r.Terminal) }},
	{"drop_off_point", "Drop Off Point", 22, func(r domain.ExportRow) any { return optString(r.DropOffPoint) }},
	{"car_no_plate", "Car No Plate", 15, func(r domain.ExportRow) any { return optString(r.CarNoPlate) }},
	{"driver_name", "Driver Name", 20, func(r domain.ExportRow) any { return optString(r.DriverName) }},
	{"tank_capacity", "Tank Capacity", 14, func(r domain.ExportRow) any { return optFloat(r.TankCapacity) }},
	{"distance", "Distance", 12, func(r domain.ExportRow) any { return optFloat(r.Distance) }},
	{"mileage", "Mileage", 12, func(r domain.ExportRow) any { return optFloat(r.Mileage) }},
	{"fee", "Fee", 10, func(r domain.ExportRow) any { return optFloat(r.Fee) }},
	{"garage_received_by", "Garage Received By", 20, func(r domain.ExportRow) any { return optString(r.GarageReceivedBy) }},
	{"garage_received_at", "Garage Received At", 22, func(r domain.ExportRow) any { return optTime(r.GarageReceivedAt) }},
	{"garage_stamped", "Garage Stamped", 14, func(r domain.ExportRow) any { return r.GarageStamped }},
	{"office_received_by", "Office Received By", 20, func(r domain.ExportRow) any { return optString(r.OfficeReceivedBy) }},
	{"office_received_at", "Office Received At", 22, func(r domain.ExportRow) any { return optTime(r.OfficeReceivedAt) }},
	{"office_stamped", "Office Stamped", 14, func(r domain.ExportRow) any { return r.OfficeStamped }},
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func optTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
