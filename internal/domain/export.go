package domain

import (
	"strconv"
	"time"
)

// ExportRow is a single row in a trip export.
// It is a flat, denormalized view of one TripRecord: multi-container trips
// contribute one row per container with the parent id repeated, and the
// receipt lifecycle is spread over fixed garage/office columns.
type ExportRow struct {
	TripID       int64
	ParentTripID string // empty string for standalone trips
	ReceiptNo    string
	Date         string
	Company      string
	Terminal     string
	DropOffPoint string
	CarNoPlate   string
	DriverName   string
	TankCapacity *float64
	Distance     *float64
	Mileage      *float64
	Fee          *float64

	// Receipt steps, empty when the step has not happened.
	GarageReceivedBy string
	GarageReceivedAt *time.Time
	GarageStamped    bool
	OfficeReceivedBy string
	OfficeReceivedAt *time.Time
	OfficeStamped    bool
}

// NewExportRow flattens one record into an ExportRow.
func NewExportRow(r TripRecord) ExportRow {
	row := ExportRow{
		TripID:       r.ID,
		ReceiptNo:    r.ReceiptNo,
		Date:         r.Date,
		Company:      r.Company,
		Terminal:     r.Terminal,
		DropOffPoint: r.DropOffPoint,
		CarNoPlate:   r.CarNoPlate,
		DriverName:   r.DriverName,
		TankCapacity: r.TankCapacity,
		Distance:     r.Distance,
		Mileage:      r.Mileage,
		Fee:          r.Fee,
	}
	if r.ParentTripID != nil {
		row.ParentTripID = strconv.FormatInt(*r.ParentTripID, 10)
	}
	if s, ok := r.Step(ReceiptGarage); ok {
		row.GarageReceivedBy = s.ReceivedBy
		row.GarageReceivedAt = optionalTime(s.ReceivedAt)
		row.GarageStamped = s.Stamped
	}
	if s, ok := r.Step(ReceiptOffice); ok {
		row.OfficeReceivedBy = s.ReceivedBy
		row.OfficeReceivedAt = optionalTime(s.ReceivedAt)
		row.OfficeStamped = s.Stamped
	}
	return row
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
