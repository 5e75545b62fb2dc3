// Package domain contains the core data types for the fleet dashboard.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, triplist, listview, service, handler).
package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by the backend for trip dates
// and date-range filters.
const DateLayout = "2006-01-02"

// ReceiptLocation identifies where a paper receipt was handed in.
type ReceiptLocation string

const (
	ReceiptGarage ReceiptLocation = "Garage"
	ReceiptOffice ReceiptLocation = "Office"
)

// ReceiptStep is one hand-off event in a trip receipt's lifecycle.
// A trip carries zero, one, or two steps (garage, office, both, or neither).
type ReceiptStep struct {
	Location   ReceiptLocation `json:"location"`
	ReceivedBy string          `json:"received_by"`
	ReceivedAt time.Time       `json:"received_at"`
	Stamped    bool            `json:"stamped"`
}

// TripRecord is one row returned by the backend trip list/search endpoints.
//
// ParentTripID is set only on containers of a multi-container trip. All
// containers that share a ParentTripID also share Date, Company, Terminal,
// CarNoPlate and DriverName; the remaining fields vary per container.
//
// Date is kept as the raw backend string so malformed or missing dates can be
// passed through untouched. Numeric fields are pointers: nil means the backend
// did not send a value, which is distinct from zero.
type TripRecord struct {
	ID           int64         `json:"id"`
	ParentTripID *int64        `json:"parent_trip_id,omitempty"`
	ReceiptNo    string        `json:"receipt_no"`
	Date         string        `json:"date"`
	Company      string        `json:"company"`
	Terminal     string        `json:"terminal"`
	DropOffPoint string        `json:"drop_off_point"`
	CarNoPlate   string        `json:"car_no_plate"`
	DriverName   string        `json:"driver_name"`
	TankCapacity *float64      `json:"tank_capacity,omitempty"`
	Distance     *float64      `json:"distance,omitempty"`
	Mileage      *float64      `json:"mileage,omitempty"`
	Fee          *float64      `json:"fee,omitempty"`
	ReceiptSteps []ReceiptStep `json:"receipt_steps,omitempty"`
}

// IsContainer reports whether the record belongs to a multi-container trip.
func (t TripRecord) IsContainer() bool {
	return t.ParentTripID != nil
}

// ParsedDate parses Date as a calendar date. It accepts the plain
// "2006-01-02" form as well as RFC 3339 timestamps, which some backend
// versions send for the same column. ok is false for empty or malformed input.
func (t TripRecord) ParsedDate() (time.Time, bool) {
	s := strings.TrimSpace(t.Date)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// Step returns the receipt step recorded at loc, if any.
func (t TripRecord) Step(loc ReceiptLocation) (ReceiptStep, bool) {
	for _, s := range t.ReceiptSteps {
		if s.Location == loc {
			return s, true
		}
	}
	return ReceiptStep{}, false
}

// TripPage is one page of trip records as returned by the backend.
// Pages is the backend's total page count and is the only value callers may
// use to decide whether further pages exist.
type TripPage struct {
	Records []TripRecord
	Page    int
	Limit   int
	Pages   int
	Total   int64
}
