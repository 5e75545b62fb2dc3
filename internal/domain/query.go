package domain

import (
	"fmt"
	"strings"
)

// SortKey names a sortable TripRecord field. The zero value means "no sort":
// records keep the order the backend returned them in.
type SortKey string

const (
	SortNone         SortKey = ""
	SortID           SortKey = "id"
	SortReceiptNo    SortKey = "receipt_no"
	SortDate         SortKey = "date"
	SortCompany      SortKey = "company"
	SortTerminal     SortKey = "terminal"
	SortDropOffPoint SortKey = "drop_off_point"
	SortCarNoPlate   SortKey = "car_no_plate"
	SortDriverName   SortKey = "driver_name"
	SortTankCapacity SortKey = "tank_capacity"
	SortDistance     SortKey = "distance"
	SortMileage      SortKey = "mileage"
	SortFee          SortKey = "fee"
)

var sortKeys = map[SortKey]struct{}{
	SortID: {}, SortReceiptNo: {}, SortDate: {}, SortCompany: {},
	SortTerminal: {}, SortDropOffPoint: {}, SortCarNoPlate: {},
	SortDriverName: {}, SortTankCapacity: {}, SortDistance: {},
	SortMileage: {}, SortFee: {},
}

// ParseSortKey validates s as a sort key. An empty string yields SortNone.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	if k == SortNone {
		return SortNone, nil
	}
	if _, ok := sortKeys[k]; !ok {
		return SortNone, fmt.Errorf("%w: unknown sort key %q", ErrValidation, s)
	}
	return k, nil
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is the single active sort of a view. It is replaced wholesale on
// every user sort action.
type SortSpec struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle returns the sort that results from the user clicking key: the
// active key flips direction, any other key starts ascending.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if key == s.Key && key != SortNone {
		if s.Direction == Descending {
			return SortSpec{Key: key, Direction: Ascending}
		}
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// FilterSpec is the full set of list filters. It is always sent to the
// backend in full; a change to any field triggers a new fetch.
// StartDate and EndDate are "2006-01-02" strings and only take effect as a pair.
type FilterSpec struct {
	Company   string `json:"company,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Search    string `json:"search,omitempty"`
}

// HasDateRange reports whether both ends of the date range are present.
func (f FilterSpec) HasDateRange() bool {
	return strings.TrimSpace(f.StartDate) != "" && strings.TrimSpace(f.EndDate) != ""
}
