package triplist

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// Sorter orders records or groups by one SortSpec.
// String fields are compared case-insensitively with the collation rules of
// the configured language.
type Sorter struct {
	lang language.Tag
}

// NewSorter returns a Sorter that collates strings for lang.
func NewSorter(lang language.Tag) *Sorter {
	return &Sorter{lang: lang}
}

var defaultSorter = NewSorter(language.Und)

// SortRecords sorts with the root collation. See Sorter.Records.
func SortRecords(records []domain.TripRecord, by domain.SortSpec) []domain.TripRecord {
	return defaultSorter.Records(records, by)
}

// SortGroups sorts with the root collation. See Sorter.Groups.
func SortGroups(groups []domain.TripGroup, by domain.SortSpec) []domain.TripGroup {
	return defaultSorter.Groups(groups, by)
}

// Records returns a new slice holding records ordered by the sort.
// With an empty key the input order is kept. Records missing the sort field
// come after every record that has it, whatever the direction. The sort is
// stable.
func (s *Sorter) Records(records []domain.TripRecord, by domain.SortSpec) []domain.TripRecord {
	out := slices.Clone(records)
	if by.Key == domain.SortNone {
		return out
	}
	c := s.comparer()
	slices.SortStableFunc(out, func(a, b domain.TripRecord) int {
		return c.compare(a, b, by)
	})
	return out
}

// Groups returns a new slice holding groups ordered by the sort, comparing each
// group through its representative record. Empty parent groups count as
// missing the field.
func (s *Sorter) Groups(groups []domain.TripGroup, by domain.SortSpec) []domain.TripGroup {
	out := slices.Clone(groups)
	if by.Key == domain.SortNone {
		return out
	}
	c := s.comparer()
	slices.SortStableFunc(out, func(a, b domain.TripGroup) int {
		ra, okA := a.Representative()
		rb, okB := b.Representative()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return c.compare(ra, rb, by)
	})
	return out
}

// comparer wraps a collator. Collators are not safe for concurrent use, so
// each sort call gets its own.
type comparer struct {
	coll *collate.Collator
}

func (s *Sorter) comparer() *comparer {
	return &comparer{coll: collate.New(s.lang, collate.IgnoreCase)}
}

// compare orders a and b on the sort key. Missing values always sort last; the
// direction only flips the order of present values. Dates that do not parse
// sort after every parsed date, among themselves by raw text. Comparing a
// parsed date with raw text would not be transitive.
func (c *comparer) compare(a, b domain.TripRecord, by domain.SortSpec) int {
	va, okA := fieldOf(a, by.Key)
	vb, okB := fieldOf(b, by.Key)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}

	var r int
	switch by.Key {
	case domain.SortDate:
		da, okA := a.ParsedDate()
		db, okB := b.ParsedDate()
		switch {
		case okA && okB:
			r = da.Compare(db)
		case okA:
			return -1
		case okB:
			return 1
		default:
			r = c.coll.CompareString(va.str, vb.str)
		}
	default:
		if va.numeric {
			r = cmp.Compare(va.num, vb.num)
		} else {
			r = c.coll.CompareString(va.str, vb.str)
		}
	}

	if by.Direction == domain.Descending {
		return -r
	}
	return r
}

type fieldValue struct {
	numeric bool
	num     float64
	str     string
}

// fieldOf extracts the value of key from r. ok is false when r has no value
// for key: nil numbers, and empty or blank strings.
func fieldOf(r domain.TripRecord, key domain.SortKey) (fieldValue, bool) {
	switch key {
	case domain.SortID:
		return fieldValue{numeric: true, num: float64(r.ID)}, true
	case domain.SortTankCapacity:
		return numberField(r.TankCapacity)
	case domain.SortDistance:
		return numberField(r.Distance)
	case domain.SortMileage:
		return numberField(r.Mileage)
	case domain.SortFee:
		return numberField(r.Fee)
	case domain.SortReceiptNo:
		return stringField(r.ReceiptNo)
	case domain.SortDate:
		return stringField(r.Date)
	case domain.SortCompany:
		return stringField(r.Company)
	case domain.SortTerminal:
		return stringField(r.Terminal)
	case domain.SortDropOffPoint:
		return stringField(r.DropOffPoint)
	case domain.SortCarNoPlate:
		return stringField(r.CarNoPlate)
	case domain.SortDriverName:
		return stringField(r.DriverName)
	}
	return fieldValue{}, false
}

func numberField(v *float64) (fieldValue, bool) {
	if v == nil {
		return fieldValue{}, false
	}
	return fieldValue{numeric: true, num: *v}, true
}

func stringField(s string) (fieldValue, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fieldValue{}, false
	}
	return fieldValue{str: s}, true
}
