// Package triplist shapes one fetched page of trips for display and export:
// it groups multi-container trips, sorts records or groups by a single active
// SortSpec, and builds presenter rows.
//
// Everything here is a pure function of its inputs. Nothing is cached between
// calls and input slices are never modified.
package triplist

import (
	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// effectiveDateOrder is the display order of freshly grouped trips.
var effectiveDateOrder = domain.SortSpec{Key: domain.SortDate, Direction: domain.Descending}

// Group partitions records into standalone entries and parent groups.
//
// Every input record lands in exactly one group. Records with the same
// ParentTripID are collected into one parent group in the order they were
// encountered; a ParentTripID seen only once still yields a parent group of
// one container. The result is ordered by effective date descending (a parent
// group's effective date is its first container's date). Ties keep their
// first-encounter order.
func Group(records []domain.TripRecord) []domain.TripGroup {
	groups := make([]domain.TripGroup, 0, len(records))
	parentIndex := make(map[int64]int)

	for _, r := range records {
		if r.ParentTripID == nil {
			groups = append(groups, domain.NewStandaloneGroup(r))
			continue
		}
		pid := *r.ParentTripID
		if i, ok := parentIndex[pid]; ok {
			groups[i].Containers = append(groups[i].Containers, r)
			continue
		}
		parentIndex[pid] = len(groups)
		groups = append(groups, domain.TripGroup{
			Kind:       domain.GroupParent,
			ParentID:   pid,
			Containers: []domain.TripRecord{r},
		})
	}

	return defaultSorter.Groups(groups, effectiveDateOrder)
}

// Flatten returns the records of groups in group order. Exports consume this
// flat form, never the grouped structure.
func Flatten(groups []domain.TripGroup) []domain.TripRecord {
	n := 0
	for _, g := range groups {
		n += len(g.Containers)
		if g.Record != nil {
			n++
		}
	}
	out := make([]domain.TripRecord, 0, n)
	for _, g := range groups {
		out = append(out, g.Records()...)
	}
	return out
}
