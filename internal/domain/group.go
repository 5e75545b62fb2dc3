package domain

// GroupKind discriminates the two TripGroup variants.
type GroupKind string

const (
	GroupStandalone GroupKind = "standalone"
	GroupParent     GroupKind = "parent"
)

// TripGroup is either a standalone record or all containers of one
// multi-container trip. Groups are derived from a fetched page and are never
// persisted or mutated after construction.
//
// For GroupStandalone only Record is set. For GroupParent only ParentID and
// Containers are set; Containers keep the order they arrived in.
type TripGroup struct {
	Kind       GroupKind    `json:"kind"`
	Record     *TripRecord  `json:"record,omitempty"`
	ParentID   int64        `json:"parent_id,omitempty"`
	Containers []TripRecord `json:"containers,omitempty"`
}

// NewStandaloneGroup wraps a single record without a parent.
func NewStandaloneGroup(r TripRecord) TripGroup {
	return TripGroup{Kind: GroupStandalone, Record: &r}
}

// NewParentGroup builds a parent group. The containers slice is copied.
func NewParentGroup(parentID int64, containers []TripRecord) TripGroup {
	cs := make([]TripRecord, len(containers))
	copy(cs, containers)
	return TripGroup{Kind: GroupParent, ParentID: parentID, Containers: cs}
}

// Representative returns the record whose fields stand for the whole group
// when comparing or displaying groups: the record itself, or the first
// container. ok is false for an empty parent group.
func (g TripGroup) Representative() (TripRecord, bool) {
	switch g.Kind {
	case GroupStandalone:
		if g.Record == nil {
			return TripRecord{}, false
		}
		return *g.Record, true
	case GroupParent:
		if len(g.Containers) == 0 {
			return TripRecord{}, false
		}
		return g.Containers[0], true
	}
	return TripRecord{}, false
}

// Records returns the group's records in display order.
func (g TripGroup) Records() []TripRecord {
	switch g.Kind {
	case GroupStandalone:
		if g.Record == nil {
			return nil
		}
		return []TripRecord{*g.Record}
	case GroupParent:
		out := make([]TripRecord, len(g.Containers))
		copy(out, g.Containers)
		return out
	}
	return nil
}

// RowKind discriminates the row variants a presenter renders.
type RowKind string

const (
	// RowStandalone is a trip without containers.
	RowStandalone RowKind = "standalone"
	// RowParent is the summary line of a multi-container trip.
	RowParent RowKind = "parent"
	// RowContainer is one container of a multi-container trip.
	RowContainer RowKind = "container"
)

// Row is one presenter line. Record carries the standalone record, the
// container, or (for parent rows) the representative container.
// ParentSummary is set only on RowParent.
type Row struct {
	Kind          RowKind        `json:"kind"`
	Record        TripRecord     `json:"record"`
	ParentID      int64          `json:"parent_id,omitempty"`
	Expanded      bool           `json:"expanded,omitempty"`
	ParentSummary *ParentSummary `json:"parent_summary,omitempty"`
}

// ParentSummary describes a multi-container trip on its parent row.
// It only counts and joins what was fetched; figures are not aggregated.
type ParentSummary struct {
	Containers    int      `json:"containers"`
	DropOffPoints []string `json:"drop_off_points"`
	ReceiptNos    []string `json:"receipt_nos"`
}
