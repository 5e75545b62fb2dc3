package triplist

import (
	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// ListRows turns ordered groups into presenter rows for the list view.
// A parent group yields one RowParent line, followed by one RowContainer per
// container when its ParentID is in expanded.
func ListRows(groups []domain.TripGroup, expanded map[int64]bool) []domain.Row {
	rows := make([]domain.Row, 0, len(groups))
	for _, g := range groups {
		switch g.Kind {
		case domain.GroupStandalone:
			if g.Record != nil {
				rows = append(rows, domain.Row{Kind: domain.RowStandalone, Record: *g.Record})
			}
		case domain.GroupParent:
			rep, ok := g.Representative()
			if !ok {
				continue
			}
			open := expanded[g.ParentID]
			rows = append(rows, domain.Row{
				Kind:          domain.RowParent,
				Record:        rep,
				ParentID:      g.ParentID,
				Expanded:      open,
				ParentSummary: summarize(g.Containers),
			})
			if !open {
				continue
			}
			for _, c := range g.Containers {
				rows = append(rows, domain.Row{Kind: domain.RowContainer, Record: c, ParentID: g.ParentID})
			}
		}
	}
	return rows
}

// TableRows turns ordered flat records into table rows: one row per record,
// containers tagged with their parent id.
func TableRows(records []domain.TripRecord) []domain.Row {
	rows := make([]domain.Row, 0, len(records))
	for _, r := range records {
		if r.ParentTripID != nil {
			rows = append(rows, domain.Row{Kind: domain.RowContainer, Record: r, ParentID: *r.ParentTripID})
			continue
		}
		rows = append(rows, domain.Row{Kind: domain.RowStandalone, Record: r})
	}
	return rows
}

func summarize(containers []domain.TripRecord) *domain.ParentSummary {
	s := &domain.ParentSummary{
		Containers:    len(containers),
		DropOffPoints: make([]string, 0, len(containers)),
		ReceiptNos:    make([]string, 0, len(containers)),
	}
	for _, c := range containers {
		s.DropOffPoints = append(s.DropOffPoints, c.DropOffPoint)
		s.ReceiptNos = append(s.ReceiptNos, c.ReceiptNo)
	}
	return s
}
