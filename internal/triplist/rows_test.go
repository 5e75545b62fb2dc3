package triplist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/triplist"
)

func kinds(rows []domain.Row) []domain.RowKind {
	out := make([]domain.RowKind, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Kind)
	}
	return out
}

func TestListRows_CollapsedParent(t *testing.T) {
	a := record(1, "2024-01-01", i64(5))
	a.DropOffPoint = "Giza"
	b := record(2, "2024-01-01", i64(5))
	b.DropOffPoint = "Helwan"
	groups := []domain.TripGroup{
		domain.NewParentGroup(5, []domain.TripRecord{a, b}),
		domain.NewStandaloneGroup(record(3, "2024-01-01", nil)),
	}

	rows := triplist.ListRows(groups, nil)

	assert.Equal(t, []domain.RowKind{domain.RowParent, domain.RowStandalone}, kinds(rows))
	require.NotNil(t, rows[0].ParentSummary)
	assert.Equal(t, 2, rows[0].ParentSummary.Containers)
	assert.Equal(t, []string{"Giza", "Helwan"}, rows[0].ParentSummary.DropOffPoints)
	assert.False(t, rows[0].Expanded)
	assert.Equal(t, int64(1), rows[0].Record.ID)
}

func TestListRows_ExpandedParent(t *testing.T) {
	groups := []domain.TripGroup{
		domain.NewParentGroup(5, []domain.TripRecord{record(1, "", i64(5)), record(2, "", i64(5))}),
	}

	rows := triplist.ListRows(groups, map[int64]bool{5: true})

	assert.Equal(t, []domain.RowKind{domain.RowParent, domain.RowContainer, domain.RowContainer}, kinds(rows))
	assert.True(t, rows[0].Expanded)
	assert.Equal(t, int64(5), rows[1].ParentID)
	assert.Equal(t, int64(2), rows[2].Record.ID)
}

func TestListRows_SingleContainerStillExpandable(t *testing.T) {
	groups := []domain.TripGroup{domain.NewParentGroup(8, []domain.TripRecord{record(1, "", i64(8))})}

	rows := triplist.ListRows(groups, map[int64]bool{8: true})

	assert.Equal(t, []domain.RowKind{domain.RowParent, domain.RowContainer}, kinds(rows))
}

func TestTableRows(t *testing.T) {
	records := []domain.TripRecord{
		record(1, "", nil),
		record(2, "", i64(4)),
	}

	rows := triplist.TableRows(records)

	assert.Equal(t, []domain.RowKind{domain.RowStandalone, domain.RowContainer}, kinds(rows))
	assert.Equal(t, int64(4), rows[1].ParentID)
}
