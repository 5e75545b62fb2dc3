package handler_test

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportView_csv_flattensGroupsInDisplayOrder(t *testing.T) {
	h, _ := newHTTPHandler(t, deps{trips: pagedRepo(tripPage())})
	v := createView(t, h, nil)
	sorted := do(h, http.MethodPost, "/views/"+v.ID.String()+"/sort", jsonBody(t, map[string]string{"key": "company"}))
	require.Equal(t, http.StatusOK, sorted.Code)

	rec := do(h, http.MethodGet, "/views/"+v.ID.String()+"/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="trips_\d{8}_\d{6}\.csv"$`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))

	lines, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4, "header plus three records")
	assert.Equal(t, "trip_id", lines[0][0])
	assert.Equal(t, []string{"1", "8", "9"}, []string{lines[1][0], lines[2][0], lines[3][0]})
	assert.Equal(t, "7", lines[2][1], "containers carry their parent id")
}

func TestExportView_defaultsToXLSX(t *testing.T) {
	h, _ := newHTTPHandler(t, deps{trips: pagedRepo(tripPage())})
	v := createView(t, h, nil)

	rec := do(h, http.MethodGet, "/views/"+v.ID.String()+"/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	assert.Equal(t, []string{"Trips", "Companies"}, f.GetSheetList())
}

func TestExportView_unknownFormat_returns422(t *testing.T) {
	h, _ := newHTTPHandler(t, deps{trips: pagedRepo(tripPage())})
	v := createView(t, h, nil)

	rec := do(h, http.MethodGet, "/views/"+v.ID.String()+"/export?format=pdf", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}
