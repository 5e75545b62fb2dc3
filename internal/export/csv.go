package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// WriteCSV writes a header line with the column keys followed by one line
// per row. Missing values are empty fields.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}

	record := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			record[i] = csvField(c.value(r))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export.WriteCSV: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	return nil
}

func csvField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return escapeFormula(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// escapeFormula prefixes text that a spreadsheet would evaluate as a formula
// with a single quote so it opens as literal text.
func escapeFormula(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
