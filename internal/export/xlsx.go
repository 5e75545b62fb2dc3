package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

const (
	tripsSheet     = "Trips"
	companiesSheet = "Companies"
)

// WriteXLSX writes a workbook with two sheets.
//
// "Trips" holds one line per row plus a TOTAL line summing tank capacity and
// distance. "Companies" lists each company once, in first-seen order, with
// COUNTIF/SUMIF formulas over the Trips sheet. Trips is the active sheet.
// Fees are exported per row but never totalled.
func WriteXLSX(w io.Writer, rows []domain.ExportRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export.WriteXLSX: close: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", tripsSheet); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	if err := writeTrips(f, st, rows); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	if err := writeCompanies(f, st, rows); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	idx, err := f.GetSheetIndex(tripsSheet)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: write: %w", err)
	}
	return nil
}

type styles struct {
	header int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return styles{}, fmt.Errorf("header style: %w", err)
	}
	total, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return styles{}, fmt.Errorf("total style: %w", err)
	}
	return styles{header: header, total: total}, nil
}

func writeTrips(f *excelize.File, st styles, rows []domain.ExportRow) error {
	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(tripsSheet, cell, c.title); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(tripsSheet, name, name, c.width); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(tripsSheet, "A1", last, st.header); err != nil {
		return err
	}

	for i, r := range rows {
		line := i + 2 // line 1 is the header
		for j, c := range columns {
			v := c.value(r)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(tripsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(rows) == 0 {
		return nil
	}
	totalLine := len(rows) + 2
	if err := f.SetCellValue(tripsSheet, fmt.Sprintf("A%d", totalLine), "TOTAL"); err != nil {
		return err
	}
	for _, col := range []int{colTankCapacity, colDistance} {
		name, _ := excelize.ColumnNumberToName(col)
		formula := fmt.Sprintf("SUM(%[1]s2:%[1]s%[2]d)", name, totalLine-1)
		if err := f.SetCellFormula(tripsSheet, fmt.Sprintf("%s%d", name, totalLine), formula); err != nil {
			return err
		}
	}
	lastTotal, _ := excelize.CoordinatesToCellName(len(columns), totalLine)
	return f.SetCellStyle(tripsSheet, fmt.Sprintf("A%d", totalLine), lastTotal, st.total)
}

func writeCompanies(f *excelize.File, st styles, rows []domain.ExportRow) error {
	if _, err := f.NewSheet(companiesSheet); err != nil {
		return err
	}

	headers := []string{"Company", "Trips", "Tank Capacity", "Distance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(companiesSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(companiesSheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(companiesSheet, "B", "D", 15); err != nil {
		return err
	}
	if err := f.SetCellStyle(companiesSheet, "A1", "D1", st.header); err != nil {
		return err
	}

	companies := distinctCompanies(rows)
	end := len(rows) + 1 // last data line on the Trips sheet
	companyCol, _ := excelize.ColumnNumberToName(colCompany)
	tankCol, _ := excelize.ColumnNumberToName(colTankCapacity)
	distCol, _ := excelize.ColumnNumberToName(colDistance)
	companyRange := fmt.Sprintf("%s!$%s$2:$%s$%d", tripsSheet, companyCol, companyCol, end)

	for i, company := range companies {
		line := i + 2
		if err := f.SetCellValue(companiesSheet, fmt.Sprintf("A%d", line), company); err != nil {
			return err
		}
		formulas := map[string]string{
			"B": fmt.Sprintf("COUNTIF(%s,A%d)", companyRange, line),
			"C": fmt.Sprintf("SUMIF(%s,A%d,%s!$%s$2:$%s$%d)", companyRange, line, tripsSheet, tankCol, tankCol, end),
			"D": fmt.Sprintf("SUMIF(%s,A%d,%s!$%s$2:$%s$%d)", companyRange, line, tripsSheet, distCol, distCol, end),
		}
		for col, formula := range formulas {
			if err := f.SetCellFormula(companiesSheet, fmt.Sprintf("%s%d", col, line), formula); err != nil {
				return err
			}
		}
	}

	if len(companies) == 0 {
		return nil
	}
	totalLine := len(companies) + 2
	if err := f.SetCellValue(companiesSheet, fmt.Sprintf("A%d", totalLine), "TOTAL"); err != nil {
		return err
	}
	for _, col := range []string{"B", "C", "D"} {
		formula := fmt.Sprintf("SUM(%[1]s2:%[1]s%[2]d)", col, totalLine-1)
		if err := f.SetCellFormula(companiesSheet, fmt.Sprintf("%s%d", col, totalLine), formula); err != nil {
			return err
		}
	}
	return f.SetCellStyle(companiesSheet, fmt.Sprintf("A%d", totalLine), fmt.Sprintf("D%d", totalLine), st.total)
}

// distinctCompanies returns non-empty company names in first-seen order.
func distinctCompanies(rows []domain.ExportRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if r.Company == "" || seen[r.Company] {
			continue
		}
		seen[r.Company] = true
		out = append(out, r.Company)
	}
	return out
}
