package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Excel renders data as an .xlsx workbook with one sheet.
func Excel(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := data.Project
	if sheet == "" {
		sheet = "BOQ"
	}
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("export: set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	widths := []float64{6, 32, 60, 14, 18}
	lastCol := columns[len(columns)-1]
	for i, col := range columns {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("export: set col width %s: %w", col, err)
		}
	}

	// ── Styles ──

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("export: title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("export: subtitle style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("export: cell style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: ptr("#,##0"),
	})
	if err != nil {
		return nil, fmt.Errorf("export: amount style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: ptr("#,##0"),
	})
	if err != nil {
		return nil, fmt.Errorf("export: total style: %w", err)
	}

	// ── Header rows ──

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("export: merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeCell(data.Title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	f.SetCellValue(sheet, "A2", sanitizeCell(fmt.Sprintf("Project: %s (%s)", data.Project, data.Location)))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Date: %s   Currency: %s", data.CreatedDate, data.Currency.Code))
	f.SetCellStyle(sheet, "A2", "A3", subtitleStyle)

	headers := []string{"#", "Item", "Specification", "Tool", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheet, columns[i]+"5", h)
	}
	f.SetCellStyle(sheet, "A5", lastCol+"5", headerStyle)

	// ── Data rows ──

	row := 6
	for _, r := range data.Rows {
		n := fmt.Sprint(row)
		f.SetCellValue(sheet, "A"+n, r.Index)
		f.SetCellValue(sheet, "B"+n, sanitizeCell(r.Name))
		f.SetCellValue(sheet, "C"+n, sanitizeCell(r.Detail))
		f.SetCellValue(sheet, "D"+n, sanitizeCell(r.Tool))
		f.SetCellValue(sheet, "E"+n, r.Amount)
		f.SetCellStyle(sheet, "A"+n, "D"+n, cellStyle)
		f.SetCellStyle(sheet, "E"+n, "E"+n, amountStyle)
		row++
	}

	// ── Total ──

	row++
	n := fmt.Sprint(row)
	f.SetCellValue(sheet, "D"+n, "Grand Total ("+data.Currency.Code+"):")
	f.SetCellValue(sheet, "E"+n, data.Total)
	f.SetCellStyle(sheet, "D"+n, "E"+n, totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeCell neutralizes a leading character Excel would treat as the
// start of a formula.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}

func ptr[T any](v T) *T { return &v }
