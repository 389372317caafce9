// Package report writes the review workbook that accompanies a claim file:
// one row per claim with its derived codes and totals, plus a run sheet.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

const (
	ClaimsSheet = "Claims"
	RunSheet    = "Run"
)

type column struct {
	header string
	width  float64
	value  func(c model.ClaimSummary) any
}

var medicalColumns = []column{
	{"Patient ID", 14, func(c model.ClaimSummary) any { return c.PatientID }},
	{"Patient", 24, func(c model.ClaimSummary) any { return c.PatientName }},
	{"Receipt Type", 14, func(c model.ClaimSummary) any { return c.ReceiptType }},
	{"Burden", 10, func(c model.ClaimSummary) any { return c.Burden }},
	{"Instruction", 12, func(c model.ClaimSummary) any { return c.Instruction }},
	{"Visit Days", 12, func(c model.ClaimSummary) any { return c.VisitDays }},
	{"Lines", 10, func(c model.ClaimSummary) any { return c.Lines }},
	{"Points", 12, func(c model.ClaimSummary) any { return c.TotalPoints }},
	{"Amount", 14, func(c model.ClaimSummary) any { return c.TotalAmount }},
}

var careColumns = []column{
	{"Patient ID", 14, func(c model.ClaimSummary) any { return c.PatientID }},
	{"Care Level", 12, func(c model.ClaimSummary) any { return c.LevelCode }},
	{"Public Category", 16, func(c model.ClaimSummary) any { return c.Category }},
	{"Lines", 10, func(c model.ClaimSummary) any { return c.Lines }},
	{"Units", 12, func(c model.ClaimSummary) any { return c.TotalPoints }},
	{"Amount", 14, func(c model.ClaimSummary) any { return c.TotalAmount }},
	{"Insurance", 14, func(c model.ClaimSummary) any { return c.InsuranceClaim }},
	{"Public", 14, func(c model.ClaimSummary) any { return c.PublicClaim }},
	{"User Burden", 14, func(c model.ClaimSummary) any { return c.UserBurden }},
}

// totalled names the numeric headers summed on the totals row.
var totalled = map[string]bool{
	"Visit Days": true, "Lines": true, "Points": true, "Units": true,
	"Amount": true, "Insurance": true, "Public": true, "User Burden": true,
}

func columnsFor(kind string) []column {
	if kind == "care" {
		return careColumns
	}
	return medicalColumns
}

// WriteWorkbook saves the review workbook for an export run to path.
func WriteWorkbook(path string, s *model.ExportSummary) error {
	f, err := Build(s)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return f.Close()
}

// Build lays out the workbook in memory. The caller owns the returned file
// and must Close it.
func Build(s *model.ExportSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(ClaimsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 2}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := writeClaims(f, columnsFor(s.Kind), s.Claims, headerStyle, totalStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRun(f, s, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeClaims(f *excelize.File, cols []column, claims []model.ClaimSummary, headerStyle, totalStyle int) error {
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(ClaimsSheet, cell, col.header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(ClaimsSheet, name, name, col.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(ClaimsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for r, c := range claims {
		row := r + 2
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(ClaimsSheet, cell, col.value(c)); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	totalRow := len(claims) + 2
	if err := f.SetCellValue(ClaimsSheet, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return fmt.Errorf("set total label: %w", err)
	}
	for i, col := range cols {
		if !totalled[col.header] {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, totalRow)
		if err != nil {
			return fmt.Errorf("total cell: %w", err)
		}
		if err := f.SetCellValue(ClaimsSheet, cell, columnSum(claims, col)); err != nil {
			return fmt.Errorf("set total %s: %w", cell, err)
		}
	}
	lastTotal, _ := excelize.CoordinatesToCellName(len(cols), totalRow)
	if err := f.SetCellStyle(ClaimsSheet, fmt.Sprintf("A%d", totalRow), lastTotal, totalStyle); err != nil {
		return fmt.Errorf("set total style: %w", err)
	}

	return f.SetPanes(ClaimsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func columnSum(claims []model.ClaimSummary, col column) int64 {
	var sum int64
	for _, c := range claims {
		switch v := col.value(c).(type) {
		case int:
			sum += int64(v)
		case int64:
			sum += v
		}
	}
	return sum
}

func writeRun(f *excelize.File, s *model.ExportSummary, headerStyle int) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	rows := [][]any{
		{"Field", "Value"},
		{"Kind", s.Kind},
		{"Input", s.InputPath},
		{"Input SHA-256", s.InputSHA256},
		{"Output", s.OutputPath},
		{"Output SHA-256", s.OutputSHA256},
		{"Export ID", s.ExportID},
		{"Claims", s.ClaimsEncoded},
		{"Lines", s.LinesEmitted},
		{"Bytes", s.BytesWritten},
		{"Points", s.TotalPoints},
		{"Amount", s.TotalAmount},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(RunSheet, cell, &r); err != nil {
			return fmt.Errorf("set run row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(RunSheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("set run header style: %w", err)
	}
	if err := f.SetColWidth(RunSheet, "A", "A", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.SetColWidth(RunSheet, "B", "B", 70)
}
