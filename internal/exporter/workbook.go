package exporter

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"mpoxcli/internal/dataprocessing"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary    = "Summary"
	SheetRegions    = "Regions"
	SheetMostRecent = "Most Recent"
	SheetTopCases   = "Top Cases"
	SheetTopDeaths  = "Top Deaths"
)

// WorkbookWriter writes the analysis results to an Excel workbook
type WorkbookWriter struct{}

// NewWorkbookWriter creates a WorkbookWriter
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// WriteSummary writes one sheet per analysis result to path, replacing any existing file
func (w *WorkbookWriter) WriteSummary(ctx context.Context, path string, summary AnalysisSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return apperrors.NewIOError("failed to name summary sheet", path, err)
	}

	header, grid := statisticsGrid(summary.Statistics)
	if err := writeSheet(f, SheetSummary, header, statisticsCells(summary.Statistics, grid)); err != nil {
		return apperrors.NewIOError("failed to write summary sheet", path, err)
	}

	regionHeader := []string{"who_region", "countries", "case_total", "death_total", "cases_past_month", "cases_month_before"}
	regionRows := make([][]interface{}, len(summary.Regions))
	for i, r := range summary.Regions {
		regionRows[i] = []interface{}{
			r.Region,
			r.Countries,
			r.CaseTotal,
			r.DeathTotal,
			r.CasesPastMonth,
			r.CasesMonthBefore,
		}
	}

	sheets := []sheetData{{SheetRegions, regionHeader, regionRows}}
	for _, t := range []struct {
		name    string
		table   domain.Table
		columns []domain.Column
	}{
		{SheetMostRecent, summary.MostRecent, []domain.Column{domain.ColumnCountry, domain.ColumnCaseTotal, domain.ColumnDeathTotal, domain.ColumnLastReported}},
		{SheetTopCases, summary.TopCases, []domain.Column{domain.ColumnCountry, domain.ColumnCaseTotal}},
		{SheetTopDeaths, summary.TopDeaths, []domain.Column{domain.ColumnCountry, domain.ColumnDeathTotal}},
	} {
		sheet, err := tableSheet(t.name, t.table, t.columns...)
		if err != nil {
			return err
		}
		sheets = append(sheets, sheet)
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return apperrors.NewIOError("failed to create sheet", path, err).WithContext("sheet", sheet.name)
		}
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return apperrors.NewIOError("failed to write sheet", path, err).WithContext("sheet", sheet.name)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewIOError("failed to create output directory", dir, err)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewIOError("failed to save workbook", path, err)
	}

	slog.InfoContext(ctx, "Summary workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)+1))

	return nil
}

// sheetData is the content of one worksheet
type sheetData struct {
	name   string
	header []string
	rows   [][]interface{}
}

// tableSheet projects table onto columns, formatted as in the CSV output.
// Only numeric columns become number cells.
func tableSheet(name string, table domain.Table, columns ...domain.Column) (sheetData, error) {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = string(col)
	}

	rows := make([][]interface{}, 0, table.Len())
	for _, rec := range table.Records {
		row, err := FormatRecord(rec, columns)
		if err != nil {
			return sheetData{}, err
		}
		cells := make([]interface{}, len(row))
		for i, value := range row {
			if columns[i].IsNumeric() {
				cells[i] = numericCell(value)
			} else {
				cells[i] = value
			}
		}
		rows = append(rows, cells)
	}

	return sheetData{name: name, header: header, rows: rows}, nil
}

// statisticsCells types the statistics grid. Counts and the numeric
// statistics of numeric columns become numbers; top values stay text.
func statisticsCells(stats []dataprocessing.ColumnSummary, grid [][]string) [][]interface{} {
	rows := make([][]interface{}, len(grid))
	for r, row := range grid {
		name := row[0]
		cells := make([]interface{}, len(row))
		cells[0] = name
		for c := 1; c < len(row); c++ {
			if isNumericStatistic(stats[c-1], name) {
				cells[c] = numericCell(row[c])
			} else {
				cells[c] = row[c]
			}
		}
		rows[r] = cells
	}
	return rows
}

func isNumericStatistic(s dataprocessing.ColumnSummary, name string) bool {
	switch name {
	case "count", "unique", "freq":
		return true
	case "mean", "std", "min", "25%", "50%", "75%", "max":
		return s.Kind == dataprocessing.SummaryNumeric
	}
	return false
}

// writeSheet writes header in row 1 and rows below it
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, 18); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// numericCell stores formatted numbers as numbers so spreadsheet formulas
// work on them. Empty and NaN stay text.
func numericCell(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
