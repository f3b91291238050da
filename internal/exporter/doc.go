// Package exporter writes analysis results for the mpox pipeline.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with optional UTF-8 BOM for Excel
// compatibility. It creates the parent directory of the file it writes.
//
// TableWriter: Persists a domain.Table in the dataset's CSV format. Missing
// values are empty fields, floats use the shortest exact representation and
// months are written as "Jan 2023", so the file reads back unchanged.
//
// WorkbookWriter: Writes descriptive statistics, region totals, the most
// recent updates and both top-10 rankings to an Excel workbook.
//
// ConsoleReporter: Prints the same results as text tables.
//
// Example usage:
//
//	writer := exporter.NewTableWriter()
//	err := writer.WriteTable(ctx, "output/mpox_data_analysis.csv", enriched)
//
//	err = exporter.NewWorkbookWriter().WriteSummary(ctx, "output/mpox_summary.xlsx", summary)
//
//	exporter.NewConsoleReporter(os.Stdout).Report(summary)
package exporter
