// Package dataprocessing turns the mpox CSV dataset into typed tables and
// computes the analysis results derived from them.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: reads CSV files and checks the header against the expected columns
// 2. Cleaner: converts cells into typed records with explicit missing values
// 3. Analytics: descriptive statistics, region totals and record rankings
// 4. Derive: the percentage change in cases between the last two months
//
// # Usage
//
//	raw, err := dataprocessing.LoadCSV(ctx, "data/mpox_data.csv", domain.RawColumns)
//	if err != nil {
//	    return err
//	}
//	table, err := dataprocessing.Clean(ctx, raw)
//	if err != nil {
//	    return err
//	}
//	regions := dataprocessing.AggregateByRegion(table)
//	topCases, _ := dataprocessing.TopN(table, domain.ColumnCaseTotal, 10)
//	enriched, stats := dataprocessing.CalculatePercentChange(ctx, table)
//
// # Data Flow
//
//	CSV File → Parser → RawTable → Cleaner → Table → Analytics / Derive → Table
//
// Every function returns a new Table and leaves its input untouched.
//
// # Error Handling
//
// Failures are *errors.AppError values:
//
//   - IO errors when the input file cannot be opened
//   - Parsing errors carrying the line and column of the offending cell
//   - Validation errors when ranking by a non-numeric column
//   - Computation errors from PercentChange for a zero denominator
package dataprocessing
