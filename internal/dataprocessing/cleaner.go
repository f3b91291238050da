package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"mpoxcli/internal/config"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// Clean converts a RawTable into a typed Table.
// "NA" and empty cells become missing values. Any other unparseable,
// negative or duplicate value is a parsing error naming the line and column.
func Clean(ctx context.Context, raw *RawTable) (domain.Table, error) {
	if raw == nil {
		return domain.Table{}, apperrors.NewAppValidationError("no table to clean")
	}

	records := make([]domain.Record, 0, len(raw.Rows))
	seen := make(map[string]int, len(raw.Rows))
	missing := 0

	for _, row := range raw.Rows {
		rec, nMissing, err := cleanRow(row, raw.Columns)
		if err != nil {
			return domain.Table{}, err.WithPath(raw.Path)
		}

		if first, dup := seen[rec.Country]; dup {
			return domain.Table{}, apperrors.NewParsingError(
				fmt.Sprintf("duplicate country %q (first seen on line %d)", rec.Country, first), nil).
				WithContext("line", row.Line).
				WithPath(raw.Path)
		}
		seen[rec.Country] = row.Line

		missing += nMissing
		records = append(records, rec)
	}

	slog.DebugContext(ctx, "Cleaned table",
		slog.Int("records", len(records)),
		slog.Int("missing_values", missing))

	return domain.NewTable(raw.Columns, records), nil
}

// cleanRow converts one row; it returns the record and its missing-value count
func cleanRow(row RawRow, columns []domain.Column) (domain.Record, int, *apperrors.AppError) {
	var rec domain.Record
	missing := 0

	for _, col := range columns {
		cell, _ := row.Get(col)
		value := strings.TrimSpace(cell)
		if isMissing(value) {
			missing++
		}

		fail := func(reason string, cause error) *apperrors.AppError {
			return apperrors.NewParsingError(
				fmt.Sprintf("invalid %s value %q: %s", col, cell, reason), cause).
				WithContext("line", row.Line).
				WithContext("column", string(col))
		}

		switch {
		case col == domain.ColumnCountry:
			if isMissing(value) {
				return rec, 0, fail("country is required", nil)
			}
			rec.Country = value

		case col == domain.ColumnWHORegion:
			if !isMissing(value) {
				rec.WHORegion = value
			}

		case col.IsCount():
			n, err := parseCount(value)
			if err != nil {
				return rec, 0, fail(err.Error(), nil)
			}
			setCount(&rec, col, n)

		case col == domain.ColumnLastReported:
			if isMissing(value) {
				continue
			}
			m, err := domain.ParseMonth(value)
			if err != nil {
				return rec, 0, fail("expected month like \"Jan 2023\"", err)
			}
			rec.LastReported = domain.MonthValue(m)

		case col == domain.ColumnPercChangeCases:
			f, err := parseFloat(value)
			if err != nil {
				return rec, 0, fail("not a number", err)
			}
			rec.PercChangeCases = f
		}
	}

	return rec, missing, nil
}

func isMissing(value string) bool {
	return value == "" || value == config.MissingValueToken
}

// parseCount parses a non-negative integer. Integral float text such as
// "12.0" is accepted since tabular tools write integer columns that way once
// they contain missing values.
func parseCount(value string) (domain.NullInt, error) {
	if isMissing(value) {
		return domain.NullInt{}, nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return domain.NullInt{}, fmt.Errorf("not an integer")
		}
		n = int64(f)
	}

	if n < 0 {
		return domain.NullInt{}, fmt.Errorf("must not be negative")
	}
	return domain.IntOf(n), nil
}

// parseFloat parses a ratio; NaN and infinities are treated as missing
func parseFloat(value string) (domain.NullFloat, error) {
	if isMissing(value) {
		return domain.NullFloat{}, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return domain.NullFloat{}, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.NullFloat{}, nil
	}
	return domain.FloatOf(f), nil
}

func setCount(rec *domain.Record, col domain.Column, v domain.NullInt) {
	switch col {
	case domain.ColumnCaseTotal:
		rec.CaseTotal = v
	case domain.ColumnDeathTotal:
		rec.DeathTotal = v
	case domain.ColumnCasesPastMonth:
		rec.CasesPastMonth = v
	case domain.ColumnCasesMonthBefore:
		rec.CasesMonthBefore = v
	}
}
