package exporter

import (
	"fmt"
	"strconv"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// formatFloat formats a float64 with the fewest digits that read back exactly
func formatFloat(v domain.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}

// formatInt formats an integer count
func formatInt(v domain.NullInt) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

// formatMonth formats a month as "Jan 2023"
func formatMonth(v domain.NullMonth) string {
	if !v.Valid {
		return ""
	}
	return v.Month.String()
}

// FormatRecord renders rec as CSV fields in column order
func FormatRecord(rec domain.Record, columns []domain.Column) ([]string, error) {
	row := make([]string, len(columns))
	for i, col := range columns {
		switch {
		case col.IsCategorical():
			row[i], _ = rec.Text(col)
		case col.IsCount():
			v, _ := rec.Int(col)
			row[i] = formatInt(v)
		case col == domain.ColumnLastReported:
			row[i] = formatMonth(rec.LastReported)
		case col == domain.ColumnPercChangeCases:
			row[i] = formatFloat(rec.PercChangeCases)
		default:
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown column %q", col))
		}
	}
	return row, nil
}
