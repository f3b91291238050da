package domain

import (
	"fmt"
)

// Column names a field of the mpox dataset as it appears in CSV headers
type Column string

const (
	ColumnCountry          Column = "country"
	ColumnWHORegion        Column = "who_region"
	ColumnCaseTotal        Column = "case_total"
	ColumnDeathTotal       Column = "death_total"
	ColumnCasesPastMonth   Column = "cases_past_month"
	ColumnCasesMonthBefore Column = "cases_month_before"
	ColumnLastReported     Column = "last_reported"
	ColumnPercChangeCases  Column = "perc_change_cases"
)

// RawColumns is the column set of the raw input file, in declared order
var RawColumns = []Column{
	ColumnCountry,
	ColumnWHORegion,
	ColumnCaseTotal,
	ColumnDeathTotal,
	ColumnCasesPastMonth,
	ColumnCasesMonthBefore,
	ColumnLastReported,
}

// AnalysisColumns is the column set of the enriched analysis file, in declared order
var AnalysisColumns = append(append([]Column{}, RawColumns...), ColumnPercChangeCases)

// CountColumns are the non-negative integer columns
var CountColumns = []Column{
	ColumnCaseTotal,
	ColumnDeathTotal,
	ColumnCasesPastMonth,
	ColumnCasesMonthBefore,
}

// IsCount reports whether the column holds integer counts
func (c Column) IsCount() bool {
	for _, col := range CountColumns {
		if c == col {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the column can be used as a numeric selector
func (c Column) IsNumeric() bool {
	return c.IsCount() || c == ColumnPercChangeCases
}

// IsCategorical reports whether the column holds free text or category labels
func (c Column) IsCategorical() bool {
	return c == ColumnCountry || c == ColumnWHORegion
}

// Record is one country's reported figures
type Record struct {
	Country          string    `json:"country" csv:"country"`
	WHORegion        string    `json:"who_region" csv:"who_region"` // "" when missing
	CaseTotal        NullInt   `json:"case_total" csv:"case_total"`
	DeathTotal       NullInt   `json:"death_total" csv:"death_total"`
	CasesPastMonth   NullInt   `json:"cases_past_month" csv:"cases_past_month"`
	CasesMonthBefore NullInt   `json:"cases_month_before" csv:"cases_month_before"`
	LastReported     NullMonth `json:"last_reported" csv:"last_reported"`
	PercChangeCases  NullFloat `json:"perc_change_cases" csv:"perc_change_cases"`
}

// Int returns the value of an integer count column
func (r Record) Int(col Column) (NullInt, error) {
	switch col {
	case ColumnCaseTotal:
		return r.CaseTotal, nil
	case ColumnDeathTotal:
		return r.DeathTotal, nil
	case ColumnCasesPastMonth:
		return r.CasesPastMonth, nil
	case ColumnCasesMonthBefore:
		return r.CasesMonthBefore, nil
	default:
		return NullInt{}, fmt.Errorf("column %q is not an integer column", col)
	}
}

// Numeric returns any numeric column widened to float64
func (r Record) Numeric(col Column) (NullFloat, error) {
	if col == ColumnPercChangeCases {
		return r.PercChangeCases, nil
	}
	v, err := r.Int(col)
	if err != nil {
		return NullFloat{}, fmt.Errorf("column %q is not numeric", col)
	}
	if !v.Valid {
		return NullFloat{}, nil
	}
	return FloatOf(float64(v.Int64)), nil
}

// Text returns a categorical column value; "" means missing
func (r Record) Text(col Column) (string, error) {
	switch col {
	case ColumnCountry:
		return r.Country, nil
	case ColumnWHORegion:
		return r.WHORegion, nil
	default:
		return "", fmt.Errorf("column %q is not a text column", col)
	}
}
