package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// SummaryKind tells which statistics a ColumnSummary carries
type SummaryKind string

const (
	SummaryNumeric     SummaryKind = "numeric"
	SummaryCategorical SummaryKind = "categorical"
	SummaryMonth       SummaryKind = "month"
)

// ColumnSummary holds descriptive statistics for one column.
// Statistics that do not apply to Kind, or that are undefined for the
// sample (std of a single value), are NaN or zero.
type ColumnSummary struct {
	Column domain.Column
	Kind   SummaryKind
	Count  int

	// Numeric columns
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64

	// Categorical and month columns
	Unique int
	Top    string
	Freq   int

	// Month columns
	First domain.NullMonth
	Last  domain.NullMonth
}

// Describe computes summary statistics for every column of table, in schema order.
// Missing values are excluded from every statistic.
func Describe(table domain.Table) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, len(table.Columns))

	for _, col := range table.Columns {
		switch {
		case col.IsNumeric():
			summaries = append(summaries, describeNumeric(table, col))
		case col.IsCategorical():
			summaries = append(summaries, describeCategorical(table, col))
		case col == domain.ColumnLastReported:
			summaries = append(summaries, describeMonth(table))
		}
	}

	return summaries
}

func describeNumeric(table domain.Table, col domain.Column) ColumnSummary {
	values := make([]float64, 0, table.Len())
	for _, rec := range table.Records {
		v, err := rec.Numeric(col)
		if err == nil && v.Valid {
			values = append(values, v.Float64)
		}
	}

	summary := ColumnSummary{Column: col, Kind: SummaryNumeric, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		summary.Mean, summary.Std, summary.Min, summary.Max = nan, nan, nan, nan
		summary.Q25, summary.Median, summary.Q75 = nan, nan, nan
		return summary
	}

	sort.Float64s(values)
	summary.Mean = stat.Mean(values, nil)
	summary.Std = math.NaN()
	if len(values) > 1 {
		summary.Std = stat.StdDev(values, nil)
	}
	summary.Min = floats.Min(values)
	summary.Max = floats.Max(values)
	summary.Q25 = quantile(0.25, values)
	summary.Median = quantile(0.5, values)
	summary.Q75 = quantile(0.75, values)

	return summary
}

// quantile interpolates linearly between the two closest ranks of sorted
// (Hyndman-Fan type 7), so the 0.5 quantile of an even sample is the mean
// of the middle pair.
func quantile(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func describeCategorical(table domain.Table, col domain.Column) ColumnSummary {
	counts := make(map[string]int)
	var order []string

	summary := ColumnSummary{Column: col, Kind: SummaryCategorical}
	for _, rec := range table.Records {
		v, err := rec.Text(col)
		if err != nil || v == "" {
			continue
		}
		summary.Count++
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	summary.Unique = len(order)
	// ties go to the value seen first
	for _, v := range order {
		if counts[v] > summary.Freq {
			summary.Top = v
			summary.Freq = counts[v]
		}
	}

	return summary
}

func describeMonth(table domain.Table) ColumnSummary {
	summary := ColumnSummary{Column: domain.ColumnLastReported, Kind: SummaryMonth}
	counts := make(map[domain.Month]int)
	var order []domain.Month

	for _, rec := range table.Records {
		if !rec.LastReported.Valid {
			continue
		}
		m := rec.LastReported.Month
		summary.Count++
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++

		if !summary.First.Valid || m.Before(summary.First.Month) {
			summary.First = domain.MonthValue(m)
		}
		if !summary.Last.Valid || summary.Last.Month.Before(m) {
			summary.Last = domain.MonthValue(m)
		}
	}

	summary.Unique = len(order)
	for _, m := range order {
		if counts[m] > summary.Freq {
			summary.Top = m.String()
			summary.Freq = counts[m]
		}
	}

	return summary
}

// RegionTotals holds the summed counts of one WHO region
type RegionTotals struct {
	Region           string
	Countries        int
	CaseTotal        int64
	DeathTotal       int64
	CasesPastMonth   int64
	CasesMonthBefore int64
}

// Total returns the sum for a count column
func (r RegionTotals) Total(col domain.Column) (int64, error) {
	switch col {
	case domain.ColumnCaseTotal:
		return r.CaseTotal, nil
	case domain.ColumnDeathTotal:
		return r.DeathTotal, nil
	case domain.ColumnCasesPastMonth:
		return r.CasesPastMonth, nil
	case domain.ColumnCasesMonthBefore:
		return r.CasesMonthBefore, nil
	default:
		return 0, fmt.Errorf("column %q is not aggregated by region", col)
	}
}

// AggregateByRegion sums the count columns per WHO region.
// Regions appear in first-seen order. Records without a region are left out
// and missing values add nothing.
func AggregateByRegion(table domain.Table) []RegionTotals {
	index := make(map[string]int)
	var totals []RegionTotals

	for _, rec := range table.Records {
		if rec.WHORegion == "" {
			continue
		}

		i, ok := index[rec.WHORegion]
		if !ok {
			i = len(totals)
			index[rec.WHORegion] = i
			totals = append(totals, RegionTotals{Region: rec.WHORegion})
		}

		t := &totals[i]
		t.Countries++
		t.CaseTotal += valueOrZero(rec.CaseTotal)
		t.DeathTotal += valueOrZero(rec.DeathTotal)
		t.CasesPastMonth += valueOrZero(rec.CasesPastMonth)
		t.CasesMonthBefore += valueOrZero(rec.CasesMonthBefore)
	}

	return totals
}

func valueOrZero(v domain.NullInt) int64 {
	if !v.Valid {
		return 0
	}
	return v.Int64
}

// MostRecent returns every record reported in the latest month present, in
// original order. A table with no valid month yields an empty table.
func MostRecent(table domain.Table) domain.Table {
	var latest domain.NullMonth
	for _, rec := range table.Records {
		if rec.LastReported.Valid && (!latest.Valid || latest.Month.Before(rec.LastReported.Month)) {
			latest = rec.LastReported
		}
	}

	var out []domain.Record
	if latest.Valid {
		for _, rec := range table.Records {
			if rec.LastReported == latest {
				out = append(out, rec)
			}
		}
	}

	return table.WithRecords(out)
}

// TopN returns the n records with the largest values in column, largest
// first. Ties keep their original order; records missing the value are skipped.
func TopN(table domain.Table, column domain.Column, n int) (domain.Table, error) {
	if !column.IsNumeric() {
		return domain.Table{}, apperrors.NewAppValidationError(
			fmt.Sprintf("cannot rank by non-numeric column %q", column))
	}
	if !table.HasColumn(column) {
		return domain.Table{}, apperrors.NewAppValidationError(
			fmt.Sprintf("table has no column %q", column))
	}
	if n <= 0 {
		return table.WithRecords(nil), nil
	}

	type ranked struct {
		rec   domain.Record
		value float64
	}
	candidates := make([]ranked, 0, table.Len())
	for _, rec := range table.Records {
		v, _ := rec.Numeric(column)
		if v.Valid {
			candidates = append(candidates, ranked{rec: rec, value: v.Float64})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]domain.Record, len(candidates))
	for i, c := range candidates {
		out[i] = c.rec
	}
	return table.WithRecords(out), nil
}

// LatestUpdated returns the n most recently reported records, latest first.
// Records without a month sort last; ties keep their original order.
func LatestUpdated(table domain.Table, n int) domain.Table {
	if n <= 0 {
		return table.WithRecords(nil)
	}

	records := append([]domain.Record(nil), table.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].LastReported, records[j].LastReported
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && b.Month.Before(a.Month)
	})

	if len(records) > n {
		records = records[:n]
	}
	return table.WithRecords(records)
}

// SortByPercentChange orders records by perc_change_cases, largest first,
// dropping records where it is missing
func SortByPercentChange(table domain.Table) domain.Table {
	records := make([]domain.Record, 0, table.Len())
	for _, rec := range table.Records {
		if rec.PercChangeCases.Valid {
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PercChangeCases.Float64 > records[j].PercChangeCases.Float64
	})

	return table.WithRecords(records)
}
