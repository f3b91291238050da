package exporter

import (
	"math"
	"strconv"

	"mpoxcli/internal/dataprocessing"
	"mpoxcli/pkg/contracts/domain"
)

// AnalysisSummary collects the intermediate results of an analysis run
type AnalysisSummary struct {
	Statistics    []dataprocessing.ColumnSummary
	Regions       []dataprocessing.RegionTotals
	MostRecent    domain.Table
	TopCases      domain.Table
	TopDeaths     domain.Table
	PercentChange domain.Table
}

// statisticNames are the rows of the statistics grid, in print order
var statisticNames = []string{"count", "unique", "top", "freq", "first", "last", "mean", "std", "min", "25%", "50%", "75%", "max"}

// statisticsGrid lays out descriptive statistics with one row per statistic
// and one column per dataset column
func statisticsGrid(stats []dataprocessing.ColumnSummary) (header []string, rows [][]string) {
	header = make([]string, 0, len(stats)+1)
	header = append(header, "")
	for _, s := range stats {
		header = append(header, string(s.Column))
	}

	rows = make([][]string, len(statisticNames))
	for i, name := range statisticNames {
		row := make([]string, 0, len(stats)+1)
		row = append(row, name)
		for _, s := range stats {
			row = append(row, statisticCell(s, name))
		}
		rows[i] = row
	}
	return header, rows
}

func statisticCell(s dataprocessing.ColumnSummary, name string) string {
	if name == "count" {
		return strconv.Itoa(s.Count)
	}

	switch s.Kind {
	case dataprocessing.SummaryNumeric:
		switch name {
		case "mean":
			return formatStat(s.Mean)
		case "std":
			return formatStat(s.Std)
		case "min":
			return formatStat(s.Min)
		case "25%":
			return formatStat(s.Q25)
		case "50%":
			return formatStat(s.Median)
		case "75%":
			return formatStat(s.Q75)
		case "max":
			return formatStat(s.Max)
		}
	case dataprocessing.SummaryCategorical, dataprocessing.SummaryMonth:
		switch name {
		case "unique":
			return strconv.Itoa(s.Unique)
		case "top":
			return naIfEmpty(s.Top)
		case "freq":
			if s.Count == 0 {
				return "NaN"
			}
			return strconv.Itoa(s.Freq)
		case "first":
			if s.Kind == dataprocessing.SummaryMonth {
				return s.First.String()
			}
		case "last":
			if s.Kind == dataprocessing.SummaryMonth {
				return s.Last.String()
			}
		}
	}
	return "NaN"
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func naIfEmpty(s string) string {
	if s == "" {
		return "NA"
	}
	return s
}
