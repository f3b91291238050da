package exporter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"mpoxcli/pkg/contracts/domain"
)

// ConsoleReporter prints analysis results as text tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out; nil means stdout
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Report prints every section of summary in analysis order
func (r *ConsoleReporter) Report(summary AnalysisSummary) {
	header, rows := statisticsGrid(summary.Statistics)
	r.section("Descriptive Statistics", header, rows)

	regionRows := make([][]string, len(summary.Regions))
	for i, reg := range summary.Regions {
		regionRows[i] = []string{
			reg.Region,
			strconv.FormatInt(reg.CaseTotal, 10),
			strconv.FormatInt(reg.DeathTotal, 10),
			strconv.FormatInt(reg.CasesPastMonth, 10),
			strconv.FormatInt(reg.CasesMonthBefore, 10),
		}
	}
	r.section("Aggregated Data by Continent",
		[]string{"who_region", "case_total", "death_total", "cases_past_month", "cases_month_before"}, regionRows)

	r.tableSection("Most Recent Updates", summary.MostRecent,
		domain.ColumnCountry, domain.ColumnCaseTotal, domain.ColumnDeathTotal, domain.ColumnLastReported)
	r.tableSection("Top 10 Countries by Cases", summary.TopCases, domain.ColumnCountry, domain.ColumnCaseTotal)
	r.tableSection("Top 10 Countries by Deaths", summary.TopDeaths, domain.ColumnCountry, domain.ColumnDeathTotal)
	r.tableSection("Data with Percentage Changes", summary.PercentChange, domain.ColumnCountry, domain.ColumnPercChangeCases)
}

func (r *ConsoleReporter) tableSection(title string, table domain.Table, columns ...domain.Column) {
	sheet := tableSheet(title, table, columns...)
	// missing values print as NA, as in the input file
	for _, row := range sheet.rows {
		for i, v := range row {
			row[i] = naIfEmpty(v)
		}
	}
	r.section(title, sheet.header, sheet.rows)
}

func (r *ConsoleReporter) section(title string, header []string, rows [][]string) {
	fmt.Fprintf(r.out, "%s:\n", title)

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()

	fmt.Fprintln(r.out)
}
