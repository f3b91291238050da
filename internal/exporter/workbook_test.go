package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mpoxcli/internal/dataprocessing"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/internal/shared/testutil"
	"mpoxcli/pkg/contracts/domain"
)

func sampleSummary(t *testing.T) AnalysisSummary {
	t.Helper()

	table := testutil.SampleTable()
	topCases, err := dataprocessing.TopN(table, domain.ColumnCaseTotal, 10)
	require.NoError(t, err)
	topDeaths, err := dataprocessing.TopN(table, domain.ColumnDeathTotal, 10)
	require.NoError(t, err)
	enriched, _ := dataprocessing.CalculatePercentChange(context.Background(), table)

	return AnalysisSummary{
		Statistics:    dataprocessing.Describe(table),
		Regions:       dataprocessing.AggregateByRegion(table),
		MostRecent:    dataprocessing.MostRecent(table),
		TopCases:      topCases,
		TopDeaths:     topDeaths,
		PercentChange: enriched,
	}
}

func TestWorkbookWriter_WriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "mpox_summary.xlsx")

	err := NewWorkbookWriter().WriteSummary(context.Background(), path, sampleSummary(t))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetRegions, SheetMostRecent, SheetTopCases, SheetTopDeaths}, f.GetSheetList())

	regions, err := f.GetRows(SheetRegions)
	require.NoError(t, err)
	require.Len(t, regions, 3)
	assert.Equal(t, "who_region", regions[0][0])
	assert.Equal(t, []string{"Africa", "2", "17", "1", "120", "102"}, regions[1])
	assert.Equal(t, []string{"Europe", "1", "5", "0", "3", "0"}, regions[2])

	recent, err := f.GetRows(SheetMostRecent)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"Germany", "5", "0", "Feb 2023"}, recent[1])

	topCases, err := f.GetRows(SheetTopCases)
	require.NoError(t, err)
	assert.Equal(t, "Nigeria", topCases[1][0])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Contains(t, summary[0], "case_total")
	assert.Equal(t, "count", summary[1][0])
}

func TestWorkbookWriter_OutputDirectoryIsFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "output")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := NewWorkbookWriter().WriteSummary(context.Background(), filepath.Join(blocker, "summary.xlsx"), sampleSummary(t))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
}

func TestTableSheet(t *testing.T) {
	table := domain.NewTable(domain.AnalysisColumns, []domain.Record{
		{Country: "Inf", CaseTotal: domain.IntOf(3)},
		{Country: "nan", PercChangeCases: domain.FloatOf(0.5)},
	})

	t.Run("only numeric columns become numbers", func(t *testing.T) {
		sheet, err := tableSheet(SheetTopCases, table, domain.ColumnCountry, domain.ColumnCaseTotal, domain.ColumnPercChangeCases)
		require.NoError(t, err)
		require.Len(t, sheet.rows, 2)

		assert.Equal(t, []interface{}{"Inf", int64(3), ""}, sheet.rows[0])
		assert.Equal(t, []interface{}{"nan", "", 0.5}, sheet.rows[1])
	})

	t.Run("unknown column is an error", func(t *testing.T) {
		_, err := tableSheet(SheetTopCases, table, domain.ColumnCountry, "iso3")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})
}

func TestStatisticsCells_TopStaysText(t *testing.T) {
	table := domain.NewTable(domain.RawColumns, []domain.Record{
		{Country: "1e3", WHORegion: "Africa", CaseTotal: domain.IntOf(4)},
	})
	stats := dataprocessing.Describe(table)
	header, grid := statisticsGrid(stats)
	cells := statisticsCells(stats, grid)

	country := -1
	for i, h := range header {
		if h == string(domain.ColumnCountry) {
			country = i
		}
	}
	require.Positive(t, country)

	for r, name := range statisticNames {
		switch name {
		case "top":
			assert.Equal(t, "1e3", cells[r][country])
		case "count":
			assert.Equal(t, int64(1), cells[r][country])
		}
	}
}

func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(sampleSummary(t))
	out := buf.String()

	for _, title := range []string{
		"Descriptive Statistics:",
		"Aggregated Data by Continent:",
		"Most Recent Updates:",
		"Top 10 Countries by Cases:",
		"Top 10 Countries by Deaths:",
		"Data with Percentage Changes:",
	} {
		assert.Contains(t, out, title)
	}

	assert.Contains(t, out, "Africa")
	assert.Contains(t, out, "17")
	assert.Contains(t, out, "0.2")
	// Germany's undefined change prints as NA
	section := out[strings.Index(out, "Data with Percentage Changes:"):]
	for _, line := range strings.Split(section, "\n") {
		if strings.Contains(line, "Germany") {
			assert.Contains(t, line, "NA")
		}
	}
}
