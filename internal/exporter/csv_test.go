package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxcli/internal/dataprocessing"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/internal/shared/testutil"
	"mpoxcli/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer := NewCSVWriter()

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "output", "test.csv")

		err := writer.WriteCSV(path, WriteOptions{
			Headers: []string{"name", "value"},
			Records: [][]string{{"a", "1"}, {"b, c", "2"}},
		})
		require.NoError(t, err)

		records := readCSV(t, path)
		assert.Equal(t, [][]string{{"name", "value"}, {"a", "1"}, {"b, c", "2"}}, records)
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.csv")
		require.NoError(t, os.WriteFile(path, []byte("old,content,here\n1,2,3\n4,5,6\n"), 0644))

		require.NoError(t, writer.WriteCSV(path, WriteOptions{Headers: []string{"only"}}))

		assert.Equal(t, [][]string{{"only"}}, readCSV(t, path))
	})

	t.Run("writes BOM prefix", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bom.csv")
		require.NoError(t, writer.WriteCSV(path, WriteOptions{Headers: []string{"h"}, BOMPrefix: true}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
	})

	t.Run("unwritable directory", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "output")
		require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0644))

		err := writer.WriteCSV(filepath.Join(blocker, "test.csv"), WriteOptions{Headers: []string{"h"}})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
		assert.Contains(t, err.Error(), blocker)
	})
}

func TestTableWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "mpox_data_analysis.csv")
	table, _ := dataprocessing.CalculatePercentChange(context.Background(), testutil.SampleTable())

	require.NoError(t, NewTableWriter().WriteTable(context.Background(), path, table))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{
		"country", "who_region", "case_total", "death_total",
		"cases_past_month", "cases_month_before", "last_reported", "perc_change_cases",
	}, records[0])
	assert.Equal(t, []string{"Nigeria", "Africa", "10", "1", "120", "100", "Jan 2023", "0.2"}, records[1])
	assert.Equal(t, []string{"Germany", "Europe", "5", "0", "3", "0", "Feb 2023", ""}, records[2])
	assert.Equal(t, []string{"Ghana", "Africa", "7", "", "", "2", "Feb 2023", ""}, records[3])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(content), "\ufeff"), "analysis file has no BOM")
}

func TestTableWriter_RoundTrip(t *testing.T) {
	ctx := context.Background()

	tables := map[string]domain.Table{
		"sample": testutil.SampleTable(),
		"large":  testutil.LargeTable(40),
		"awkward values": domain.NewTable(domain.AnalysisColumns, []domain.Record{
			{
				Country:          "Côte d'Ivoire",
				WHORegion:        "Africa",
				CaseTotal:        domain.IntOf(9007199254740993),
				CasesPastMonth:   domain.IntOf(1),
				CasesMonthBefore: domain.IntOf(3),
				LastReported:     domain.MonthValue(domain.MonthOf(2024, time.December)),
				PercChangeCases:  domain.FloatOf(-2.0 / 3.0),
			},
			{
				Country:         "Bonaire, Sint Eustatius and Saba",
				PercChangeCases: domain.FloatOf(1e-7),
			},
			{
				Country:         "\"Quoted\" Land",
				WHORegion:       "Americas",
				PercChangeCases: domain.FloatOf(12345.678901234567),
			},
		}),
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roundtrip.csv")
			require.NoError(t, NewTableWriter().WriteTable(ctx, path, table))

			raw, err := dataprocessing.LoadCSV(ctx, path, table.Columns)
			require.NoError(t, err)
			got, err := dataprocessing.Clean(ctx, raw)
			require.NoError(t, err)

			assert.Equal(t, table, got)
		})
	}
}

func TestTableWriter_MissingDirectoryIsCreated(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "does", "not", "exist", "out.csv")

	require.NoError(t, NewTableWriter().WriteTable(context.Background(), path, testutil.SampleTable()))
	assert.FileExists(t, path)
}
