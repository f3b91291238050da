package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mpoxcli/pkg/contracts/domain"
)

// SampleCSV is a small raw dataset in the input file format.
// Regions are Africa, Europe, Africa with case totals 10, 5, 7.
const SampleCSV = `country,who_region,case_total,death_total,cases_past_month,cases_month_before,last_reported
Nigeria,Africa,10,1,120,100,Jan 2023
Germany,Europe,5,0,3,0,Feb 2023
Ghana,Africa,7,NA,NA,2,Feb 2023
`

// SampleTable is SampleCSV after cleaning
func SampleTable() domain.Table {
	return domain.NewTable(domain.RawColumns, []domain.Record{
		{
			Country:          "Nigeria",
			WHORegion:        "Africa",
			CaseTotal:        domain.IntOf(10),
			DeathTotal:       domain.IntOf(1),
			CasesPastMonth:   domain.IntOf(120),
			CasesMonthBefore: domain.IntOf(100),
			LastReported:     domain.MonthValue(domain.MonthOf(2023, time.January)),
		},
		{
			Country:          "Germany",
			WHORegion:        "Europe",
			CaseTotal:        domain.IntOf(5),
			DeathTotal:       domain.IntOf(0),
			CasesPastMonth:   domain.IntOf(3),
			CasesMonthBefore: domain.IntOf(0),
			LastReported:     domain.MonthValue(domain.MonthOf(2023, time.February)),
		},
		{
			Country:          "Ghana",
			WHORegion:        "Africa",
			CaseTotal:        domain.IntOf(7),
			CasesMonthBefore: domain.IntOf(2),
			LastReported:     domain.MonthValue(domain.MonthOf(2023, time.February)),
		},
	})
}

// LargeTable builds an analysis table with n countries spread over three
// regions. Case totals repeat every four rows so rankings contain ties.
func LargeTable(n int) domain.Table {
	regions := []string{"Africa", "Americas", "Europe"}
	records := make([]domain.Record, n)
	for i := range records {
		before := int64(i % 5)
		records[i] = domain.Record{
			Country:          fmt.Sprintf("Country %02d", i+1),
			WHORegion:        regions[i%len(regions)],
			CaseTotal:        domain.IntOf(int64(100 * (i%4 + 1))),
			DeathTotal:       domain.IntOf(int64(i % 3)),
			CasesPastMonth:   domain.IntOf(int64(i + 1)),
			CasesMonthBefore: domain.IntOf(before),
			LastReported:     domain.MonthValue(domain.MonthOf(2022+i%2, time.Month(i%12+1))),
		}
		if before > 0 {
			records[i].PercChangeCases = domain.FloatOf(float64(int64(i+1)-before) / float64(before))
		}
	}
	return domain.NewTable(domain.AnalysisColumns, records)
}

// WriteFile writes content to dir/name, creating parent directories
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
