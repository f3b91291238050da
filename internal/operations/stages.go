package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mpoxcli/internal/charts"
	"mpoxcli/internal/dataprocessing"
	"mpoxcli/internal/exporter"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/internal/validation"
	"mpoxcli/pkg/contracts/domain"
)

// Step IDs
const (
	StageIDLoad          = "load"
	StageIDClean         = "clean"
	StageIDDescribe      = "describe"
	StageIDAggregate     = "aggregate"
	StageIDMostRecent    = "most_recent"
	StageIDLatestUpdated = "latest_updated"
	StageIDTopN          = "top_n"
	StageIDDerive        = "derive"
	StageIDPersist       = "persist"
	StageIDWorkbook      = "workbook"
	StageIDConsole       = "console"
)

// Step names
const (
	StageNameLoad          = "Load CSV"
	StageNameClean         = "Clean Records"
	StageNameDescribe      = "Describe Columns"
	StageNameAggregate     = "Aggregate by Region"
	StageNameMostRecent    = "Most Recent Month"
	StageNameLatestUpdated = "Latest Updates"
	StageNameTopN          = "Top Countries"
	StageNameDerive        = "Percentage Change"
	StageNamePersist       = "Persist Analysis"
	StageNameWorkbook      = "Summary Workbook"
	StageNameConsole       = "Console Report"
)

// LoadStage reads the input CSV
type LoadStage struct {
	BaseStage
	path      string
	columns   []domain.Column
	validator *validation.FileValidator
}

// NewLoadStage creates a Step reading path with the expected columns
func NewLoadStage(path string, columns []domain.Column, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		path:      path,
		columns:   columns,
		validator: validation.NewFileValidator(logger),
	}
}

// Execute loads the file into state.Data.Raw
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.validator.ValidateCSVFile(s.path); err != nil {
		return err
	}

	raw, err := dataprocessing.LoadCSV(ctx, s.path, s.columns)
	if err != nil {
		return err
	}
	state.Data.Raw = raw
	state.RecordRecords(ctx, s.ID(), len(raw.Rows))
	return nil
}

// CleanStage converts raw rows into typed records
type CleanStage struct {
	BaseStage
}

// NewCleanStage creates the cleaning Step
func NewCleanStage() *CleanStage {
	return &CleanStage{BaseStage: NewBaseStage(StageIDClean, StageNameClean)}
}

// Execute cleans state.Data.Raw into state.Data.Table
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := dataprocessing.Clean(ctx, state.Data.Raw)
	if err != nil {
		return err
	}
	state.Data.Table = table
	state.RecordRecords(ctx, s.ID(), table.Len())
	return nil
}

// DescribeStage computes per-column summary statistics
type DescribeStage struct {
	BaseStage
}

// NewDescribeStage creates the describe Step
func NewDescribeStage() *DescribeStage {
	return &DescribeStage{BaseStage: NewBaseStage(StageIDDescribe, StageNameDescribe)}
}

// Execute stores the column summaries
func (s *DescribeStage) Execute(ctx context.Context, state *OperationState) error {
	state.Data.Statistics = dataprocessing.Describe(state.Data.Table)
	state.RecordRecords(ctx, s.ID(), len(state.Data.Statistics))
	return nil
}

// AggregateStage sums counts per region
type AggregateStage struct {
	BaseStage
}

// NewAggregateStage creates the aggregation Step
func NewAggregateStage() *AggregateStage {
	return &AggregateStage{BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate)}
}

// Execute stores the region totals
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	state.Data.Regions = dataprocessing.AggregateByRegion(state.Data.Table)
	state.RecordRecords(ctx, s.ID(), len(state.Data.Regions))
	return nil
}

// MostRecentStage selects records of the latest reported month
type MostRecentStage struct {
	BaseStage
}

// NewMostRecentStage creates the most-recent Step
func NewMostRecentStage() *MostRecentStage {
	return &MostRecentStage{BaseStage: NewBaseStage(StageIDMostRecent, StageNameMostRecent)}
}

// Execute stores the most recent subset
func (s *MostRecentStage) Execute(ctx context.Context, state *OperationState) error {
	state.Data.MostRecent = dataprocessing.MostRecent(state.Data.Table)
	state.RecordRecords(ctx, s.ID(), state.Data.MostRecent.Len())
	return nil
}

// LatestUpdatedStage selects the n most recently reported records
type LatestUpdatedStage struct {
	BaseStage
	n int
}

// NewLatestUpdatedStage creates a Step keeping n records
func NewLatestUpdatedStage(n int) *LatestUpdatedStage {
	return &LatestUpdatedStage{
		BaseStage: NewBaseStage(StageIDLatestUpdated, StageNameLatestUpdated),
		n:         n,
	}
}

// Execute stores the latest records as state.Data.MostRecent
func (s *LatestUpdatedStage) Execute(ctx context.Context, state *OperationState) error {
	state.Data.MostRecent = dataprocessing.LatestUpdated(state.Data.Table, s.n)
	state.RecordRecords(ctx, s.ID(), state.Data.MostRecent.Len())
	return nil
}

// TopNStage ranks countries by cases and by deaths
type TopNStage struct {
	BaseStage
	n int
}

// NewTopNStage creates a Step keeping the n largest values
func NewTopNStage(n int) *TopNStage {
	return &TopNStage{
		BaseStage: NewBaseStage(StageIDTopN, StageNameTopN),
		n:         n,
	}
}

// Execute stores both rankings
func (s *TopNStage) Execute(ctx context.Context, state *OperationState) error {
	topCases, err := dataprocessing.TopN(state.Data.Table, domain.ColumnCaseTotal, s.n)
	if err != nil {
		return err
	}
	topDeaths, err := dataprocessing.TopN(state.Data.Table, domain.ColumnDeathTotal, s.n)
	if err != nil {
		return err
	}

	state.Data.TopCases = topCases
	state.Data.TopDeaths = topDeaths
	state.RecordRecords(ctx, s.ID(), topCases.Len()+topDeaths.Len())
	return nil
}

// DeriveStage adds perc_change_cases
type DeriveStage struct {
	BaseStage
}

// NewDeriveStage creates the derivation Step
func NewDeriveStage() *DeriveStage {
	return &DeriveStage{BaseStage: NewBaseStage(StageIDDerive, StageNameDerive)}
}

// Execute stores the enriched table
func (s *DeriveStage) Execute(ctx context.Context, state *OperationState) error {
	enriched, stats := dataprocessing.CalculatePercentChange(ctx, state.Data.Table)
	state.Data.Enriched = enriched
	state.Data.Derivation = stats
	state.RecordRecords(ctx, s.ID(), enriched.Len())
	return nil
}

// PersistStage writes the enriched table as CSV
type PersistStage struct {
	BaseStage
	path   string
	writer *exporter.TableWriter
}

// NewPersistStage creates a Step writing to path
func NewPersistStage(path string) *PersistStage {
	return &PersistStage{
		BaseStage: NewBaseStage(StageIDPersist, StageNamePersist),
		path:      path,
		writer:    exporter.NewTableWriter(),
	}
}

// Execute writes state.Data.Enriched
func (s *PersistStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.writer.WriteTable(ctx, s.path, state.Data.Enriched); err != nil {
		return err
	}
	state.AddOutput(s.path)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"output.path": s.path})
	state.RecordRecords(ctx, s.ID(), state.Data.Enriched.Len())
	return nil
}

// summary collects the analysis results for the reporting steps
func summary(data *PipelineData) exporter.AnalysisSummary {
	return exporter.AnalysisSummary{
		Statistics:    data.Statistics,
		Regions:       data.Regions,
		MostRecent:    data.MostRecent,
		TopCases:      data.TopCases,
		TopDeaths:     data.TopDeaths,
		PercentChange: data.Enriched,
	}
}

// WorkbookStage writes the summary workbook
type WorkbookStage struct {
	BaseStage
	path   string
	writer *exporter.WorkbookWriter
}

// NewWorkbookStage creates a Step writing to path
func NewWorkbookStage(path string) *WorkbookStage {
	return &WorkbookStage{
		BaseStage: NewBaseStage(StageIDWorkbook, StageNameWorkbook),
		path:      path,
		writer:    exporter.NewWorkbookWriter(),
	}
}

// Execute writes the workbook
func (s *WorkbookStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.writer.WriteSummary(ctx, s.path, summary(state.Data)); err != nil {
		return err
	}
	state.AddOutput(s.path)
	return nil
}

// ConsoleStage prints the analysis results
type ConsoleStage struct {
	BaseStage
	reporter *exporter.ConsoleReporter
}

// NewConsoleStage creates a Step printing to out
func NewConsoleStage(out io.Writer) *ConsoleStage {
	return &ConsoleStage{
		BaseStage: NewBaseStage(StageIDConsole, StageNameConsole),
		reporter:  exporter.NewConsoleReporter(out),
	}
}

// Execute prints the report
func (s *ConsoleStage) Execute(ctx context.Context, state *OperationState) error {
	s.reporter.Report(summary(state.Data))
	return nil
}

// chartKind selects what a ChartStage draws
type chartKind int

const (
	chartCasesByRegion chartKind = iota
	chartDeathsByRegion
	chartMostRecent
	chartTopCases
	chartTopDeaths
	chartPercentChange
)

var chartStepIDs = map[chartKind]string{
	chartCasesByRegion:  "chart_cases_by_region",
	chartDeathsByRegion: "chart_deaths_by_region",
	chartMostRecent:     "chart_most_recent",
	chartTopCases:       "chart_top_cases",
	chartTopDeaths:      "chart_top_deaths",
	chartPercentChange:  "chart_percent_change",
}

var chartStepNames = map[chartKind]string{
	chartCasesByRegion:  "Cases by Region Chart",
	chartDeathsByRegion: "Deaths by Region Chart",
	chartMostRecent:     "Most Recent Updates Chart",
	chartTopCases:       "Top Cases Chart",
	chartTopDeaths:      "Top Deaths Chart",
	chartPercentChange:  "Percentage Change Chart",
}

// ChartStage renders one figure
type ChartStage struct {
	BaseStage
	kind     chartKind
	renderer *charts.Renderer
	logger   *slog.Logger
}

func newChartStage(kind chartKind, renderer *charts.Renderer, logger *slog.Logger) *ChartStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartStage{
		BaseStage: NewBaseStage(chartStepIDs[kind], chartStepNames[kind]),
		kind:      kind,
		renderer:  renderer,
		logger:    logger.With(slog.String("step", chartStepIDs[kind])),
	}
}

// NewChartStages creates the six chart steps in drawing order
func NewChartStages(renderer *charts.Renderer, logger *slog.Logger) []Step {
	kinds := []chartKind{
		chartCasesByRegion,
		chartDeathsByRegion,
		chartMostRecent,
		chartTopCases,
		chartTopDeaths,
		chartPercentChange,
	}

	steps := make([]Step, len(kinds))
	for i, kind := range kinds {
		steps[i] = newChartStage(kind, renderer, logger)
	}
	return steps
}

// Execute renders the chart and records the file
func (s *ChartStage) Execute(ctx context.Context, state *OperationState) error {
	var (
		path string
		err  error
	)

	data := state.Data
	switch s.kind {
	case chartCasesByRegion:
		path, err = s.renderer.CasesByRegion(ctx, data.Regions)
	case chartDeathsByRegion:
		path, err = s.renderer.DeathsByRegion(ctx, data.Regions)
	case chartMostRecent:
		path, err = s.renderer.MostRecentUpdates(ctx, data.MostRecent)
	case chartTopCases:
		path, err = s.renderer.TopCases(ctx, data.TopCases)
	case chartTopDeaths:
		path, err = s.renderer.TopDeaths(ctx, data.TopDeaths)
	case chartPercentChange:
		path, err = s.renderer.PercentChange(ctx, data.Table)
	default:
		return fmt.Errorf("unknown chart kind %d", s.kind)
	}
	if err != nil {
		return err
	}

	state.RecordChart(ctx, path)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"output.path": path})
	s.logger.DebugContext(ctx, "Chart recorded", slog.String("path", path))
	return nil
}
