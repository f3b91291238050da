package operations

import (
	"io"
	"log/slog"

	"mpoxcli/internal/charts"
	"mpoxcli/internal/config"
	"mpoxcli/pkg/contracts/domain"
)

// Pipeline names
const (
	PipelineAnalysis      = "analysis"
	PipelineVisualization = "visualization"
)

// NewAnalysisPipeline builds the analysis run: load, clean, describe,
// aggregate, most recent, top countries, percentage change and persist.
// The workbook and console steps follow when enabled in cfg.
func NewAnalysisPipeline(cfg *config.Config, paths *config.Paths, console io.Writer, tracer *OperationTracer, logger *slog.Logger) *Runner {
	steps := []Step{
		NewLoadStage(paths.InputCSV, domain.RawColumns, logger),
		NewCleanStage(),
		NewDescribeStage(),
		NewAggregateStage(),
		NewMostRecentStage(),
		NewTopNStage(cfg.Analysis.TopN),
		NewDeriveStage(),
		NewPersistStage(paths.AnalysisCSV),
	}
	if cfg.Analysis.SummaryWorkbook {
		steps = append(steps, NewWorkbookStage(paths.SummaryWorkbook))
	}
	if cfg.Analysis.ConsoleReport {
		steps = append(steps, NewConsoleStage(console))
	}

	return NewRunner(PipelineAnalysis, tracer, logger, steps...)
}

// NewVisualizationPipeline builds the chart run over the persisted analysis file
func NewVisualizationPipeline(cfg *config.Config, paths *config.Paths, tracer *OperationTracer, logger *slog.Logger) *Runner {
	renderer := charts.NewRenderer(paths, cfg.Charts, logger)

	steps := []Step{
		NewLoadStage(paths.AnalysisCSV, domain.AnalysisColumns, logger),
		NewCleanStage(),
		NewAggregateStage(),
		NewLatestUpdatedStage(cfg.Analysis.RecentUpdates),
		NewTopNStage(cfg.Analysis.TopN),
	}
	steps = append(steps, NewChartStages(renderer, logger)...)

	return NewRunner(PipelineVisualization, tracer, logger, steps...)
}
