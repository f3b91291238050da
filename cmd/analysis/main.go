// Command analysis loads data/mpox_data.csv, prints summary statistics and
// writes output/mpox_data_analysis.csv together with output/mpox_summary.xlsx.
package main

import (
	"log/slog"
	"os"

	"mpoxcli/internal/app"
	"mpoxcli/internal/config"
	"mpoxcli/internal/operations"
)

func main() {
	os.Exit(app.Main(app.BinaryAnalysis, func(cfg *config.Config, paths *config.Paths, tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner {
		return operations.NewAnalysisPipeline(cfg, paths, os.Stdout, tracer, logger)
	}))
}
