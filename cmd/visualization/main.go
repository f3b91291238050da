// Command visualization reads output/mpox_data_analysis.csv and renders the
// six bar charts into output/figures.
package main

import (
	"log/slog"
	"os"

	"mpoxcli/internal/app"
	"mpoxcli/internal/config"
	"mpoxcli/internal/operations"
)

func main() {
	os.Exit(app.Main(app.BinaryVisualization, func(cfg *config.Config, paths *config.Paths, tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner {
		return operations.NewVisualizationPipeline(cfg, paths, tracer, logger)
	}))
}
