// Package app wires configuration, logging and telemetry around one pipeline
// run. Both binaries are thin wrappers over Main.
//
// # Initialization Flow
//
//  1. Load configuration from environment and config.yaml, falling back to defaults
//  2. Resolve paths and create the logs directory
//  3. Initialize the JSON logger and OpenTelemetry providers
//  4. Build and run the pipeline with a fresh run ID in the context
//  5. Write the metrics textfile and shut telemetry down
//
// # Usage
//
//	os.Exit(app.Main(app.BinaryAnalysis, func(cfg *config.Config, paths *config.Paths,
//		tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner {
//		return operations.NewAnalysisPipeline(cfg, paths, os.Stdout, tracer, logger)
//	}))
package app
