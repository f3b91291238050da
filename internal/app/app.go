package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpoxcli/internal/config"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/internal/operations"
)

// Binary names, used for the log file, metrics file and service name
const (
	BinaryAnalysis      = "analysis"
	BinaryVisualization = "visualization"
)

const shutdownTimeout = 5 * time.Second

// PipelineBuilder creates the runner a binary executes
type PipelineBuilder func(cfg *config.Config, paths *config.Paths, tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner

// Application holds everything one batch run needs
type Application struct {
	Binary        string
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication loads configuration and initializes logging and telemetry.
// A configuration that fails to load is replaced by the defaults.
func NewApplication(binary string) (*Application, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
	}

	paths := config.GetPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath(binary + ".log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, binary, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger.Info("Application starting",
		slog.String("binary", binary),
		slog.String("version", config.AppVersion),
		slog.String("base_dir", paths.BaseDir))

	return &Application{
		Binary:        binary,
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
	}, nil
}

// Run executes the pipeline built by build and flushes telemetry afterwards.
// SIGINT and SIGTERM cancel the run before its next step.
func (a *Application) Run(build PipelineBuilder) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = infrastructure.ContextWithTraceID(ctx)

	tracer, err := operations.NewOperationTracer(a.OTelProviders)
	if err != nil {
		return err
	}

	runner := build(a.Config, a.Paths, tracer, a.Logger)
	state, runErr := runner.Run(ctx)

	if runErr == nil {
		a.Logger.InfoContext(ctx, "Run finished",
			slog.String("pipeline", runner.Pipeline()),
			slog.Any("outputs", state.Data.Outputs),
			slog.Duration("duration", state.Duration()))
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := a.Stop(stopCtx); err != nil {
		a.Logger.WarnContext(ctx, "Shutdown incomplete", slog.String("error", err.Error()))
	}

	return runErr
}

// Stop writes the metrics file and shuts down telemetry
func (a *Application) Stop(ctx context.Context) error {
	metricsPath := a.Paths.GetMetricsPath(a.Binary)
	if err := a.OTelProviders.WriteMetricsFile(metricsPath); err != nil {
		a.Logger.WarnContext(ctx, "Failed to write metrics file",
			slog.String("path", metricsPath),
			slog.String("error", err.Error()))
	}

	return a.OTelProviders.Shutdown(ctx)
}

// Main runs binary with build and returns the process exit code
func Main(binary string, build PipelineBuilder) int {
	application, err := NewApplication(binary)
	if err != nil {
		slog.Error("Failed to start", slog.String("binary", binary), slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	if err := application.Run(build); err != nil {
		application.Logger.Error("Run failed",
			slog.String("binary", binary),
			slog.String("error", err.Error()))
		return 1
	}
	return 0
}
