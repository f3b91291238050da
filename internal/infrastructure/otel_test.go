package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxcli/internal/config"
	apperrors "mpoxcli/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(config.Default().Telemetry, "analysis", discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Default config disables tracing but keeps prometheus metrics
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_Disabled(t *testing.T) {
	cfg := config.TelemetryConfig{TraceExporter: "none", MetricExporter: "none"}

	providers, err := InitializeOTel(cfg, "visualization", discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)
	assert.NotNil(t, providers.Meter)

	// No-op instruments still accept measurements
	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	RecordStepMetrics(context.Background(), metrics, "analysis", "load", time.Millisecond, true)

	path := filepath.Join(t.TempDir(), "disabled.prom")
	require.NoError(t, providers.WriteMetricsFile(path))
	assert.NoFileExists(t, path)
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "otlp"}, "analysis", discardLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(config.TelemetryConfig{MetricExporter: "statsd"}, "analysis", discardLogger())
	assert.Error(t, err)
}

// TestTraceCorrelation tests span trace ID extraction
func TestTraceCorrelation(t *testing.T) {
	cfg := config.TelemetryConfig{TraceExporter: "stdout", MetricExporter: "none"}

	// the stdout exporter writes spans to os.Stderr; silence it for the test
	stderr := os.Stderr
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	os.Stderr = devNull
	defer func() {
		os.Stderr = stderr
		devNull.Close()
	}()

	providers, err := InitializeOTel(cfg, "analysis", discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "test-step")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	assert.Empty(t, TraceIDFromContext(context.Background()))

	// Span helpers must not panic on a recording span
	SetSpanAttributes(ctx, map[string]interface{}{"rows": 3, "file": "mpox.csv", "ok": true})
	RecordError(ctx, errors.New("boom"))
}

func TestPipelineMetrics_WriteMetricsFile(t *testing.T) {
	providers, err := InitializeOTel(config.Default().Telemetry, "analysis", discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordStepMetrics(ctx, metrics, "analysis", "load", 15*time.Millisecond, true)
	RecordStepMetrics(ctx, metrics, "analysis", "clean", 5*time.Millisecond, false)
	RecordPipelineError(ctx, metrics, "analysis", "clean", apperrors.NewParsingError("bad value", nil))
	RecordPipelineError(ctx, metrics, "analysis", "clean", errors.New("plain"))
	RecordRecordsProcessed(ctx, metrics, "load", 42)
	RecordChartRendered(ctx, metrics, config.ChartTopCases)

	path := filepath.Join(t.TempDir(), "logs", "analysis.prom")
	require.NoError(t, providers.WriteMetricsFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "pipeline_steps_total")
	assert.Contains(t, text, "pipeline_step_duration_seconds")
	assert.Contains(t, text, "pipeline_records_processed_total")
	assert.Contains(t, text, "pipeline_errors_total")
	assert.Contains(t, text, "charts_rendered_total")
	assert.Contains(t, text, `error_type="PARSING"`)
	assert.Contains(t, text, `error_type="UNKNOWN"`)
	assert.Contains(t, text, `step_id="load"`)
	assert.NotContains(t, text, `"error.type"`)
	assert.NotContains(t, text, `"step.id"`)
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordStepMetrics(ctx, nil, "analysis", "load", time.Second, true)
		RecordPipelineError(ctx, nil, "analysis", "load", errors.New("x"))
		RecordRecordsProcessed(ctx, nil, "load", 1)
		RecordChartRendered(ctx, nil, "chart.png")
	})

	var providers *OTelProviders
	assert.NoError(t, providers.WriteMetricsFile("unused.prom"))
}
