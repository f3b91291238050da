package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxcli/internal/config"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/internal/operations"
	"mpoxcli/internal/shared/testutil"
)

func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	infrastructure.ResetLoggerForTesting()

	base := t.TempDir()
	t.Setenv("MPOX_PATHS_BASE_DIR", base)
	t.Setenv("MPOX_LOGGING_OUTPUT", "file")
	t.Setenv("MPOX_TELEMETRY_METRIC_EXPORTER", "prometheus")

	t.Cleanup(func() {
		infrastructure.CloseLogFile()
		infrastructure.ResetLoggerForTesting()
	})
	return base
}

func analysisBuilder(console *bytes.Buffer) PipelineBuilder {
	return func(cfg *config.Config, paths *config.Paths, tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner {
		return operations.NewAnalysisPipeline(cfg, paths, console, tracer, logger)
	}
}

func TestNewApplication(t *testing.T) {
	base := setupTestEnvironment(t)

	application, err := NewApplication(BinaryAnalysis)
	require.NoError(t, err)

	assert.Equal(t, BinaryAnalysis, application.Binary)
	assert.Equal(t, base, application.Paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "logs", "analysis.log"), application.Config.Logging.FilePath)
	assert.DirExists(t, filepath.Join(base, "logs"))
	assert.NotNil(t, application.OTelProviders)
}

func TestApplication_Run(t *testing.T) {
	base := setupTestEnvironment(t)
	testutil.WriteFile(t, base, config.DefaultInputCSV, testutil.SampleCSV)

	application, err := NewApplication(BinaryAnalysis)
	require.NoError(t, err)

	var console bytes.Buffer
	require.NoError(t, application.Run(analysisBuilder(&console)))

	assert.FileExists(t, filepath.Join(base, config.DefaultAnalysisCSV))
	assert.FileExists(t, filepath.Join(base, config.DefaultSummaryWorkbook))
	assert.Contains(t, console.String(), "Top 10 Countries by Cases:")

	metrics, err := os.ReadFile(filepath.Join(base, "logs", "analysis.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "pipeline_steps_total")

	require.NoError(t, infrastructure.CloseLogFile())
	logs, err := os.ReadFile(filepath.Join(base, "logs", "analysis.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"msg":"Pipeline completed"`)
	assert.Contains(t, string(logs), `"trace_id"`)
}

func TestMain_ExitCodes(t *testing.T) {
	base := setupTestEnvironment(t)

	var console bytes.Buffer
	assert.Equal(t, 1, Main(BinaryAnalysis, analysisBuilder(&console)), "missing input fails")

	logs, err := os.ReadFile(filepath.Join(base, "logs", "analysis.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(logs), `step \"load\" failed`))
	assert.NoFileExists(t, filepath.Join(base, config.DefaultAnalysisCSV))

	infrastructure.ResetLoggerForTesting()
	testutil.WriteFile(t, base, config.DefaultInputCSV, testutil.SampleCSV)
	assert.Equal(t, 0, Main(BinaryAnalysis, analysisBuilder(&console)))
	assert.FileExists(t, filepath.Join(base, config.DefaultAnalysisCSV))
}

func TestMain_Visualization(t *testing.T) {
	base := setupTestEnvironment(t)
	testutil.WriteFile(t, base, config.DefaultInputCSV, testutil.SampleCSV)

	var console bytes.Buffer
	require.Equal(t, 0, Main(BinaryAnalysis, analysisBuilder(&console)))
	infrastructure.ResetLoggerForTesting()

	code := Main(BinaryVisualization, func(cfg *config.Config, paths *config.Paths, tracer *operations.OperationTracer, logger *slog.Logger) *operations.Runner {
		return operations.NewVisualizationPipeline(cfg, paths, tracer, logger)
	})
	require.Equal(t, 0, code)

	for _, name := range config.ChartFiles {
		assert.FileExists(t, filepath.Join(base, config.DefaultFiguresDir, name))
	}
	assert.FileExists(t, filepath.Join(base, "logs", "visualization.prom"))
}
