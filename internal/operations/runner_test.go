package operations

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxcli/internal/config"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/internal/shared/testutil"
)

func recordingStep(id string, calls *[]string, err error) Step {
	return NewStepFunc(id, id, func(ctx context.Context, state *OperationState) error {
		*calls = append(*calls, id)
		return err
	})
}

func TestRunner_ExecutesStepsInOrder(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	var calls []string

	runner := NewRunner("test", nil, logger,
		recordingStep("first", &calls, nil),
		recordingStep("second", &calls, nil),
		recordingStep("third", &calls, nil),
	)

	state, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Equal(t, OperationStatusCompleted, state.Status)
	assert.Equal(t, []string{"first", "second", "third"}, state.StepOrder())
	for _, id := range calls {
		assert.Equal(t, StepStatusCompleted, state.GetStep(id).GetStatus())
	}

	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Executing step")
	assert.True(t, handler.ContainsMessage("Pipeline completed"))
	assert.True(t, handler.ContainsAttr("pipeline", "test"))
	testutil.AssertNoErrors(t, handler)
}

func TestRunner_FailsFast(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	var calls []string
	cause := apperrors.NewIOError("failed to open input file", "data/mpox_data.csv", os.ErrNotExist)

	runner := NewRunner("test", nil, logger,
		recordingStep("load", &calls, nil),
		recordingStep("clean", &calls, cause),
		recordingStep("persist", &calls, nil),
	)

	state, err := runner.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"load", "clean"}, calls, "no step runs after a failure")

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "clean", stepErr.StepID)
	assert.Contains(t, err.Error(), `step "clean" failed`)
	assert.Contains(t, err.Error(), "data/mpox_data.csv")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Equal(t, OperationStatusFailed, state.Status)
	assert.Equal(t, err, state.Error)
	assert.Equal(t, StepStatusCompleted, state.GetStep("load").GetStatus())
	assert.Equal(t, StepStatusFailed, state.GetStep("clean").GetStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("persist").GetStatus())
	assert.Equal(t, "previous step clean failed", state.GetStep("persist").Message)

	assert.True(t, handler.ContainsMessage("Step failed"))
	assert.True(t, handler.ContainsMessage("Pipeline failed"))
}

func TestRunner_Cancelled(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())

	runner := NewRunner("test", nil, nil,
		NewStepFunc("cancel", "cancel", func(ctx context.Context, state *OperationState) error {
			calls = append(calls, "cancel")
			cancel()
			return nil
		}),
		recordingStep("after", &calls, nil),
	)

	state, err := runner.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"cancel"}, calls)
	assert.Equal(t, StepStatusSkipped, state.GetStep("after").GetStatus())
}

func TestRunner_UsesTraceIDFromContext(t *testing.T) {
	ctx := infrastructure.WithTraceID(context.Background(), "run-123")

	state, err := NewRunner("test", nil, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-123", state.ID)

	state, err = NewRunner("test", nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, state.ID)
}

func TestRunner_RecordsMetrics(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(
		config.TelemetryConfig{TraceExporter: "none", MetricExporter: "prometheus"}, "test", nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	tracer, err := NewOperationTracer(providers)
	require.NoError(t, err)

	var calls []string
	runner := NewRunner("test", tracer, nil,
		NewStepFunc("count", "count", func(ctx context.Context, state *OperationState) error {
			state.RecordRecords(ctx, "count", 42)
			return nil
		}),
		recordingStep("broken", &calls, apperrors.NewParsingError("malformed CSV", nil)),
	)

	state, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 42, state.GetStep("count").GetRecords())

	path := filepath.Join(t.TempDir(), "test.prom")
	require.NoError(t, providers.WriteMetricsFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "pipeline_steps_total")
	assert.Contains(t, text, "pipeline_step_duration_seconds")
	assert.Contains(t, text, "pipeline_records_processed_total")
	assert.Contains(t, text, `error_type="PARSING"`)
	assert.Contains(t, text, `step_id="broken"`)
	assert.NotContains(t, text, `"step.id"`)
}

func TestStepError(t *testing.T) {
	err := NewStepError("load", errors.New("boom"))
	assert.Equal(t, `step "load" failed: boom`, err.Error())

	var nilErr *StepError
	assert.Equal(t, "unknown step error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}
