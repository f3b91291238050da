package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepState_Transitions(t *testing.T) {
	s := NewStepState("load", "Load CSV")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	assert.NotNil(t, s.StartTime)

	time.Sleep(time.Millisecond)
	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	assert.Greater(t, s.Duration(), time.Duration(0))

	failed := NewStepState("clean", "Clean Records")
	failed.Start()
	failed.Fail(errors.New("bad row"))
	assert.Equal(t, StepStatusFailed, failed.GetStatus())
	assert.EqualError(t, failed.Error, "bad row")

	skipped := NewStepState("persist", "Persist Analysis")
	skipped.Skip("previous step clean failed")
	assert.Equal(t, StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "previous step clean failed", skipped.Message)
}

func TestBaseStage_NilSafe(t *testing.T) {
	var b *BaseStage
	assert.Empty(t, b.ID())
	assert.Empty(t, b.Name())

	s := NewStepFunc("x", "X", func(context.Context, *OperationState) error { return nil })
	assert.Equal(t, "x", s.ID())
	assert.Equal(t, "X", s.Name())
}

func TestOperationState(t *testing.T) {
	state := NewOperationState("run-1", "analysis")
	assert.Equal(t, OperationStatusPending, state.Status)
	assert.NotNil(t, state.Data)

	state.AddStep(NewStepState("b", "B"))
	state.AddStep(NewStepState("a", "A"))
	state.AddStep(NewStepState("b", "B again"))
	assert.Equal(t, []string{"b", "a"}, state.StepOrder())
	assert.Equal(t, "B again", state.GetStep("b").Name)
	assert.Nil(t, state.GetStep("missing"))

	// metrics are optional
	state.RecordRecords(context.Background(), "a", 7)
	assert.Equal(t, 7, state.GetStep("a").GetRecords())
	state.RecordChart(context.Background(), "output/figures/top_10_countries_cases.png")
	assert.Equal(t, []string{"output/figures/top_10_countries_cases.png"}, state.Data.Outputs)

	state.Start()
	assert.Equal(t, OperationStatusRunning, state.Status)
	state.Complete()
	assert.Equal(t, OperationStatusCompleted, state.Status)
	assert.NotNil(t, state.EndTime)
}
