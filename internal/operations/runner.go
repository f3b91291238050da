package operations

import (
	"context"
	"fmt"
	"log/slog"

	"mpoxcli/internal/infrastructure"
)

// Runner executes the steps of one pipeline in order.
// The first failing Step stops the run; later steps are marked skipped.
type Runner struct {
	pipeline string
	steps    []Step
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewRunner creates a runner for the given steps.
// A nil tracer records nothing and a nil logger uses slog.Default().
func NewRunner(pipeline string, tracer *OperationTracer, logger *slog.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	return &Runner{
		pipeline: pipeline,
		steps:    steps,
		tracer:   tracer,
		logger:   logger.With(slog.String("pipeline", pipeline)),
	}
}

// Pipeline returns the pipeline name
func (r *Runner) Pipeline() string {
	return r.pipeline
}

// Steps returns the steps in execution order
func (r *Runner) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Run executes every Step and returns the final state.
// The returned error is a *StepError naming the Step that failed.
func (r *Runner) Run(ctx context.Context) (*OperationState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	id := infrastructure.GetTraceID(ctx)

	state := NewOperationState(id, r.pipeline)
	state.metrics = r.tracer.Metrics()
	for _, step := range r.steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	ctx, span := r.tracer.TraceOperationExecution(ctx, id, r.pipeline)
	defer span.End()

	state.Start()
	r.logger.InfoContext(ctx, "Pipeline started",
		slog.String("operation_id", id),
		slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Int("step_count", len(r.steps)))

	err := r.executeSequential(ctx, state)
	if err != nil {
		state.Fail(err)
		r.logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("operation_id", id),
			slog.String("error", err.Error()),
			slog.Duration("duration", state.Duration()))
	} else {
		state.Complete()
		r.logger.InfoContext(ctx, "Pipeline completed",
			slog.String("operation_id", id),
			slog.Int("outputs", len(state.Data.Outputs)),
			slog.Duration("duration", state.Duration()))
	}

	r.tracer.RecordOperationCompletion(span, state.Duration(), err)
	return state, err
}

func (r *Runner) executeSequential(ctx context.Context, state *OperationState) error {
	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			r.skipRemaining(state, i, "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		r.logger.DebugContext(ctx, "Executing step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(r.steps)))

		if err := r.executeStep(ctx, state, step); err != nil {
			r.skipRemaining(state, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			return NewStepError(step.ID(), err)
		}
	}
	return nil
}

func (r *Runner) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())

	ctx, span := r.tracer.TraceStepExecution(ctx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	err := step.Execute(ctx, state)
	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}

	duration := stepState.Duration()
	r.tracer.RecordStepCompletion(ctx, span, r.pipeline, step.ID(), duration, stepState.GetRecords(), err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return err
	}

	r.logger.InfoContext(ctx, "Step completed",
		slog.String("step", step.ID()),
		slog.Int("records", stepState.GetRecords()),
		slog.Duration("duration", duration))
	return nil
}

func (r *Runner) skipRemaining(state *OperationState, from int, reason string) {
	for _, step := range r.steps[from:] {
		if s := state.GetStep(step.ID()); s != nil {
			s.Skip(reason)
		}
	}
}
