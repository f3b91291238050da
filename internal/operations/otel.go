package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"mpoxcli/internal/infrastructure"
)

const (
	TracerName = "mpoxcli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer from the initialized providers.
// A nil providers value yields a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	tracer := tracenoop.NewTracerProvider().Tracer(TracerName)
	meter := noop.NewMeterProvider().Meter(infrastructure.MeterName)
	if providers != nil {
		if providers.Tracer != nil {
			tracer = providers.Tracer
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.CreatePipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &OperationTracer{
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// Metrics returns the pipeline instruments
func (ot *OperationTracer) Metrics() *infrastructure.PipelineMetrics {
	if ot == nil {
		return nil
	}
	return ot.metrics
}

// TraceOperationExecution creates a span for the entire run
func (ot *OperationTracer) TraceOperationExecution(ctx context.Context, operationID, pipeline string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.execute."+pipeline,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.pipeline", pipeline),
		),
	)
}

// TraceStepExecution creates a span for one Step
func (ot *OperationTracer) TraceStepExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion records Step metrics and closes out its span status
func (ot *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, pipeline, stepID string, duration time.Duration, records int, err error) {
	success := err == nil
	infrastructure.RecordStepMetrics(ctx, ot.metrics, pipeline, stepID, duration, success)

	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Int("step.records", records),
	)

	if success {
		span.SetStatus(codes.Ok, "step completed successfully")
		return
	}

	infrastructure.RecordPipelineError(ctx, ot.metrics, pipeline, stepID, err)
	infrastructure.RecordError(ctx, err)
}

// RecordOperationCompletion sets the final status of the run span
func (ot *OperationTracer) RecordOperationCompletion(span trace.Span, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("operation.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed successfully")
}
