// Package operations runs the mpox pipelines as ordered lists of steps.
//
// A Runner executes its steps one after another on a shared OperationState.
// Each Step reads the results of earlier steps from OperationState.Data and
// stores its own. The first failing Step ends the run: the Runner marks the
// remaining steps skipped and returns a *StepError naming the Step.
//
// Every run and every Step gets a span, and the step count, duration, row
// count and error type are recorded through infrastructure.PipelineMetrics.
//
// Example usage:
//
//	tracer, err := operations.NewOperationTracer(providers)
//	runner := operations.NewAnalysisPipeline(cfg, paths, os.Stdout, tracer, logger)
//	state, err := runner.Run(ctx)
package operations
