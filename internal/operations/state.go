package operations

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"mpoxcli/internal/dataprocessing"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
)

// PipelineData carries intermediate results between steps.
// Each step reads what earlier steps stored and adds its own output.
type PipelineData struct {
	Raw        *dataprocessing.RawTable
	Table      domain.Table
	Statistics []dataprocessing.ColumnSummary
	Regions    []dataprocessing.RegionTotals
	MostRecent domain.Table
	TopCases   domain.Table
	TopDeaths  domain.Table
	Enriched   domain.Table
	Derivation dataprocessing.DerivationStats

	// Outputs lists every file written, in order
	Outputs []string
}

// OperationState represents the complete state of a pipeline run
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Pipeline  string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time

	Steps map[string]*StepState
	order []string

	Data *PipelineData

	Error error

	metrics *infrastructure.PipelineMetrics
}

// NewOperationState creates a new operation state
func NewOperationState(id, pipeline string) *OperationState {
	return &OperationState{
		ID:        id,
		Pipeline:  pipeline,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Data:      &PipelineData{},
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Status = OperationStatusRunning
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// AddStep registers the state of a Step, keeping insertion order
func (p *OperationState) AddStep(s *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.Steps[s.ID]; !exists {
		p.order = append(p.order, s.ID)
	}
	p.Steps[s.ID] = s
}

// GetStep returns the state of a Step
func (p *OperationState) GetStep(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Steps[id]
}

// StepOrder returns the registered Step IDs in execution order
func (p *OperationState) StepOrder() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]string(nil), p.order...)
}

// AddOutput records a file written by a Step
func (p *OperationState) AddOutput(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Data.Outputs = append(p.Data.Outputs, path)
}

// RecordRecords stores the row count a Step produced and counts it in metrics
func (p *OperationState) RecordRecords(ctx context.Context, stepID string, n int) {
	if step := p.GetStep(stepID); step != nil {
		step.SetRecords(n)
	}
	infrastructure.RecordRecordsProcessed(ctx, p.metrics, stepID, n)
}

// RecordChart records a rendered chart file
func (p *OperationState) RecordChart(ctx context.Context, path string) {
	p.AddOutput(path)
	infrastructure.RecordChartRendered(ctx, p.metrics, filepath.Base(path))
}

// Duration returns the run duration
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
