package systems

import (
	"context"
	"time"
)

// System is one stage of the simulation step. Systems run on the simulation
// goroutine in descending Priority order.
type System interface {
	Name() string
	Priority() Priority

	Initialize(ctx context.Context) error
	Update(deltaTime float64, now time.Duration) error
	Shutdown(ctx context.Context) error
}

// Priority defines execution order priority
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
}

// Record folds one execution into m.
func (m *Metrics) Record(took time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if took > m.MaxExecutionTime {
		m.MaxExecutionTime = took
	}
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
