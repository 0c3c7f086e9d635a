package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/cartstore/internal/event"
)

// Status is the outcome of a single dispatch.
type Status int

const (
	// StatusApplied means the event was reduced and committed.
	StatusApplied Status = iota
	// StatusRejected means a pre-dispatch hook refused the event.
	StatusRejected
	// StatusInvalid means the reducer reported an invalid payload.
	StatusInvalid
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	typeMetrics map[event.Type]*TypeMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalDuration   time.Duration
}

// TypeMetrics holds metrics for a specific event type.
type TypeMetrics struct {
	Type          event.Type
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastStatus    Status
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		typeMetrics: make(map[event.Type]*TypeMetrics),
	}
}

// RecordDispatch records one dispatch of an event type.
func (m *Metrics) RecordDispatch(t event.Type, duration time.Duration, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	if status != StatusApplied {
		m.totalErrors++
	}

	tm := m.typeMetrics[t]
	if tm == nil {
		tm = &TypeMetrics{
			Type:        t,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.typeMetrics[t] = tm
	}

	tm.DispatchCount++
	tm.TotalDuration += duration
	tm.LastStatus = status
	tm.LastDispatch = time.Now()
	tm.MinDuration = min(tm.MinDuration, duration)
	tm.MaxDuration = max(tm.MaxDuration, duration)
	if status != StatusApplied {
		tm.ErrorCount++
	}
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the number of rejected or invalid dispatches.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// TypeStats returns a copy of the metrics for an event type, or nil.
func (m *Metrics) TypeStats(t event.Type) *TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tm := m.typeMetrics[t]
	if tm == nil {
		return nil
	}
	c := *tm
	return &c
}

// TopTypes returns the n most dispatched event types.
func (m *Metrics) TopTypes(n int) []*TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]*TypeMetrics, 0, len(m.typeMetrics))
	for _, tm := range m.typeMetrics {
		c := *tm
		types = append(types, &c)
	}

	sort.Slice(types, func(i, j int) bool {
		if types[i].DispatchCount != types[j].DispatchCount {
			return types[i].DispatchCount > types[j].DispatchCount
		}
		return types[i].Type < types[j].Type
	})

	return types[:min(n, len(types))]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.typeMetrics = make(map[event.Type]*TypeMetrics)
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalDuration = 0
}
