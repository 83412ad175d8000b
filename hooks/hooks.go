// Package hooks provides production-ready pipeline.Hook implementations:
// structured logging and in-memory metrics collection.
package hooks

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jxlgo/renderpipeline/pipeline"
	"github.com/jxlgo/renderpipeline/stage"
)

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after every stage execution via slog.
type LoggingHook struct {
	log *slog.Logger
}

// NewLoggingHook creates a LoggingHook backed by l. A nil l uses slog.Default.
func NewLoggingHook(l *slog.Logger) *LoggingHook {
	if l == nil {
		l = slog.Default()
	}
	return &LoggingHook{log: l}
}

func (h *LoggingHook) BeforeStage(name string, kind stage.Kind) {
	h.log.Debug("pipeline.stage.start", "stage", name, "kind", kind.String())
}

func (h *LoggingHook) AfterStage(name string, kind stage.Kind, d time.Duration) {
	h.log.Debug("pipeline.stage.done", "stage", name, "kind", kind.String(), "duration_us", d.Microseconds())
}

var _ pipeline.Hook = (*LoggingHook)(nil)

// ── In-memory metrics collector ───────────────────────────────────────────────

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsUs map[string]int64
	StageCalls       map[string]int64
	TotalRenders     int64
}

// InMemoryMetrics accumulates per-stage timing; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsUs map[string]int64
	stageCalls       map[string]int64

	totalRenders int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsUs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
	}
}

func (m *InMemoryMetrics) record(name string, d time.Duration) {
	m.mu.Lock()
	m.stageDurationsUs[name] += d.Microseconds()
	m.stageCalls[name]++
	m.mu.Unlock()
}

// RecordRender increments the total-renders counter; call once per render
// pass (the MetricsHook itself only sees per-stage events).
func (m *InMemoryMetrics) RecordRender() {
	atomic.AddInt64(&m.totalRenders, 1)
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsUs: make(map[string]int64, len(m.stageDurationsUs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		TotalRenders:     atomic.LoadInt64(&m.totalRenders),
	}
	for k, v := range m.stageDurationsUs {
		snap.StageDurationsUs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	return snap
}

// ── Metrics hook ──────────────────────────────────────────────────────────────

// MetricsHook feeds stage timing into an InMemoryMetrics collector.
type MetricsHook struct {
	collector *InMemoryMetrics
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c *InMemoryMetrics) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeStage(name string, kind stage.Kind) {}

func (h *MetricsHook) AfterStage(name string, kind stage.Kind, d time.Duration) {
	h.collector.record(name, d)
}

var _ pipeline.Hook = (*MetricsHook)(nil)
