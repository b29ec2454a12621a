package qtensor

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting storage metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    allocBytes   prometheus.Counter
//	    reallocs     prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordAlloc(bytes int, d time.Duration, err error) {
//	    p.allocBytes.Add(float64(bytes))
//	}
type MetricsCollector interface {
	// RecordAlloc is called after each request to the allocator.
	// err is nil if successful.
	RecordAlloc(bytes int, duration time.Duration, err error)

	// RecordFree is called after each buffer is handed back to the allocator.
	RecordFree(bytes int, err error)

	// RecordResize is called after each Resize of an owned buffer.
	// reallocated is false when the existing capacity was reused.
	RecordResize(reallocated bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFree(int, error)                 {}
func (NoopMetricsCollector) RecordResize(bool)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount      atomic.Int64
	AllocErrors     atomic.Int64
	AllocBytes      atomic.Int64
	AllocTotalNanos atomic.Int64
	FreeCount       atomic.Int64
	FreeErrors      atomic.Int64
	FreeBytes       atomic.Int64
	ResizeCount     atomic.Int64
	ReallocCount    atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes int, duration time.Duration, err error) {
	b.AllocCount.Add(1)
	b.AllocTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(int64(bytes))
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(bytes int, err error) {
	b.FreeCount.Add(1)
	if err != nil {
		b.FreeErrors.Add(1)
		return
	}
	b.FreeBytes.Add(int64(bytes))
}

// RecordResize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResize(reallocated bool) {
	b.ResizeCount.Add(1)
	if reallocated {
		b.ReallocCount.Add(1)
	}
}

// Stats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) Stats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:    b.AllocCount.Load(),
		AllocErrors:   b.AllocErrors.Load(),
		AllocBytes:    b.AllocBytes.Load(),
		AllocAvgNanos: b.avgAllocNanos(),
		FreeCount:     b.FreeCount.Load(),
		FreeErrors:    b.FreeErrors.Load(),
		FreeBytes:     b.FreeBytes.Load(),
		ResizeCount:   b.ResizeCount.Load(),
		ReallocCount:  b.ReallocCount.Load(),
	}
}

func (b *BasicMetricsCollector) avgAllocNanos() int64 {
	count := b.AllocCount.Load()
	if count == 0 {
		return 0
	}
	return b.AllocTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount    int64
	AllocErrors   int64
	AllocBytes    int64
	AllocAvgNanos int64
	FreeCount     int64
	FreeErrors    int64
	FreeBytes     int64
	ResizeCount   int64
	ReallocCount  int64
}

// ReuseRatio returns the fraction of resizes served from existing capacity.
func (s BasicMetricsStats) ReuseRatio() float64 {
	if s.ResizeCount == 0 {
		return 0
	}
	return float64(s.ResizeCount-s.ReallocCount) / float64(s.ResizeCount)
}
