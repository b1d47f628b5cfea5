package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records a snapshot of the Go runtime at the end of a run
type RuntimeMetrics struct {
	goRoutines    metric.Int64Gauge
	heapInUse     metric.Int64Gauge
	totalAlloc    metric.Int64Gauge
	gcCount       metric.Int64Gauge
	processUptime metric.Float64Gauge
}

// NewRuntimeMetrics creates the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	m := &RuntimeMetrics{}
	var err error

	if m.goRoutines, err = meter.Int64Gauge("loadprofile_goroutines",
		metric.WithDescription("Number of active goroutines")); err != nil {
		return nil, err
	}
	if m.heapInUse, err = meter.Int64Gauge("loadprofile_heap_inuse_bytes",
		metric.WithDescription("Heap memory in use"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.totalAlloc, err = meter.Int64Gauge("loadprofile_alloc_total_bytes",
		metric.WithDescription("Bytes allocated since the process started"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.gcCount, err = meter.Int64Gauge("loadprofile_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles")); err != nil {
		return nil, err
	}
	if m.processUptime, err = meter.Float64Gauge("loadprofile_process_uptime",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return m, nil
}

// RuntimeStats is one runtime snapshot
type RuntimeStats struct {
	GoRoutines int64
	HeapInUse  int64
	TotalAlloc int64
	GCCount    uint32
	Uptime     time.Duration
}

// Collect reads the runtime statistics and records them. A nil receiver
// only reads.
func (m *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		GoRoutines: int64(runtime.NumGoroutine()),
		HeapInUse:  int64(memStats.HeapInuse),
		TotalAlloc: int64(memStats.TotalAlloc),
		GCCount:    memStats.NumGC,
		Uptime:     time.Since(startTime),
	}
	if m == nil {
		return stats
	}

	m.goRoutines.Record(ctx, stats.GoRoutines)
	m.heapInUse.Record(ctx, stats.HeapInUse)
	m.totalAlloc.Record(ctx, stats.TotalAlloc)
	m.gcCount.Record(ctx, int64(stats.GCCount))
	m.processUptime.Record(ctx, stats.Uptime.Seconds())
	return stats
}
