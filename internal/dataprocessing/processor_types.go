package dataprocessing

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"loadprofile/internal/infrastructure"
)

// Result is everything one run produces. It is only returned whole.
type Result struct {
	// Merged is the concatenated input before any cleaning.
	Merged *Table
	// Summary is Merged without rows whose power is zero.
	Summary *Table
	Matrix  *PivotMatrix
	Profile *Profile
	Stats   RunStats
}

// RunStats counts what each stage produced
type RunStats struct {
	Files       int
	MergedRows  int
	SummaryRows int
	Readings    int
	Slots       int
	Dates       int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used for stage spans
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithMetrics records stage and run metrics
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}
