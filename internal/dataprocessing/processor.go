package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loadprofile/internal/config"
	"loadprofile/internal/errors"
	"loadprofile/internal/infrastructure"
)

const tracerName = "loadprofile/dataprocessing"

// Engine runs the merge, summary and profile stages over a set of files.
// It is synchronous: each stage finishes before the next one starts.
type Engine struct {
	merger   *TableMerger
	deriver  TimeKeyDeriver
	pipeline config.PipelineConfig
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// NewEngine creates an engine that reads files with reader.
func NewEngine(reader TableReader, pipeline config.PipelineConfig, opts ...Option) *Engine {
	e := &Engine{
		pipeline: pipeline,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.merger = NewTableMerger(reader, e.logger)
	e.deriver = TimeKeyDeriver{
		TimestampColumn: pipeline.TimestampColumn,
		PowerColumn:     pipeline.PowerColumn,
		Layout:          pipeline.TimestampLayout,
		GridMinutes:     pipeline.GridMinutes,
	}
	return e
}

// Run merges paths and produces the summary table and the 24h profile.
// On any error nothing is returned: there is no partial result. The
// context is only consulted before the merge starts.
func (e *Engine) Run(ctx context.Context, paths []string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "dataprocessing.Run",
		trace.WithAttributes(attribute.Int("files", len(paths))))
	defer span.End()

	start := time.Now()
	res, err := e.run(ctx, paths)

	stats := RunStats{Files: len(paths)}
	if res != nil {
		stats = res.Stats
	}
	infrastructure.RecordRunMetrics(ctx, e.metrics, infrastructure.RunCounts{
		Files:       stats.Files,
		MergedRows:  stats.MergedRows,
		SummaryRows: stats.SummaryRows,
		Readings:    stats.Readings,
		Slots:       stats.Slots,
	}, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.ErrorContext(ctx, "processing failed",
			slog.String("error_type", string(errors.TypeOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows.merged", stats.MergedRows),
		attribute.Int("rows.summary", stats.SummaryRows),
		attribute.Int("profile.slots", stats.Slots),
	)
	e.logger.InfoContext(ctx, "processing complete",
		slog.Int("files", stats.Files),
		slog.Int("merged_rows", stats.MergedRows),
		slog.Int("summary_rows", stats.SummaryRows),
		slog.Int("readings", stats.Readings),
		slog.Int("slots", stats.Slots),
		slog.Int("dates", stats.Dates),
		slog.Duration("duration", time.Since(start)))

	return res, nil
}

func (e *Engine) run(ctx context.Context, paths []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCanceledError(err)
	}

	res := &Result{Stats: RunStats{Files: len(paths)}}

	err := e.stage(ctx, "merge", func(ctx context.Context) error {
		merged, err := e.merger.Merge(ctx, paths)
		if err != nil {
			return err
		}
		if merged.Len() == 0 {
			return errors.NewEmptyInputError("the input files contain no data rows")
		}
		res.Merged = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Stats.MergedRows = res.Merged.Len()

	err = e.stage(ctx, "summary", func(ctx context.Context) error {
		summary, err := FilterActive(res.Merged, e.pipeline.PowerColumn)
		res.Summary = summary
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Stats.SummaryRows = res.Summary.Len()

	var readings []Reading
	err = e.stage(ctx, "keying", func(ctx context.Context) error {
		var err error
		readings, err = e.deriver.Derive(Normalize(res.Merged))
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Stats.Readings = len(readings)

	err = e.stage(ctx, "pivot", func(ctx context.Context) error {
		m, err := BuildPivot(readings)
		if err != nil {
			return err
		}
		res.Matrix = m
		res.Profile = Aggregate(m, e.pipeline.LossFactor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Stats.Slots = len(res.Matrix.Slots)
	res.Stats.Dates = len(res.Matrix.Dates)

	return res, nil
}

// stage runs fn inside its own span and records its duration.
func (e *Engine) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, "dataprocessing."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	infrastructure.RecordStageMetrics(ctx, e.metrics, name, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	e.logger.DebugContext(ctx, "stage complete",
		slog.String("stage", name),
		slog.Duration("duration", time.Since(start)))
	return nil
}
