package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"loadprofile/internal/config"
	"loadprofile/internal/errors"
)

const (
	ServiceName = config.AppName
	MeterName   = "loadprofile"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	TraceExporter  string    // "stdout", "none"
	TraceWriter    io.Writer // stdout exporter destination, os.Stderr when nil
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry receives every OTel metric through the Prometheus exporter.
	Registry *promclient.Registry
	Logger   *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: config.AppVersion,
		TraceExporter:  "none",
	}
}

// InitializeOTel sets up tracing and a Prometheus-backed meter provider.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
	case "none", "":
		// No exporter - spans go to the global no-op provider
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	return nil
}

// initializeMetrics wires an OTel meter to a private Prometheus registry
func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)

	return nil
}

// PipelineMetrics holds the metrics recorded by a processing run
type PipelineMetrics struct {
	RunsTotal      metric.Int64Counter
	RunDuration    metric.Float64Histogram
	StageDuration  metric.Float64Histogram
	ErrorsTotal    metric.Int64Counter
	FilesRead      metric.Int64Counter
	RowsMerged     metric.Int64Counter
	RowsSummarised metric.Int64Counter
	ReadingsKeyed  metric.Int64Counter
	SlotsProfiled  metric.Int64Counter
}

// CreatePipelineMetrics creates the processing metrics on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.RunsTotal, err = meter.Int64Counter("loadprofile_runs",
		metric.WithDescription("Total number of processing runs")); err != nil {
		return nil, err
	}
	if m.RunDuration, err = meter.Float64Histogram("loadprofile_run_duration",
		metric.WithDescription("Processing run duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram("loadprofile_stage_duration",
		metric.WithDescription("Processing stage duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ErrorsTotal, err = meter.Int64Counter("loadprofile_errors",
		metric.WithDescription("Total number of processing errors by type")); err != nil {
		return nil, err
	}
	if m.FilesRead, err = meter.Int64Counter("loadprofile_files_read",
		metric.WithDescription("Input files merged")); err != nil {
		return nil, err
	}
	if m.RowsMerged, err = meter.Int64Counter("loadprofile_rows_merged",
		metric.WithDescription("Rows in the merged table")); err != nil {
		return nil, err
	}
	if m.RowsSummarised, err = meter.Int64Counter("loadprofile_rows_summarised",
		metric.WithDescription("Rows kept in the summary report")); err != nil {
		return nil, err
	}
	if m.ReadingsKeyed, err = meter.Int64Counter("loadprofile_readings_keyed",
		metric.WithDescription("Grid-aligned readings after deduplication")); err != nil {
		return nil, err
	}
	if m.SlotsProfiled, err = meter.Int64Counter("loadprofile_slots_profiled",
		metric.WithDescription("Time-of-day slots in the profile")); err != nil {
		return nil, err
	}

	return m, nil
}

// RunCounts is what a run produced, for RecordRunMetrics
type RunCounts struct {
	Files       int
	MergedRows  int
	SummaryRows int
	Readings    int
	Slots       int
}

// RecordRunMetrics records the outcome of one processing run
func RecordRunMetrics(ctx context.Context, metrics *PipelineMetrics, counts RunCounts, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := attribute.String("status", "success")
	if err != nil {
		status = attribute.String("status", "failure")
	}
	metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(status))
	metrics.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(status))

	if err != nil {
		metrics.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(errorTypeAttr(err)))
		return
	}

	metrics.FilesRead.Add(ctx, int64(counts.Files))
	metrics.RowsMerged.Add(ctx, int64(counts.MergedRows))
	metrics.RowsSummarised.Add(ctx, int64(counts.SummaryRows))
	metrics.ReadingsKeyed.Add(ctx, int64(counts.Readings))
	metrics.SlotsProfiled.Add(ctx, int64(counts.Slots))
}

// RecordStageMetrics records the duration of one processing stage
func RecordStageMetrics(ctx context.Context, metrics *PipelineMetrics, stage string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

func errorTypeAttr(err error) attribute.KeyValue {
	errType := string(errors.TypeOf(err))
	if errType == "" {
		errType = "UNKNOWN"
	}
	return attribute.String("error.type", errType)
}

// WriteMetricsFile writes the registry in the Prometheus text format so a
// node_exporter textfile collector can pick up the last run.
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if p.Registry == nil {
		return fmt.Errorf("metrics are not initialized")
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return errors.NewStorageError("failed to write metrics file", err).WithContext("path", path)
	}
	return nil
}

// Shutdown flushes and stops the OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
