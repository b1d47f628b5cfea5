package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"loadprofile/internal/config"
	"loadprofile/internal/dataprocessing"
	"loadprofile/internal/errors"
)

// ChartRenderer draws a profile to a file.
type ChartRenderer interface {
	Render(ctx context.Context, p *dataprocessing.Profile, path string) error
}

// OutputPaths lists the files a run wrote. Chart is empty when no chart was drawn.
type OutputPaths struct {
	Summary string
	Profile string
	Chart   string
}

// Writer writes all outputs of one run into a directory.
type Writer struct {
	cfg     config.OutputConfig
	summary *SummaryExporter
	profile *ProfileExporter
	chart   ChartRenderer
	logger  *slog.Logger
}

// NewWriter creates an output writer. chart may be nil to skip the PDF.
func NewWriter(cfg config.OutputConfig, chart ChartRenderer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		cfg:     cfg,
		summary: NewSummaryExporter(logger),
		profile: NewProfileExporter(logger),
		chart:   chart,
		logger:  logger,
	}
}

// WriteAll writes the summary workbook, the profile CSV and, if enabled,
// the chart into dir concurrently. The first failure is returned and every
// output of this run is removed, so a failed run leaves no partial set.
func (w *Writer) WriteAll(ctx context.Context, res *dataprocessing.Result, dir string) (OutputPaths, error) {
	paths := OutputPaths{
		Summary: filepath.Join(dir, w.cfg.SummaryFile),
		Profile: filepath.Join(dir, w.cfg.ProfileFile),
	}
	drawChart := w.cfg.RenderChart && w.chart != nil
	if drawChart {
		paths.Chart = filepath.Join(dir, w.cfg.ChartFile)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return OutputPaths{}, errors.NewStorageError("failed to create output directory", err).WithContext("path", dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.summary.Export(gctx, res.Summary, paths.Summary)
	})
	g.Go(func() error {
		return w.profile.Export(gctx, res.Profile, paths.Profile)
	})
	if drawChart {
		g.Go(func() error {
			return w.chart.Render(gctx, res.Profile, paths.Chart)
		})
	}

	if err := g.Wait(); err != nil {
		w.logger.ErrorContext(ctx, "failed to write outputs",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		w.remove(ctx, paths)
		return OutputPaths{}, err
	}

	w.logger.InfoContext(ctx, "outputs written",
		slog.String("dir", dir),
		slog.Bool("chart", drawChart))
	return paths, nil
}

// remove deletes the outputs of a failed run. Paths that were never
// written are skipped.
func (w *Writer) remove(ctx context.Context, paths OutputPaths) {
	for _, path := range []string{paths.Summary, paths.Profile, paths.Chart} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.WarnContext(ctx, "failed to remove partial output",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
}
