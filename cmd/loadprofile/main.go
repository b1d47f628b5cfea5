package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"loadprofile/internal/chart"
	"loadprofile/internal/config"
	"loadprofile/internal/dataprocessing"
	"loadprofile/internal/errors"
	"loadprofile/internal/exporter"
	"loadprofile/internal/files"
	"loadprofile/internal/infrastructure"
	"loadprofile/internal/validation"
)

// Exit codes
const (
	exitOK        = 0
	exitDataError = 1
	exitNoInput   = 2
)

type options struct {
	inDir       string
	outDir      string
	configPath  string
	interactive bool
	chart       *bool
	metricsFile string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout))
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &options{}
	fs.StringVar(&opts.inDir, "in", "", "input directory holding the meter exports")
	fs.StringVar(&opts.outDir, "out", "", "output directory (defaults to <in>/Summary)")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for a folder and offer a retry when no data is found")
	chartFlag := fs.Bool("chart", true, "render the profile chart as PDF")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in the Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// only an explicit -chart overrides the configuration
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "chart" {
			opts.chart = chartFlag
		}
	})

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return exitNoInput
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return exitDataError
	}
	if opts.chart != nil {
		cfg.Output.RenderChart = *opts.chart
	}
	if opts.metricsFile != "" {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    config.AppName,
		ServiceVersion: config.AppVersion,
		TraceExporter:  cfg.Telemetry.TraceExporter,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitDataError
	}
	startTime := time.Now()
	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Failed to create runtime metrics", slog.String("error", err.Error()))
	}
	defer func() {
		if cfg.Telemetry.MetricsFile != "" {
			runtimeMetrics.Collect(ctx, startTime)
			if err := providers.WriteMetricsFile(cfg.Telemetry.MetricsFile); err != nil {
				logger.Warn("Failed to write metrics file", slog.String("error", err.Error()))
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down telemetry", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Failed to create pipeline metrics", slog.String("error", err.Error()))
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting load profile processing",
		slog.String("version", config.AppVersion),
		slog.String("input_dir", opts.inDir),
		slog.String("output_dir", opts.outDir),
		slog.Bool("interactive", opts.interactive),
		slog.Bool("chart", cfg.Output.RenderChart))

	engineOpts := []dataprocessing.Option{
		dataprocessing.WithLogger(infrastructure.WithComponent(logger, "engine")),
		dataprocessing.WithMetrics(metrics),
	}
	if providers.Tracer != nil {
		engineOpts = append(engineOpts, dataprocessing.WithTracer(providers.Tracer))
	}

	var renderer exporter.ChartRenderer
	if cfg.Output.RenderChart {
		renderer = chart.NewRenderer(logger)
	}

	reader := dataprocessing.NewExcelReader(logger, dataprocessing.WithTimeLayout(cfg.Pipeline.TimestampLayout))
	d := &driver{
		cfg:       cfg,
		logger:    logger,
		engine:    dataprocessing.NewEngine(reader, cfg.Pipeline, engineOpts...),
		validator: validation.NewFileValidator(logger),
		discovery: files.NewDiscovery(""),
		writer:    exporter.NewWriter(cfg.Output, renderer, infrastructure.WithComponent(logger, "exporter")),
		prompt:    newPrompter(stdin, stdout),
		out:       stdout,
	}
	return d.loop(ctx, opts)
}

// driver runs the pick-folder, process, write cycle until it succeeds, hits
// a fatal error or the user gives up.
type driver struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *dataprocessing.Engine
	validator *validation.FileValidator
	discovery *files.Discovery
	writer    *exporter.Writer
	prompt    *prompter
	out       io.Writer
}

func (d *driver) loop(ctx context.Context, opts *options) int {
	dir := opts.inDir
	for {
		if dir == "" {
			if !opts.interactive {
				fmt.Fprintln(d.out, "No input directory given (use -in or -interactive).")
				return exitNoInput
			}
			answer, ok := d.prompt.Ask("Folder with the meter exports: ")
			if !ok {
				if d.prompt.Confirm("No folder chosen, try again? [y/N] ") {
					continue
				}
				return exitNoInput
			}
			dir = answer
		}

		res, paths, err := d.process(ctx, dir, opts.outDir)
		if err == nil {
			d.report(res, paths)
			return exitOK
		}

		if errors.IsRetryable(err) || errors.IsType(err, errors.ErrTypeValidation) {
			d.logger.WarnContext(ctx, "No usable input",
				slog.String("input_dir", dir),
				slog.String("error_type", string(errors.TypeOf(err))),
				slog.String("error", err.Error()))
			fmt.Fprintf(d.out, "%s\n", userMessage(err))
			if opts.interactive && d.prompt.Confirm("Select another folder? [y/N] ") {
				dir = ""
				continue
			}
			return exitNoInput
		}

		fmt.Fprintf(d.out, "Error: %s\n", userMessage(err))
		return exitDataError
	}
}

// process runs one attempt over dir and writes the outputs.
func (d *driver) process(ctx context.Context, dir, outDir string) (*dataprocessing.Result, exporter.OutputPaths, error) {
	if err := d.validator.ValidateInputDirectory(dir); err != nil {
		return nil, exporter.OutputPaths{}, err
	}

	found, err := d.discovery.FindByExtension(dir, d.cfg.Pipeline.FileExtension)
	if err != nil {
		return nil, exporter.OutputPaths{}, errors.NewAppError(errors.ErrTypeValidation, "failed to list input directory", err)
	}
	if len(found) == 0 {
		return nil, exporter.OutputPaths{}, errors.NewEmptyInputError(
			fmt.Sprintf("no %s files found in %s", d.cfg.Pipeline.FileExtension, dir))
	}
	d.logger.InfoContext(ctx, "Input files discovered",
		slog.String("input_dir", dir),
		slog.Int("count", len(found)))

	res, err := d.engine.Run(ctx, files.Paths(found))
	if err != nil {
		return nil, exporter.OutputPaths{}, err
	}

	summaryDir := outDir
	if summaryDir == "" {
		summaryDir, err = files.NewManager(dir, d.logger).EnsureDirectory(d.cfg.Output.SummaryDir)
		if err != nil {
			return nil, exporter.OutputPaths{}, errors.NewStorageError("failed to create summary directory", err)
		}
	}
	if err := d.validator.ValidateOutputDirectory(summaryDir); err != nil {
		return nil, exporter.OutputPaths{}, err
	}

	paths, err := d.writer.WriteAll(ctx, res, summaryDir)
	if err != nil {
		return nil, exporter.OutputPaths{}, err
	}
	return res, paths, nil
}

func (d *driver) report(res *dataprocessing.Result, paths exporter.OutputPaths) {
	s := res.Stats
	fmt.Fprintf(d.out, "Merged %d rows from %d files.\n", s.MergedRows, s.Files)
	fmt.Fprintf(d.out, "Summary: %d rows with power -> %s\n", s.SummaryRows, paths.Summary)
	fmt.Fprintf(d.out, "Profile: %d slots over %d days -> %s\n", s.Slots, s.Dates, paths.Profile)
	if paths.Chart != "" {
		fmt.Fprintf(d.out, "Chart: %s\n", paths.Chart)
	}
}

// userMessage is the console text for err: the AppError message, plus the
// cause for read failures.
func userMessage(err error) string {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Type == errors.ErrTypeFileRead && appErr.Cause != nil {
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	return appErr.Message
}
