package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PipelineConfig describes the input schema and the aggregation constants.
type PipelineConfig struct {
	FileExtension   string  `yaml:"file_extension" envconfig:"FILE_EXTENSION" validate:"required,startswith=."`
	TimestampColumn string  `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" validate:"required"`
	PowerColumn     string  `yaml:"power_column" envconfig:"POWER_COLUMN" validate:"required"`
	TimestampLayout string  `yaml:"timestamp_layout" envconfig:"TIMESTAMP_LAYOUT" validate:"required"`
	LossFactor      float64 `yaml:"loss_factor" envconfig:"LOSS_FACTOR" validate:"gt=0"`
	GridMinutes     int     `yaml:"grid_minutes" envconfig:"GRID_MINUTES" validate:"oneof=1 2 3 4 5 6 10 12 15 20 30 60"`
}

// OutputConfig names the files written next to the input folder.
type OutputConfig struct {
	SummaryDir  string `yaml:"summary_dir" envconfig:"SUMMARY_DIR" validate:"required"`
	SummaryFile string `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required,endswith=.xlsx"`
	ProfileFile string `yaml:"profile_file" envconfig:"PROFILE_FILE" validate:"required,endswith=.csv"`
	ChartFile   string `yaml:"chart_file" envconfig:"CHART_FILE" validate:"required,endswith=.pdf"`
	RenderChart bool   `yaml:"render_chart" envconfig:"RENDER_CHART"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, then the YAML file at path
// (if non-empty), then LOADPROFILE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable are left untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML configuration onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			FileExtension:   DefaultFileExtension,
			TimestampColumn: DefaultTimestampColumn,
			PowerColumn:     DefaultPowerColumn,
			TimestampLayout: DefaultTimestampLayout,
			LossFactor:      DefaultLossFactor,
			GridMinutes:     DefaultGridMinutes,
		},
		Output: OutputConfig{
			SummaryDir:  DefaultSummaryDir,
			SummaryFile: DefaultSummaryFile,
			ProfileFile: DefaultProfileFile,
			ChartFile:   DefaultChartFile,
			RenderChart: true,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
