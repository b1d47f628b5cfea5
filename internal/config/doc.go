// Package config provides configuration management for loadprofile.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file passed with -config
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LOADPROFILE_<SECTION>_<FIELD>:
//
//	LOADPROFILE_LOGGING_LEVEL=debug
//	LOADPROFILE_PIPELINE_POWER_COLUMN="Power [kW]"
//	LOADPROFILE_PIPELINE_LOSS_FACTOR=0.8648
//	LOADPROFILE_OUTPUT_RENDER_CHART=false
//	LOADPROFILE_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/loadprofile.prom
//
// # Validation
//
// Load validates the merged configuration with go-playground/validator; the
// loss factor must be positive and the grid must divide an hour evenly.
package config
