// Package config provides centralized configuration management for gdreport.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GDR_<SECTION>_<FIELD>:
//
//	GDR_SERVER_PORT=8080
//	GDR_PATHS_DATA_FILE=data/survey_data.csv
//	GDR_PATHS_FEEDBACK_FILE=data/feedback.csv
//	GDR_LOGGING_LEVEL=debug
//	GDR_TELEMETRY_TRACES_EXPORTER=stdout
//
// # Survey Schema
//
// The grouping column can be set from the environment. The metric list is
// only configurable in the YAML file:
//
//	survey:
//	  group_column: "Where did you grow up?"
//	  metrics:
//	    - key: comfort
//	      column: "How comfortable are you with direct disagreement during group work?"
//	      label: "Comfort with disagreement"
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schema := cfg.Survey.Schema()
//
// For tests, Default() returns a configuration that needs no environment.
package config
