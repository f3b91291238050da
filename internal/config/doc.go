// Package config provides centralized configuration management for the mpox
// analysis pipeline. It loads configuration from multiple sources, validates it,
// and resolves every fixed file location the two batch stages use.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml or configs/config.yaml in the working directory
//	3. Default values (lowest priority)
//
// With no environment and no file, the defaults reproduce the fixed layout:
//
//	data/mpox_data.csv              analysis input
//	output/mpox_data_analysis.csv   analysis output, visualization input
//	output/figures/*.png            charts
//
// # Environment Variables
//
// All environment variables follow the pattern MPOX_<SECTION>_<KEY>:
//
//	MPOX_LOGGING_LEVEL=debug
//	MPOX_PATHS_BASE_DIR=/srv/mpox
//	MPOX_TELEMETRY_TRACE_EXPORTER=stdout
//	MPOX_ANALYSIS_TOP_N=10
//
// # Path Management
//
// Paths is the single source of truth for file locations:
//
//	paths := config.GetPaths(cfg.Paths)
//	figure := paths.GetFigurePath(config.ChartTopCases)
//
// # Validation
//
// Configuration is validated at load time with go-playground/validator struct
// tags. Binaries fall back to Default() when loading fails.
package config
