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
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"eq=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR" default:"." validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

// AnalysisConfig contains analysis stage tuning
type AnalysisConfig struct {
	TopN            int  `yaml:"top_n" envconfig:"TOP_N" default:"10" validate:"gt=0"`
	RecentUpdates   int  `yaml:"recent_updates" envconfig:"RECENT_UPDATES" default:"10" validate:"gt=0"`
	SummaryWorkbook bool `yaml:"summary_workbook" envconfig:"SUMMARY_WORKBOOK" default:"true"`
	ConsoleReport   bool `yaml:"console_report" envconfig:"CONSOLE_REPORT" default:"true"`
}

// ChartsConfig contains chart rendering configuration
type ChartsConfig struct {
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" default:"10" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" default:"6" validate:"gt=0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, flags, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, flags, cfg, envOverrides())
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileFlags records the boolean keys present in the config file.
// A plain bool cannot tell "false" from "absent".
type fileFlags struct {
	Logging struct {
		Development *bool `yaml:"development"`
	} `yaml:"logging"`
	Analysis struct {
		SummaryWorkbook *bool `yaml:"summary_workbook"`
		ConsoleReport   *bool `yaml:"console_report"`
	} `yaml:"analysis"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, fileFlags, error) {
	var flags fileFlags

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, flags, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, flags, err
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, flags, err
	}

	return &cfg, flags, nil
}

// envOverrides returns the set of config keys explicitly set in the environment
func envOverrides() map[string]bool {
	set := make(map[string]bool)
	prefix := EnvPrefix + "_"
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		key, _, _ := strings.Cut(strings.TrimPrefix(kv, prefix), "=")
		set[key] = true
	}
	return set
}

// mergeConfigs merges file config with env config (env takes precedence).
// envConfig already carries defaults, so a file value wins unless the
// matching variable was set explicitly.
func mergeConfigs(fileConfig Config, flags fileFlags, envConfig Config, explicit map[string]bool) Config {
	pickString := func(key, file, env string) string {
		if explicit[key] || file == "" {
			return env
		}
		return file
	}
	pickInt := func(key string, file, env int) int {
		if explicit[key] || file == 0 {
			return env
		}
		return file
	}
	pickFloat := func(key string, file, env float64) float64 {
		if explicit[key] || file == 0 {
			return env
		}
		return file
	}
	pickBool := func(key string, file *bool, env bool) bool {
		if explicit[key] || file == nil {
			return env
		}
		return *file
	}

	envConfig.Logging.Level = pickString("LOGGING_LEVEL", fileConfig.Logging.Level, envConfig.Logging.Level)
	envConfig.Logging.Format = pickString("LOGGING_FORMAT", fileConfig.Logging.Format, envConfig.Logging.Format)
	envConfig.Logging.Development = pickBool("LOGGING_DEVELOPMENT", flags.Logging.Development, envConfig.Logging.Development)
	envConfig.Logging.Output = pickString("LOGGING_OUTPUT", fileConfig.Logging.Output, envConfig.Logging.Output)
	envConfig.Logging.FilePath = pickString("LOGGING_FILE_PATH", fileConfig.Logging.FilePath, envConfig.Logging.FilePath)
	envConfig.Paths.BaseDir = pickString("PATHS_BASE_DIR", fileConfig.Paths.BaseDir, envConfig.Paths.BaseDir)
	envConfig.Paths.LogsDir = pickString("PATHS_LOGS_DIR", fileConfig.Paths.LogsDir, envConfig.Paths.LogsDir)
	envConfig.Telemetry.TraceExporter = pickString("TELEMETRY_TRACE_EXPORTER", fileConfig.Telemetry.TraceExporter, envConfig.Telemetry.TraceExporter)
	envConfig.Telemetry.MetricExporter = pickString("TELEMETRY_METRIC_EXPORTER", fileConfig.Telemetry.MetricExporter, envConfig.Telemetry.MetricExporter)
	envConfig.Telemetry.Environment = pickString("TELEMETRY_ENVIRONMENT", fileConfig.Telemetry.Environment, envConfig.Telemetry.Environment)
	envConfig.Analysis.TopN = pickInt("ANALYSIS_TOP_N", fileConfig.Analysis.TopN, envConfig.Analysis.TopN)
	envConfig.Analysis.RecentUpdates = pickInt("ANALYSIS_RECENT_UPDATES", fileConfig.Analysis.RecentUpdates, envConfig.Analysis.RecentUpdates)
	envConfig.Analysis.SummaryWorkbook = pickBool("ANALYSIS_SUMMARY_WORKBOOK", flags.Analysis.SummaryWorkbook, envConfig.Analysis.SummaryWorkbook)
	envConfig.Analysis.ConsoleReport = pickBool("ANALYSIS_CONSOLE_REPORT", flags.Analysis.ConsoleReport, envConfig.Analysis.ConsoleReport)
	envConfig.Charts.WidthInches = pickFloat("CHARTS_WIDTH_INCHES", fileConfig.Charts.WidthInches, envConfig.Charts.WidthInches)
	envConfig.Charts.HeightInches = pickFloat("CHARTS_HEIGHT_INCHES", fileConfig.Charts.HeightInches, envConfig.Charts.HeightInches)

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	// Always JSON output
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if err := validator.New().Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, "; "))
		}
		return err
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "both",
		},
		Paths: PathsConfig{
			BaseDir: DefaultBaseDir,
			LogsDir: DefaultLogsDir,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			Environment:    "development",
		},
		Analysis: AnalysisConfig{
			TopN:            DefaultTopN,
			RecentUpdates:   DefaultRecentUpdates,
			SummaryWorkbook: true,
			ConsoleReport:   true,
		},
		Charts: ChartsConfig{
			WidthInches:  DefaultChartWidth,
			HeightInches: DefaultChartHeight,
		},
	}
}

// LoadOrDefault loads configuration and falls back to Default on error.
// The returned error is the load failure, for the caller to log.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}
