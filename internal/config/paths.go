package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for every file the pipeline reads or writes.
type Paths struct {
	BaseDir string
	LogsDir string

	// Analysis stage
	InputCSV        string
	AnalysisCSV     string
	SummaryWorkbook string

	// Visualization stage
	FiguresDir string
}

// GetPaths resolves the fixed pipeline paths against the configured base directory.
// Paths stay relative when the base directory is relative, so the binaries work
// from the project root the same way the fixed layout describes.
func GetPaths(cfg PathsConfig) *Paths {
	base := cfg.BaseDir
	if base == "" {
		base = DefaultBaseDir
	}
	logs := cfg.LogsDir
	if logs == "" {
		logs = DefaultLogsDir
	}
	if !filepath.IsAbs(logs) {
		logs = filepath.Join(base, logs)
	}

	return &Paths{
		BaseDir:         base,
		LogsDir:         logs,
		InputCSV:        filepath.Join(base, DefaultInputCSV),
		AnalysisCSV:     filepath.Join(base, DefaultAnalysisCSV),
		SummaryWorkbook: filepath.Join(base, DefaultSummaryWorkbook),
		FiguresDir:      filepath.Join(base, DefaultFiguresDir),
	}
}

// EnsureDirectories creates the directories shared by every binary.
// Output directories are created by the writers that need them.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetFigurePath returns the path for a chart image
func (p *Paths) GetFigurePath(filename string) string {
	return filepath.Join(p.FiguresDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetMetricsPath returns the Prometheus textfile path for a binary
func (p *Paths) GetMetricsPath(binary string) string {
	return filepath.Join(p.LogsDir, binary+".prom")
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	figures := make([]string, len(ChartFiles))
	for i, name := range ChartFiles {
		figures[i] = p.GetFigurePath(name)
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("figures", p.FiguresDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("input_csv", p.InputCSV),
			slog.Bool("input_exists", FileExists(p.InputCSV)),
			slog.String("analysis_csv", p.AnalysisCSV),
			slog.String("summary_workbook", p.SummaryWorkbook),
			slog.Any("figures", figures),
		))
}
