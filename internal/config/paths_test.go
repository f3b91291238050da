package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	t.Run("default layout", func(t *testing.T) {
		paths := GetPaths(PathsConfig{})

		assert.Equal(t, filepath.Join("data", "mpox_data.csv"), paths.InputCSV)
		assert.Equal(t, filepath.Join("output", "mpox_data_analysis.csv"), paths.AnalysisCSV)
		assert.Equal(t, filepath.Join("output", "mpox_summary.xlsx"), paths.SummaryWorkbook)
		assert.Equal(t, filepath.Join("output", "figures"), paths.FiguresDir)
		assert.Equal(t, "logs", paths.LogsDir)
	})

	t.Run("custom base directory", func(t *testing.T) {
		base := t.TempDir()
		paths := GetPaths(PathsConfig{BaseDir: base, LogsDir: "var/log"})

		assert.Equal(t, filepath.Join(base, "data", "mpox_data.csv"), paths.InputCSV)
		assert.Equal(t, filepath.Join(base, "output", "figures"), paths.FiguresDir)
		assert.Equal(t, filepath.Join(base, "var", "log"), paths.LogsDir)
	})

	t.Run("absolute logs directory is kept", func(t *testing.T) {
		logs := t.TempDir()
		paths := GetPaths(PathsConfig{BaseDir: "project", LogsDir: logs})

		assert.Equal(t, logs, paths.LogsDir)
	})
}

func TestPaths_Helpers(t *testing.T) {
	paths := GetPaths(PathsConfig{BaseDir: "root"})

	assert.Equal(t, filepath.Join("root", "output", "figures", ChartTopCases), paths.GetFigurePath(ChartTopCases))
	assert.Equal(t, filepath.Join("root", "logs", "analysis.log"), paths.GetLogPath("analysis.log"))
	assert.Equal(t, filepath.Join("root", "logs", "analysis.prom"), paths.GetMetricsPath("analysis"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := GetPaths(PathsConfig{BaseDir: base})

	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(paths.LogsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// output directories are left to their writers
	assert.False(t, FileExists(filepath.Join(base, "output")))
}

func TestPaths_EnsureDirectoriesFailsOnFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "logs"), []byte("not a dir"), 0644))

	paths := GetPaths(PathsConfig{BaseDir: base})
	assert.Error(t, paths.EnsureDirectories())
}

func TestChartFiles(t *testing.T) {
	assert.Len(t, ChartFiles, 6)
	seen := make(map[string]bool)
	for _, name := range ChartFiles {
		assert.False(t, seen[name], "duplicate chart file %s", name)
		seen[name] = true
		assert.Equal(t, ".png", filepath.Ext(name))
	}
}

func TestPaths_LogPathResolution(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	paths := GetPaths(PathsConfig{BaseDir: "root"})
	paths.LogPathResolution(logger)

	out := buf.String()
	assert.Contains(t, out, "Path resolution summary")
	for _, name := range ChartFiles {
		assert.Contains(t, out, paths.GetFigurePath(name))
	}
}
