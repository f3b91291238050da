package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to filePath, replacing any existing file.
// The parent directory is created when missing.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewIOError("failed to create output directory", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewIOError("failed to open output file", filePath, err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewIOError("failed to write BOM", filePath, err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewIOError("failed to write headers", filePath, err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewIOError(fmt.Sprintf("failed to write record %d", i), filePath, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewIOError("failed to flush CSV", filePath, err)
	}

	if err := file.Close(); err != nil {
		return apperrors.NewIOError("failed to close output file", filePath, err)
	}
	return nil
}

// TableWriter persists tables in the dataset's CSV format
type TableWriter struct {
	csv *CSVWriter
}

// NewTableWriter creates a TableWriter
func NewTableWriter() *TableWriter {
	return &TableWriter{csv: NewCSVWriter()}
}

// WriteTable writes table to path, one header row in the table's column order.
// Missing values are written as empty fields so the file reads back unchanged.
func (w *TableWriter) WriteTable(ctx context.Context, path string, table domain.Table) error {
	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = string(col)
	}

	records := make([][]string, 0, table.Len())
	for _, rec := range table.Records {
		row, err := FormatRecord(rec, table.Columns)
		if err != nil {
			return err
		}
		records = append(records, row)
	}

	if err := w.csv.WriteCSV(path, WriteOptions{Headers: headers, Records: records}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Table persisted",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("columns", len(headers)))

	return nil
}
