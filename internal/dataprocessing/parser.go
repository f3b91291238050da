package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// RawTable is a CSV file as read from disk: string cells keyed by column.
// No value has been interpreted yet.
type RawTable struct {
	Path string
	// Columns is the expected schema in declared order
	Columns []domain.Column
	// Header is the column order found in the file
	Header []domain.Column
	Rows   []RawRow
}

// RawRow is one data line of a RawTable
type RawRow struct {
	// Line is the 1-based line number in the source file
	Line  int
	Cells map[domain.Column]string
}

// Get returns the cell for col
func (r RawRow) Get(col domain.Column) (string, bool) {
	v, ok := r.Cells[col]
	return v, ok
}

// LoadCSV reads the CSV file at path and checks its header against columns.
// The header must name exactly the expected columns, in any order.
func LoadCSV(ctx context.Context, path string, columns []domain.Column) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError("failed to open input file", path, err)
	}
	defer f.Close()

	table, err := ReadCSV(ctx, f, columns)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithPath(path)
		}
		return nil, err
	}
	table.Path = path

	slog.InfoContext(ctx, "Loaded CSV file",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Header)))

	return table, nil
}

// ReadCSV reads CSV text from r. See LoadCSV.
func ReadCSV(ctx context.Context, r io.Reader, columns []domain.Column) (*RawTable, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	headerFields, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("missing header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}

	header, err := validateHeader(headerFields, columns)
	if err != nil {
		return nil, err
	}

	table := &RawTable{
		Columns: append([]domain.Column(nil), columns...),
		Header:  header,
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed CSV", err)
		}

		line, _ := reader.FieldPos(0)
		if len(fields) != len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("field count mismatch: expected %d fields, got %d", len(header), len(fields)), nil).
				WithContext("line", line)
		}

		cells := make(map[domain.Column]string, len(header))
		for i, col := range header {
			cells[col] = fields[i]
		}
		table.Rows = append(table.Rows, RawRow{Line: line, Cells: cells})
	}

	return table, nil
}

// validateHeader maps header fields onto the expected columns
func validateHeader(fields []string, columns []domain.Column) ([]domain.Column, error) {
	expected := make(map[domain.Column]bool, len(columns))
	for _, col := range columns {
		expected[col] = true
	}

	seen := make(map[domain.Column]bool, len(fields))
	header := make([]domain.Column, 0, len(fields))

	for i, field := range fields {
		col := domain.Column(strings.TrimSpace(field))
		if col == "" {
			return nil, apperrors.NewParsingError(fmt.Sprintf("empty header at column %d", i+1), nil)
		}
		if seen[col] {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate header: %s", col), nil)
		}
		if !expected[col] {
			return nil, apperrors.NewParsingError(fmt.Sprintf("unexpected column: %s", col), nil)
		}
		seen[col] = true
		header = append(header, col)
	}

	var missing []string
	for _, col := range columns {
		if !seen[col] {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	return header, nil
}
