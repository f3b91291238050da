package exporter

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    domain.NullFloat
		expected string
	}{
		{name: "missing", input: domain.NullFloat{}, expected: ""},
		{name: "zero value", input: domain.FloatOf(0), expected: "0"},
		{name: "fraction", input: domain.FloatOf(0.2), expected: "0.2"},
		{name: "negative", input: domain.FloatOf(-0.5), expected: "-0.5"},
		{name: "integral", input: domain.FloatOf(3), expected: "3"},
		{name: "repeating", input: domain.FloatOf(2.0 / 3.0), expected: "0.6666666666666666"},
		{name: "tiny", input: domain.FloatOf(1e-7), expected: "1e-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatFloat(tt.input)
			assert.Equal(t, tt.expected, got)

			if tt.input.Valid {
				back, err := strconv.ParseFloat(got, 64)
				require.NoError(t, err)
				assert.Equal(t, tt.input.Float64, back)
			}
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "", formatInt(domain.NullInt{}))
	assert.Equal(t, "0", formatInt(domain.IntOf(0)))
	assert.Equal(t, "9223372036854775807", formatInt(domain.IntOf(math.MaxInt64)))
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "", formatMonth(domain.NullMonth{}))
	assert.Equal(t, "Sep 2024", formatMonth(domain.MonthValue(domain.MonthOf(2024, time.September))))
}

func TestFormatRecord(t *testing.T) {
	rec := domain.Record{
		Country:         "Peru",
		CaseTotal:       domain.IntOf(12),
		LastReported:    domain.MonthValue(domain.MonthOf(2023, time.March)),
		PercChangeCases: domain.FloatOf(0.25),
	}

	row, err := FormatRecord(rec, domain.AnalysisColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"Peru", "", "12", "", "", "", "Mar 2023", "0.25"}, row)

	row, err = FormatRecord(rec, []domain.Column{domain.ColumnLastReported, domain.ColumnCountry})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mar 2023", "Peru"}, row)

	_, err = FormatRecord(rec, []domain.Column{"iso3"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}
