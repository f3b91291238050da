package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "mpoxcli/internal/errors"
	"mpoxcli/pkg/contracts/domain"
)

// DerivationStats counts the outcomes of CalculatePercentChange
type DerivationStats struct {
	Computed        int
	MissingOperand  int
	ZeroDenominator int
}

// PercentChange returns (past - before) / before as a fraction.
// A missing operand gives a missing result. A zero denominator also gives a
// missing result, together with a computation error describing it.
func PercentChange(past, before domain.NullInt) (domain.NullFloat, error) {
	if !past.Valid || !before.Valid {
		return domain.NullFloat{}, nil
	}
	if before.Int64 == 0 {
		return domain.NullFloat{}, apperrors.NewComputationError("percentage change undefined: cases_month_before is zero").
			WithContext("cases_past_month", past.Int64)
	}
	return domain.FloatOf(float64(past.Int64-before.Int64) / float64(before.Int64)), nil
}

// CalculatePercentChange returns a copy of table with perc_change_cases set
// on every record. Undefined ratios become missing values; it never fails.
func CalculatePercentChange(ctx context.Context, table domain.Table) (domain.Table, DerivationStats) {
	var stats DerivationStats
	records := make([]domain.Record, len(table.Records))

	for i, rec := range table.Records {
		change, err := PercentChange(rec.CasesPastMonth, rec.CasesMonthBefore)
		switch {
		case err != nil:
			stats.ZeroDenominator++
			slog.DebugContext(ctx, "Percentage change set to missing",
				slog.String("country", rec.Country),
				slog.String("reason", err.Error()))
		case change.Valid:
			stats.Computed++
		default:
			stats.MissingOperand++
		}

		rec.PercChangeCases = change
		records[i] = rec
	}

	slog.InfoContext(ctx, "Derived percentage change",
		slog.Int("computed", stats.Computed),
		slog.Int("missing_operand", stats.MissingOperand),
		slog.Int("zero_denominator", stats.ZeroDenominator))

	return domain.NewTable(domain.AnalysisColumns, records), stats
}
