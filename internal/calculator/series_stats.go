package calculator

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"poolreturns/internal/domain"
)

// SeriesSummary holds descriptive statistics over a daily history.
type SeriesSummary struct {
	// average fee income per day bucket
	MeanDailyFee float64
	// sample stdev of day-over-day value returns
	DailyReturnStdev float64
}

// SummarizeDailySeries computes summary statistics for a daily
// position history. It assumes the entries are in date order, the way
// BuildDailySeries emits them.
func SummarizeDailySeries(entries []domain.DailyHistoryEntry) (*SeriesSummary, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("cannot summarize series with < 2 entries")
	}

	feeIncrements := []float64{}
	returns := []float64{}
	for i := 1; i < len(entries); i++ {
		feeIncrements = append(feeIncrements, entries[i].Fees-entries[i-1].Fees)
		if entries[i-1].USDValue != 0 {
			returns = append(returns, (entries[i].USDValue-entries[i-1].USDValue)/entries[i-1].USDValue)
		}
	}

	meanFee, err := stats.Mean(feeIncrements)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean daily fee: %w", err)
	}

	stdev := 0.0
	if len(returns) >= 2 {
		stdev, err = stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, fmt.Errorf("failed to compute return stdev: %w", err)
		}
	}

	return &SeriesSummary{
		MeanDailyFee:     meanFee,
		DailyReturnStdev: stdev,
	}, nil
}
