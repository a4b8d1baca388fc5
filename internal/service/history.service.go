package service

import (
	"context"
	"fmt"
	"time"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
	"poolreturns/internal/logger"
	"poolreturns/internal/repository"
)

// HistoryService produces the day-bucketed history of a user's
// position in one pool: USD value and cumulative fees per day.
type HistoryService interface {
	HistoricalPoolReturns(
		ctx context.Context,
		startTimestamp int64,
		pool domain.Pool,
		snapshots []domain.PositionSnapshot,
		nativePriceUSD float64,
	) ([]domain.DailyHistoryEntry, error)
}

type historyServiceHandler struct {
	SubgraphRepository repository.SubgraphRepository
	CalculatorConfig   calculator.Config

	// injectable clock for deterministic walks in tests
	now func() time.Time
}

func NewHistoryService(subgraphRepository repository.SubgraphRepository, calculatorConfig calculator.Config) HistoryService {
	return historyServiceHandler{
		SubgraphRepository: subgraphRepository,
		CalculatorConfig:   calculatorConfig,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// HistoricalPoolReturns batches one point-in-time lookup covering
// every day bucket up front, then hands the walk to the pure daily
// series fold. One fetch total, regardless of how many days the pool
// has existed.
func (h historyServiceHandler) HistoricalPoolReturns(
	ctx context.Context,
	startTimestamp int64,
	pool domain.Pool,
	snapshots []domain.PositionSnapshot,
	nativePriceUSD float64,
) ([]domain.DailyHistoryEntry, error) {
	// pool not indexed yet - nothing to chart
	if !pool.Created() {
		return []domain.DailyHistoryEntry{}, nil
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("cannot compute historical returns for pool %s: no snapshots", pool.ID)
	}

	firstSnapshotTimestamp := snapshots[0].Timestamp
	for _, snapshot := range snapshots {
		if snapshot.Timestamp < firstSnapshotTimestamp {
			firstSnapshotTimestamp = snapshot.Timestamp
		}
	}

	now := h.now()
	dayTimestamps := calculator.DayTimestamps(pool, startTimestamp, firstSnapshotTimestamp, now)

	dayEnds := make([]int64, 0, len(dayTimestamps))
	for _, dayTimestamp := range dayTimestamps {
		dayEnds = append(dayEnds, dayTimestamp+calculator.SecondsPerDay)
	}

	shareValues, err := h.SubgraphRepository.PoolShareValues(ctx, pool.ID, dayEnds)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch share values: %w", err)
	}
	if len(shareValues) < len(dayEnds) {
		logger.FromContext(ctx).Debugw("missing share values; closing those days against live pool state",
			"pool", pool.ID, "requested", len(dayEnds), "resolved", len(shareValues))
	}

	return calculator.BuildDailySeries(calculator.DailySeriesInput{
		Config:         h.CalculatorConfig,
		Pool:           pool,
		StartTimestamp: startTimestamp,
		Snapshots:      snapshots,
		ShareValues:    shareValues,
		NativePriceUSD: nativePriceUSD,
		Now:            now,
	})
}
