package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"poolreturns/internal/domain"
)

// SecondsPerDay is the width of one day bucket.
const SecondsPerDay = 86400

// DayBucket maps a unix timestamp to its day bucket index.
func DayBucket(timestamp int64) int64 {
	return int64(math.Round(float64(timestamp) / SecondsPerDay))
}

// DailySeriesInput carries everything the day walk needs. ShareValues
// is keyed by day-end timestamp and must be fetched up front; the walk
// itself performs no IO.
type DailySeriesInput struct {
	Config         Config
	Pool           domain.Pool
	StartTimestamp int64
	Snapshots      []domain.PositionSnapshot
	ShareValues    map[int64]domain.ShareValue
	NativePriceUSD float64
	Now            time.Time
}

// DayTimestamps enumerates the day-bucket start timestamps the walk
// will cover: from max(start day, first snapshot's day) up to but
// excluding today, skipping days before the pool was created. The
// batched share-value fetch covers exactly these buckets' day ends.
func DayTimestamps(pool domain.Pool, startTimestamp, firstSnapshotTimestamp int64, now time.Time) []int64 {
	dayIndex := DayBucket(startTimestamp)
	currentDayIndex := DayBucket(now.Unix())

	// never synthesize days with no preceding data
	if firstSnapshotTimestamp > startTimestamp {
		dayIndex = DayBucket(firstSnapshotTimestamp)
	}

	dayTimestamps := []int64{}
	for ; dayIndex < currentDayIndex; dayIndex++ {
		// only account for days where this pool existed
		if dayIndex*SecondsPerDay >= pool.CreatedAtTimestamp {
			dayTimestamps = append(dayTimestamps, dayIndex*SecondsPerDay)
		}
	}
	return dayTimestamps
}

// BuildDailySeries walks calendar-day buckets from the start date to
// yesterday and emits the position's USD value and cumulative fees for
// each day the pool existed. It is a pure fold over its input: two
// calls with identical inputs produce identical output.
//
// Each day replays the snapshots falling inside it window by window,
// then closes the day against the batched point-in-time sample for the
// day's end - or, when no sample exists for that day, against the
// pool's current live state. The live-state fallback is a known
// approximation for days lacking an exact boundary sample.
func BuildDailySeries(in DailySeriesInput) ([]domain.DailyHistoryEntry, error) {
	// pool not indexed yet - no history to report
	if !in.Pool.Created() {
		return []domain.DailyHistoryEntry{}, nil
	}
	if len(in.Snapshots) == 0 {
		return nil, fmt.Errorf("cannot build daily series for pool %s: no position snapshots", in.Pool.ID)
	}

	// defensive re-sort; the walk assumes ascending timestamps
	snapshots := make([]domain.PositionSnapshot, len(in.Snapshots))
	copy(snapshots, in.Snapshots)
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp < snapshots[j].Timestamp
	})

	dayTimestamps := DayTimestamps(in.Pool, in.StartTimestamp, snapshots[0].Timestamp, in.Now)

	// day-open position; advanced only by real snapshots, never by the
	// hypothetical day-close positions
	positionT0 := snapshots[0]
	netFees := 0.0
	history := []domain.DailyHistoryEntry{}

	for _, dayTimestamp := range dayTimestamps {
		timestampCeiling := dayTimestamp + SecondsPerDay

		// replay every position change that happened inside this day
		for _, snapshot := range snapshots {
			if snapshot.Timestamp <= dayTimestamp || snapshot.Timestamp >= timestampCeiling {
				continue
			}
			localReturns, err := ComputeWindowMetrics(in.Config, positionT0, snapshot)
			if err != nil {
				return nil, fmt.Errorf("failed to compute window ending %d: %w", snapshot.Timestamp, err)
			}
			netFees += localReturns.Fees
			positionT0 = snapshot
		}

		positionT1 := closingPosition(in, positionT0, timestampCeiling)

		localReturns, err := ComputeWindowMetrics(in.Config, positionT0, positionT1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute day close for %d: %w", dayTimestamp, err)
		}

		usdValue := 0.0
		if positionT1.LiquidityTokenTotalSupply != 0 {
			usdValue = positionT1.LiquidityTokenBalance / positionT1.LiquidityTokenTotalSupply * positionT1.ReserveUSD
		}

		history = append(history, domain.DailyHistoryEntry{
			Date:     dayTimestamp,
			USDValue: usdValue,
			Fees:     netFees + localReturns.Fees,
		})
	}

	return history, nil
}

// closingPosition builds the hypothetical end-of-day position: the
// day-open LP balance valued at the day boundary's pool state, or at
// the current live state when no boundary sample was fetched.
func closingPosition(in DailySeriesInput, positionT0 domain.PositionSnapshot, dayEnd int64) domain.PositionSnapshot {
	if shareValue, ok := in.ShareValues[dayEnd]; ok {
		return domain.PositionSnapshot{
			PoolID:                    in.Pool.ID,
			TokenID:                   in.Pool.Token.ID,
			Timestamp:                 dayEnd,
			LiquidityTokenBalance:     positionT0.LiquidityTokenBalance,
			LiquidityTokenTotalSupply: shareValue.TotalSupply,
			Reserve:                   shareValue.Reserve,
			ReserveUSD:                shareValue.ReserveUSD,
			TokenPriceUSD:             shareValue.DerivedETH * shareValue.NativePriceUSD,
		}
	}
	return domain.PositionSnapshot{
		PoolID:                    in.Pool.ID,
		TokenID:                   in.Pool.Token.ID,
		Timestamp:                 dayEnd,
		LiquidityTokenBalance:     positionT0.LiquidityTokenBalance,
		LiquidityTokenTotalSupply: in.Pool.TotalSupply,
		Reserve:                   in.Pool.Reserve,
		ReserveUSD:                in.Pool.ReserveUSD,
		TokenPriceUSD:             in.Pool.Token.DerivedETH * in.NativePriceUSD,
	}
}
