package service

import (
	"context"
	"fmt"
	"time"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
)

// LPReturnsService is the top-level attribution entry point for one
// (user, pool) pair.
type LPReturnsService interface {
	ReturnsOnPool(
		ctx context.Context,
		user string,
		pool domain.Pool,
		nativePriceUSD float64,
		snapshots []domain.PositionSnapshot,
	) (*domain.PoolReturnsSummary, error)
}

type lpReturnsServiceHandler struct {
	PrincipalService PrincipalService
	CalculatorConfig calculator.Config

	now func() time.Time
}

func NewLPReturnsService(principalService PrincipalService, calculatorConfig calculator.Config) LPReturnsService {
	return lpReturnsServiceHandler{
		PrincipalService: principalService,
		CalculatorConfig: calculatorConfig,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ReturnsOnPool fetches the user's principal, then walks every
// consecutive snapshot pair - closing with a synthetic position built
// from the pool's live state - and sums the attributed returns across
// all windows. An empty snapshot list yields a zero summary plus the
// fetched principal; that is a valid "no activity" result, not an
// error.
func (h lpReturnsServiceHandler) ReturnsOnPool(
	ctx context.Context,
	user string,
	pool domain.Pool,
	nativePriceUSD float64,
	snapshots []domain.PositionSnapshot,
) (*domain.PoolReturnsSummary, error) {
	principal, err := h.PrincipalService.PrincipalForUserPerPool(ctx, user, pool.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch principal for %s on %s: %w", user, pool.ID, err)
	}

	poolSnapshots := []domain.PositionSnapshot{}
	for _, snapshot := range snapshots {
		if snapshot.PoolID == pool.ID {
			poolSnapshots = append(poolSnapshots, snapshot)
		}
	}

	summary := &domain.PoolReturnsSummary{Principal: principal}
	if len(poolSnapshots) == 0 {
		return summary, nil
	}

	// the user's current position: last known LP balance valued at the
	// pool's live state
	currentPosition := domain.PositionSnapshot{
		PoolID:                    pool.ID,
		TokenID:                   pool.Token.ID,
		Timestamp:                 h.now().Unix(),
		LiquidityTokenBalance:     poolSnapshots[len(poolSnapshots)-1].LiquidityTokenBalance,
		LiquidityTokenTotalSupply: pool.TotalSupply,
		Reserve:                   pool.Reserve,
		ReserveUSD:                pool.ReserveUSD,
		TokenPriceUSD:             pool.Token.DerivedETH * nativePriceUSD,
	}

	for i := range poolSnapshots {
		positionT0 := poolSnapshots[i]
		positionT1 := currentPosition
		if i < len(poolSnapshots)-1 {
			positionT1 = poolSnapshots[i+1]
		}

		results, err := calculator.ComputeWindowMetrics(h.CalculatorConfig, positionT0, positionT1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute window %d: %w", i, err)
		}

		summary.Net.Return += results.NetReturn
		summary.Deerfi.Return += results.DeerfiReturn
		summary.Fees.Sum += results.Fees
	}

	return summary, nil
}
