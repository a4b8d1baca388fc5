package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
	mock_repository "poolreturns/internal/repository/mocks"
)

func TestReturnsOnPool(t *testing.T) {
	ctx := context.Background()
	cfg := calculator.DefaultConfig()
	now := time.Unix((testDay+10)*calculator.SecondsPerDay, 0).UTC()

	newHandler := func(subgraphRepository *mock_repository.MockSubgraphRepository) lpReturnsServiceHandler {
		return lpReturnsServiceHandler{
			PrincipalService: NewPrincipalService(subgraphRepository, cfg),
			CalculatorConfig: cfg,
			now:              func() time.Time { return now },
		}
	}

	t.Run("single snapshot against synthesized current position", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, nil)

		handler := newHandler(subgraphRepository)

		snapshot := historyTestSnapshot()
		summary, err := handler.ReturnsOnPool(ctx, "0xuser", historyTestPool(), 2000, []domain.PositionSnapshot{snapshot})
		require.NoError(t, err)

		// exactly one window: the snapshot vs the live pool at token
		// price 0.01 * 2000 = 20
		require.InDelta(t, 363.636363, summary.Net.Return, 1e-6)
		require.InDelta(t, 0, summary.Deerfi.Return, 1e-6)
		require.InDelta(t, 1818.181818, summary.Fees.Sum, 1e-6)
		require.True(t, summary.Principal.USD.IsZero())
	})

	t.Run("snapshots from other pools are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, nil)

		handler := newHandler(subgraphRepository)

		snapshot := historyTestSnapshot()
		other := historyTestSnapshot()
		other.PoolID = "0xotherpool"
		other.LiquidityTokenBalance = 999999

		summary, err := handler.ReturnsOnPool(ctx, "0xuser", historyTestPool(), 2000, []domain.PositionSnapshot{snapshot, other})
		require.NoError(t, err)

		require.InDelta(t, 363.636363, summary.Net.Return, 1e-6)
	})

	t.Run("no activity yields zero summary plus principal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, nil)

		handler := newHandler(subgraphRepository)

		summary, err := handler.ReturnsOnPool(ctx, "0xuser", historyTestPool(), 2000, nil)
		require.NoError(t, err)

		require.Equal(t, 0.0, summary.Net.Return)
		require.Equal(t, 0.0, summary.Deerfi.Return)
		require.Equal(t, 0.0, summary.Fees.Sum)
	})

	t.Run("multiple snapshots walk consecutive windows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, nil)

		handler := newHandler(subgraphRepository)

		first := historyTestSnapshot()
		second := historyTestSnapshot()
		second.Timestamp = first.Timestamp + calculator.SecondsPerDay
		second.Reserve = 10100

		summary, err := handler.ReturnsOnPool(ctx, "0xuser", historyTestPool(), 2000, []domain.PositionSnapshot{first, second})
		require.NoError(t, err)

		// window 1 (first -> second) earns (1010-1000)*2 = 20 in fees;
		// window 2 (second -> current) earns (1090.9090... - 1010)*20
		require.InDelta(t, 20+(100.0/1100*12000-1010)*20, summary.Fees.Sum, 1e-6)
	})

	t.Run("principal fetch failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, context.DeadlineExceeded)

		handler := newHandler(subgraphRepository)

		_, err := handler.ReturnsOnPool(ctx, "0xuser", historyTestPool(), 2000, nil)
		require.ErrorContains(t, err, "failed to fetch principal")
	})
}
