package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
	mock_repository "poolreturns/internal/repository/mocks"
)

func TestPrincipalForUserPerPool(t *testing.T) {
	ctx := context.Background()
	cfg := calculator.DefaultConfig()

	t.Run("deposits minus withdrawals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)

		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{
				Mints: []domain.MintOrBurn{
					{
						Amount:    decimal.NewFromInt(10),
						AmountUSD: decimal.NewFromInt(100),
						Timestamp: cfg.PriceDiscoveryCutoff + 100,
						TokenID:   "0xtoken",
					},
				},
				Burns: []domain.MintOrBurn{
					{
						Amount:    decimal.NewFromInt(4),
						AmountUSD: decimal.NewFromInt(45),
						Timestamp: cfg.PriceDiscoveryCutoff + 200,
						TokenID:   "0xtoken",
					},
				},
			}, nil)

		handler := principalServiceHandler{
			SubgraphRepository: subgraphRepository,
			CalculatorConfig:   cfg,
		}

		principal, err := handler.PrincipalForUserPerPool(ctx, "0xuser", "0xpool")
		require.NoError(t, err)

		require.True(t, principal.USD.Equal(decimal.NewFromInt(55)), "usd = %s", principal.USD)
		require.True(t, principal.Amount.Equal(decimal.NewFromInt(6)), "amount = %s", principal.Amount)
	})

	t.Run("pre-cutoff stablecoin events use face amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)

		usdc := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{
				Mints: []domain.MintOrBurn{
					{
						Amount: decimal.NewFromInt(10),
						// bogus pre-discovery USD value that must be ignored
						AmountUSD: decimal.NewFromInt(99999),
						Timestamp: cfg.PriceDiscoveryCutoff - 1,
						TokenID:   usdc,
					},
				},
			}, nil)

		handler := principalServiceHandler{
			SubgraphRepository: subgraphRepository,
			CalculatorConfig:   cfg,
		}

		principal, err := handler.PrincipalForUserPerPool(ctx, "0xuser", "0xpool")
		require.NoError(t, err)

		require.True(t, principal.USD.Equal(decimal.NewFromInt(10)), "usd = %s", principal.USD)
		require.True(t, principal.Amount.Equal(decimal.NewFromInt(10)), "amount = %s", principal.Amount)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)

		subgraphRepository.EXPECT().
			MintsAndBurns(ctx, "0xuser", "0xpool").
			Return(domain.MintsAndBurns{}, fmt.Errorf("subgraph down"))

		handler := principalServiceHandler{
			SubgraphRepository: subgraphRepository,
			CalculatorConfig:   cfg,
		}

		_, err := handler.PrincipalForUserPerPool(ctx, "0xuser", "0xpool")
		require.ErrorContains(t, err, "subgraph down")
	})
}
