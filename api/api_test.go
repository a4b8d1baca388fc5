package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
	mock_repository "poolreturns/internal/repository/mocks"
	"poolreturns/internal/service"
)

func newTestHandler(t *testing.T) (ApiHandler, *mock_repository.MockSubgraphRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	subgraphRepository := mock_repository.NewMockSubgraphRepository(ctrl)
	calculatorConfig := calculator.DefaultConfig()
	principalService := service.NewPrincipalService(subgraphRepository, calculatorConfig)

	return ApiHandler{
		SubgraphRepository: subgraphRepository,
		HistoryService:     service.NewHistoryService(subgraphRepository, calculatorConfig),
		LPReturnsService:   service.NewLPReturnsService(principalService, calculatorConfig),
		CalculatorConfig:   calculatorConfig,
		Logger:             zap.NewNop().Sugar(),
	}, subgraphRepository
}

func post(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestWindowMetricsResolver(t *testing.T) {
	t.Run("computes a window", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		router := handler.Router()

		w := post(t, router, "/windowMetrics", windowMetricsRequest{
			PositionT0: positionSnapshotJson{
				PoolID: "0xpool", TokenID: "0xtoken", Timestamp: 1600000000,
				LiquidityTokenBalance: 100, LiquidityTokenTotalSupply: 1000,
				Reserve: 10000, ReserveUSD: 20000, TokenPriceUSD: 2,
			},
			PositionT1: positionSnapshotJson{
				PoolID: "0xpool", TokenID: "0xtoken", Timestamp: 1600086400,
				LiquidityTokenBalance: 100, LiquidityTokenTotalSupply: 1100,
				Reserve: 12000, ReserveUSD: 26000, TokenPriceUSD: 20,
			},
		})

		require.Equal(t, 200, w.Code)

		var resp windowMetricsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.InDelta(t, 363.636363, resp.NetReturn, 1e-6)
		require.InDelta(t, 1818.181818, resp.Fees, 1e-6)
		require.False(t, resp.Degenerate)
	})

	t.Run("reversed window is a 400", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		router := handler.Router()

		w := post(t, router, "/windowMetrics", windowMetricsRequest{
			PositionT0: positionSnapshotJson{Timestamp: 200, LiquidityTokenTotalSupply: 1},
			PositionT1: positionSnapshotJson{Timestamp: 100, LiquidityTokenTotalSupply: 1},
		})

		require.Equal(t, 400, w.Code)
	})
}

func TestLpReturnsResolver(t *testing.T) {
	t.Run("summarizes a user's pool returns", func(t *testing.T) {
		handler, subgraphRepository := newTestHandler(t)
		router := handler.Router()

		pool := &domain.Pool{
			ID:                 "0xpool",
			Reserve:            12000,
			ReserveUSD:         26000,
			TotalSupply:        1100,
			Token:              domain.Token{ID: "0xtoken", DerivedETH: 0.01},
			CreatedAtTimestamp: 1641600000,
		}
		subgraphRepository.EXPECT().Pool(gomock.Any(), "0xpool").Return(pool, nil)
		subgraphRepository.EXPECT().NativePriceUSD(gomock.Any()).Return(2000.0, nil)
		subgraphRepository.EXPECT().UserSnapshots(gomock.Any(), "0xuser").Return([]domain.PositionSnapshot{{
			PoolID: "0xpool", TokenID: "0xtoken", Timestamp: 1641600100,
			LiquidityTokenBalance: 100, LiquidityTokenTotalSupply: 1000,
			Reserve: 10000, ReserveUSD: 20000, TokenPriceUSD: 2,
		}}, nil)
		subgraphRepository.EXPECT().MintsAndBurns(gomock.Any(), "0xuser", "0xpool").Return(domain.MintsAndBurns{}, nil)

		w := post(t, router, "/lpReturns", lpReturnsRequest{User: "0xuser", PoolID: "0xpool"})
		require.Equal(t, 200, w.Code)

		var resp lpReturnsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.InDelta(t, 363.636363, resp.Net.Return, 1e-6)
		require.InDelta(t, 1818.181818, resp.Fees.Sum, 1e-6)
		require.Equal(t, "0", resp.Principal.USD)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		router := handler.Router()

		w := post(t, router, "/lpReturns", lpReturnsRequest{User: "0xuser"})
		require.Equal(t, 400, w.Code)
	})

	t.Run("upstream failure is a 500", func(t *testing.T) {
		handler, subgraphRepository := newTestHandler(t)
		router := handler.Router()

		subgraphRepository.EXPECT().Pool(gomock.Any(), "0xpool").Return(nil, http.ErrHandlerTimeout)

		w := post(t, router, "/lpReturns", lpReturnsRequest{User: "0xuser", PoolID: "0xpool"})
		require.Equal(t, 500, w.Code)
	})
}

func TestHistoricalReturnsResolver(t *testing.T) {
	t.Run("user with no position gets an empty history", func(t *testing.T) {
		handler, subgraphRepository := newTestHandler(t)
		router := handler.Router()

		subgraphRepository.EXPECT().Pool(gomock.Any(), "0xpool").Return(&domain.Pool{
			ID:                 "0xpool",
			CreatedAtTimestamp: 1641600000,
		}, nil)
		subgraphRepository.EXPECT().NativePriceUSD(gomock.Any()).Return(2000.0, nil)
		subgraphRepository.EXPECT().UserSnapshots(gomock.Any(), "0xuser").Return(nil, nil)

		w := post(t, router, "/historicalReturns", historicalReturnsRequest{User: "0xuser", PoolID: "0xpool"})
		require.Equal(t, 200, w.Code)

		var resp historicalReturnsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Empty(t, resp.History)
		require.Nil(t, resp.Summary)
	})
}
