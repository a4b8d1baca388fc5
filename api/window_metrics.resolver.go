package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
)

type positionSnapshotJson struct {
	PoolID                    string  `json:"poolId"`
	TokenID                   string  `json:"tokenId"`
	Timestamp                 int64   `json:"timestamp"`
	LiquidityTokenBalance     float64 `json:"liquidityTokenBalance"`
	LiquidityTokenTotalSupply float64 `json:"liquidityTokenTotalSupply"`
	Reserve                   float64 `json:"reserve"`
	ReserveUSD                float64 `json:"reserveUSD"`
	TokenPriceUSD             float64 `json:"tokenPriceUSD"`
}

func (j positionSnapshotJson) toDomain() domain.PositionSnapshot {
	return domain.PositionSnapshot{
		PoolID:                    j.PoolID,
		TokenID:                   j.TokenID,
		Timestamp:                 j.Timestamp,
		LiquidityTokenBalance:     j.LiquidityTokenBalance,
		LiquidityTokenTotalSupply: j.LiquidityTokenTotalSupply,
		Reserve:                   j.Reserve,
		ReserveUSD:                j.ReserveUSD,
		TokenPriceUSD:             j.TokenPriceUSD,
	}
}

type windowMetricsRequest struct {
	PositionT0 positionSnapshotJson `json:"positionT0"`
	PositionT1 positionSnapshotJson `json:"positionT1"`
}

type windowMetricsResponse struct {
	HodlReturn   float64 `json:"hodlReturn"`
	NetReturn    float64 `json:"netReturn"`
	DeerfiReturn float64 `json:"deerfiReturn"`
	ImpLoss      float64 `json:"impLoss"`
	Fees         float64 `json:"fees"`
	Degenerate   bool    `json:"degenerate"`
}

func (m ApiHandler) windowMetrics(c *gin.Context) {
	var requestBody windowMetricsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metrics, err := calculator.ComputeWindowMetrics(
		m.CalculatorConfig,
		requestBody.PositionT0.toDomain(),
		requestBody.PositionT1.toDomain(),
	)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidOrdering) {
			returnErrorJsonCode(err, c, 400)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, windowMetricsResponse{
		HodlReturn:   metrics.HodlReturn,
		NetReturn:    metrics.NetReturn,
		DeerfiReturn: metrics.DeerfiReturn,
		ImpLoss:      metrics.ImpLoss,
		Fees:         metrics.Fees,
		Degenerate:   metrics.Degenerate,
	})
}
