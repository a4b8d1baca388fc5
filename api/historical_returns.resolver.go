package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
)

type historicalReturnsRequest struct {
	User           string `json:"user"`
	PoolID         string `json:"poolId"`
	StartTimestamp int64  `json:"startTimestamp"`
}

type dailyHistoryEntryJson struct {
	Date     int64   `json:"date"`
	USDValue float64 `json:"usdValue"`
	Fees     float64 `json:"fees"`
}

type seriesSummaryJson struct {
	MeanDailyFee     float64 `json:"meanDailyFee"`
	DailyReturnStdev float64 `json:"dailyReturnStdev"`
}

type historicalReturnsResponse struct {
	History []dailyHistoryEntryJson `json:"history"`
	Summary *seriesSummaryJson      `json:"summary,omitempty"`
}

func (m ApiHandler) historicalReturns(c *gin.Context) {
	ctx := c.Request.Context()

	var requestBody historicalReturnsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if requestBody.User == "" || requestBody.PoolID == "" {
		returnErrorJsonCode(errors.New("user and poolId are required"), c, 400)
		return
	}

	pool, err := m.SubgraphRepository.Pool(ctx, requestBody.PoolID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	nativePrice, err := m.SubgraphRepository.NativePriceUSD(ctx)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	allSnapshots, err := m.SubgraphRepository.UserSnapshots(ctx, requestBody.User)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	snapshots := []domain.PositionSnapshot{}
	for _, snapshot := range allSnapshots {
		if snapshot.PoolID == pool.ID {
			snapshots = append(snapshots, snapshot)
		}
	}

	out := historicalReturnsResponse{History: []dailyHistoryEntryJson{}}

	// a user with no position in this pool has no history; that's an
	// empty chart, not an error
	if len(snapshots) == 0 || !pool.Created() {
		c.JSON(200, out)
		return
	}

	history, err := m.HistoryService.HistoricalPoolReturns(ctx, requestBody.StartTimestamp, *pool, snapshots, nativePrice)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	for _, entry := range history {
		out.History = append(out.History, dailyHistoryEntryJson{
			Date:     entry.Date,
			USDValue: entry.USDValue,
			Fees:     entry.Fees,
		})
	}

	if summary, err := calculator.SummarizeDailySeries(history); err == nil {
		out.Summary = &seriesSummaryJson{
			MeanDailyFee:     summary.MeanDailyFee,
			DailyReturnStdev: summary.DailyReturnStdev,
		}
	}

	c.JSON(200, out)
}
