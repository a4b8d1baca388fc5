package api

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type lpReturnsRequest struct {
	User   string `json:"user"`
	PoolID string `json:"poolId"`
}

type lpReturnsResponse struct {
	Principal struct {
		USD    string `json:"usd"`
		Amount string `json:"amount"`
	} `json:"principal"`
	Net struct {
		Return float64 `json:"return"`
	} `json:"net"`
	Deerfi struct {
		Return float64 `json:"return"`
	} `json:"deerfi"`
	Fees struct {
		Sum float64 `json:"sum"`
	} `json:"fees"`
}

func (m ApiHandler) lpReturns(c *gin.Context) {
	ctx := c.Request.Context()

	var requestBody lpReturnsRequest
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

	snapshots, err := m.SubgraphRepository.UserSnapshots(ctx, requestBody.User)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	summary, err := m.LPReturnsService.ReturnsOnPool(ctx, requestBody.User, *pool, nativePrice, snapshots)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := lpReturnsResponse{}
	out.Principal.USD = summary.Principal.USD.String()
	out.Principal.Amount = summary.Principal.Amount.String()
	out.Net.Return = summary.Net.Return
	out.Deerfi.Return = summary.Deerfi.Return
	out.Fees.Sum = summary.Fees.Sum

	c.JSON(200, out)
}
