package service

import (
	"context"
	"fmt"

	"poolreturns/internal/calculator"
	"poolreturns/internal/domain"
	"poolreturns/internal/repository"
)

// PrincipalService folds a user's deposit/withdraw history for one
// pool into net deposited principal.
type PrincipalService interface {
	PrincipalForUserPerPool(ctx context.Context, user, pool string) (domain.Principal, error)
}

type principalServiceHandler struct {
	SubgraphRepository repository.SubgraphRepository
	CalculatorConfig   calculator.Config
}

func NewPrincipalService(subgraphRepository repository.SubgraphRepository, calculatorConfig calculator.Config) PrincipalService {
	return principalServiceHandler{
		SubgraphRepository: subgraphRepository,
		CalculatorConfig:   calculatorConfig,
	}
}

func (h principalServiceHandler) PrincipalForUserPerPool(ctx context.Context, user, pool string) (domain.Principal, error) {
	events, err := h.SubgraphRepository.MintsAndBurns(ctx, user, pool)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("failed to fetch principal events: %w", err)
	}

	principal := domain.Principal{}

	for _, mint := range events.Mints {
		// before prices were discovered the recorded USD amounts are
		// unreliable - value stablecoin deposits at face amount
		if h.CalculatorConfig.StablecoinOverride(mint.TokenID, mint.Timestamp) {
			principal.USD = principal.USD.Add(mint.Amount)
		} else {
			principal.USD = principal.USD.Add(mint.AmountUSD)
		}
		principal.Amount = principal.Amount.Add(mint.Amount)
	}

	for _, burn := range events.Burns {
		if h.CalculatorConfig.StablecoinOverride(burn.TokenID, burn.Timestamp) {
			principal.USD = principal.USD.Sub(burn.Amount)
		} else {
			principal.USD = principal.USD.Sub(burn.AmountUSD)
		}
		principal.Amount = principal.Amount.Sub(burn.Amount)
	}

	return principal, nil
}
