package cmd

import (
	"poolreturns/api"
	"poolreturns/internal/config"
	"poolreturns/internal/logger"
	"poolreturns/internal/repository"
	"poolreturns/internal/service"
)

// InitializeDependencies wires the repository and services into an api
// handler from loaded configuration.
func InitializeDependencies(cfg *config.Config) (*api.ApiHandler, error) {
	log := logger.New()
	calculatorConfig := cfg.CalculatorConfig()

	subgraphRepository := repository.NewSubgraphRepository(cfg.SubgraphURL)
	principalService := service.NewPrincipalService(subgraphRepository, calculatorConfig)

	return &api.ApiHandler{
		SubgraphRepository: subgraphRepository,
		HistoryService:     service.NewHistoryService(subgraphRepository, calculatorConfig),
		LPReturnsService:   service.NewLPReturnsService(principalService, calculatorConfig),
		CalculatorConfig:   calculatorConfig,
		Logger:             log,
	}, nil
}
