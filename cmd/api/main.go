package main

import (
	"log"
	"os"

	"poolreturns/cmd"
	"poolreturns/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("POOLRETURNS_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	apiHandler, err := cmd.InitializeDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}

	err = apiHandler.StartApi(cfg.Port)
	if err != nil {
		log.Fatal(err)
	}
}
