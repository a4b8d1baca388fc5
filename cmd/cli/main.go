package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"poolreturns/cmd"
	"poolreturns/internal/config"
	"poolreturns/internal/domain"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "poolreturns",
	Short: "LP return attribution against a pool subgraph",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the attribution API",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		apiHandler, err := cmd.InitializeDependencies(cfg)
		if err != nil {
			return err
		}
		return apiHandler.StartApi(cfg.Port)
	},
}

var (
	exportUser  string
	exportPool  string
	exportStart int64
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "write a user/pool daily return history as CSV",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		apiHandler, err := cmd.InitializeDependencies(cfg)
		if err != nil {
			return err
		}
		ctx := context.Background()

		pool, err := apiHandler.SubgraphRepository.Pool(ctx, exportPool)
		if err != nil {
			return err
		}
		nativePrice, err := apiHandler.SubgraphRepository.NativePriceUSD(ctx)
		if err != nil {
			return err
		}
		allSnapshots, err := apiHandler.SubgraphRepository.UserSnapshots(ctx, exportUser)
		if err != nil {
			return err
		}
		snapshots := []domain.PositionSnapshot{}
		for _, snapshot := range allSnapshots {
			if snapshot.PoolID == pool.ID {
				snapshots = append(snapshots, snapshot)
			}
		}
		if len(snapshots) == 0 {
			return fmt.Errorf("no snapshots for %s on %s", exportUser, exportPool)
		}

		history, err := apiHandler.HistoryService.HistoricalPoolReturns(ctx, exportStart, *pool, snapshots, nativePrice)
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := gocsv.MarshalFile(&history, f); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		fmt.Printf("wrote %d days to %s\n", len(history), exportOut)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("POOLRETURNS_CONFIG"), "path to config file")

	exportCmd.Flags().StringVar(&exportUser, "user", "", "user address")
	exportCmd.Flags().StringVar(&exportPool, "pool", "", "pool address")
	exportCmd.Flags().Int64Var(&exportStart, "start", 0, "start unix timestamp")
	exportCmd.Flags().StringVar(&exportOut, "out", "history.csv", "output file")
	exportCmd.MarkFlagRequired("user")
	exportCmd.MarkFlagRequired("pool")

	rootCmd.AddCommand(serveCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
