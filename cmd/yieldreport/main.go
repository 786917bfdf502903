package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/types"
	"github.com/teckmodel/aptai/internal/yield"
)

// main prints a one-shot ranked yield strategy report to stdout.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(cfg.LogLevel)

	resolver := pricing.NewResolver(cfg)
	chainClient := chain.NewClient(cfg)
	engine := yield.NewEngine(cfg, chainClient, resolver)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	strategies, err := engine.Strategies(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to rank yield strategies")
	}

	displayStrategies(strategies)
}

// displayStrategies prints ranked strategies in a table format.
func displayStrategies(strategies []types.YieldStrategy) {
	if len(strategies) == 0 {
		fmt.Println("No rankable yield strategies found.")
		return
	}

	fmt.Printf("Yield Strategy Report (%s):\n", time.Now().UTC().Format("2006-01-02 15:04"))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Pool", "Protocol", "Strategy", "Total APR %", "Daily Reward USD", "Position", "Risk"})

	for _, s := range strategies {
		t.AppendRow(table.Row{
			s.Pool.Name,
			s.Pool.Protocol,
			s.Strategy,
			fmt.Sprintf("%.2f", s.TotalAPR),
			fmt.Sprintf("%.4f", s.EstimatedDailyRewardUSD),
			s.RecommendedPosition,
			s.RiskLevel,
		})
	}

	t.Render()
}
