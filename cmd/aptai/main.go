package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/teckmodel/aptai/internal/analyzer"
	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/chat"
	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/holders"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/nftmarket"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/web"
	"github.com/teckmodel/aptai/internal/yield"
)

// main is the entry point for the aptai analytics server.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(cfg.LogLevel)
	log.Info().Msg("Aptai Analytics Engine Starting...")

	// --- 2. Component Construction with Dependency Injection ---
	resolver := pricing.NewResolver(cfg)
	chainClient := chain.NewClient(cfg)
	facade := analyzer.NewFacade(resolver)
	aggregator := nftmarket.NewAggregator(cfg)
	holderFetcher := holders.NewFetcher(chainClient)
	yieldEngine := yield.NewEngine(cfg, chainClient, resolver)
	chatClient := chat.NewClient(cfg)

	if cfg.GroqAPIKey == "" {
		log.Warn().Msg("GROQ_API_KEY not set. Chat and insights endpoints will return a configuration warning.")
	}

	// --- 3. Start Web Server ---
	server := web.NewServer(
		cfg.WebPort,
		resolver,
		facade,
		aggregator,
		holderFetcher,
		yieldEngine,
		chainClient,
		chatClient,
	)

	log.Info().Str("port", cfg.WebPort).Str("url", "http://localhost:"+cfg.WebPort).Msg("Starting aptai API server")
	if err := server.Start(); err != nil {
		log.Error().Err(err).Msg("Web server failed")
		os.Exit(1)
	}
}
