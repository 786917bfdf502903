package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Default endpoints for the public data sources. Every endpoint can be
// overridden through the environment so the engine can be pointed at test
// servers or alternate providers without code changes.
const (
	DefaultNodeURL       = "https://fullnode.mainnet.aptoslabs.com/v1"
	DefaultPriceIndexURL = "https://api.coingecko.com/api/v3"
	DefaultDexSearchURL  = "https://api.dexscreener.com/latest/dex"

	DefaultTopazURL      = "https://api.topaz.so/api/v1"
	DefaultSouffl3URL    = "https://api.souffl3.com/v1"
	DefaultBluemoveURL   = "https://api.bluemove.net/v1"
	DefaultAptosNamesURL = "https://api.aptosnames.com/api"

	DefaultPancakeURL = "https://api.pancakeswap.finance/api/v2/aptos"
	DefaultAuxURL     = "https://api.aux.exchange/v1"

	DefaultGroqURL   = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama-3.3-70b-versatile"
)

// SourceConfig describes a single external data source: where it lives, how
// long a call to it may take, and how a per-entity path is built.
type SourceConfig struct {
	// Name keys the source in merged results; registration order is
	// preserved by every fan-out.
	Name    string
	BaseURL string
	Timeout time.Duration
	// PathTemplate is an fmt template with one %s verb for the entity ID,
	// e.g. "/collection/%s". Empty for sources queried at fixed paths.
	PathTemplate string
}

// Config holds the full engine configuration. It is built once by Load and
// treated as read-only afterwards; constructors receive it by pointer and
// must not mutate it.
type Config struct {
	NodeURL     string
	NodeTimeout time.Duration

	// PriceIndex is the primary index source for the native asset (simple
	// price lookups). Dex is the aggregator fallback for arbitrary tokens.
	PriceIndex SourceConfig
	Dex        SourceConfig

	// Marketplaces are the NFT sources, in registration order.
	Marketplaces []SourceConfig

	// PoolSources are the liquidity-pool protocol endpoints, in
	// registration order.
	PoolSources []SourceConfig

	GroqURL         string
	GroqAPIKey      string
	GroqModel       string
	ChatMaxTokens   int
	ChatTemperature float64
	ChatTimeout     time.Duration

	WebPort  string
	LogLevel string
}

// Load builds the configuration from environment variables, falling back to
// the public mainnet defaults. Only the Groq API key has no default; chat
// stays disabled without it.
func Load() (*Config, error) {
	sourceTimeout, err := getEnvAsDurationOr("SOURCE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	indexTimeout, err := getEnvAsDurationOr("PRICE_INDEX_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	nodeTimeout, err := getEnvAsDurationOr("NODE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	chatTimeout, err := getEnvAsDurationOr("CHAT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvAsIntOr("CHAT_MAX_TOKENS", 200)
	if err != nil {
		return nil, err
	}
	temperature, err := getEnvAsFloat64Or("CHAT_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NodeURL:     getEnvOr("APTOS_NODE_URL", DefaultNodeURL),
		NodeTimeout: nodeTimeout,
		PriceIndex: SourceConfig{
			Name:    "coingecko",
			BaseURL: getEnvOr("PRICE_INDEX_URL", DefaultPriceIndexURL),
			Timeout: indexTimeout,
		},
		Dex: SourceConfig{
			Name:    "dexscreener",
			BaseURL: getEnvOr("DEX_SEARCH_URL", DefaultDexSearchURL),
			Timeout: sourceTimeout,
		},
		Marketplaces: []SourceConfig{
			{Name: "topaz", BaseURL: getEnvOr("TOPAZ_URL", DefaultTopazURL), Timeout: sourceTimeout, PathTemplate: "/collection/%s"},
			{Name: "souffl3", BaseURL: getEnvOr("SOUFFL3_URL", DefaultSouffl3URL), Timeout: sourceTimeout, PathTemplate: "/collections/%s"},
			{Name: "bluemove", BaseURL: getEnvOr("BLUEMOVE_URL", DefaultBluemoveURL), Timeout: sourceTimeout, PathTemplate: "/collections/%s"},
			{Name: "aptos_names", BaseURL: getEnvOr("APTOS_NAMES_URL", DefaultAptosNamesURL), Timeout: sourceTimeout, PathTemplate: "/domain/%s"},
		},
		PoolSources: []SourceConfig{
			{Name: "pancakeswap", BaseURL: getEnvOr("PANCAKE_URL", DefaultPancakeURL), Timeout: sourceTimeout, PathTemplate: "/farms"},
			{Name: "aux", BaseURL: getEnvOr("AUX_URL", DefaultAuxURL), Timeout: sourceTimeout, PathTemplate: "/liquidity/pools"},
		},
		GroqURL:         getEnvOr("GROQ_URL", DefaultGroqURL),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       getEnvOr("GROQ_MODEL", DefaultGroqModel),
		ChatMaxTokens:   maxTokens,
		ChatTemperature: temperature,
		ChatTimeout:     chatTimeout,
		WebPort:         getEnvOr("WEB_PORT", "8080"),
		LogLevel:        getEnvOr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnvOr retrieves a string environment variable, falling back to def.
func getEnvOr(key, def string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return def
}

// getEnvAsDurationOr retrieves an environment variable as a time.Duration.
// Returns an error if set but unparseable.
func getEnvAsDurationOr(key string, def time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid duration, got: " + value)
	}
	return d, nil
}

// getEnvAsIntOr retrieves an environment variable as an int. Returns an
// error if set but unparseable.
func getEnvAsIntOr(key string, def int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + value)
	}
	return i, nil
}

// getEnvAsFloat64Or retrieves an environment variable as a float64. Returns
// an error if set but unparseable.
func getEnvAsFloat64Or(key string, def float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid float64, got: " + value)
	}
	return f, nil
}
