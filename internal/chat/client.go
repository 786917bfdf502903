/*

Boundary client for the Groq chat-completions API. Only the failure signals
the product cares about are distinguished: rate limiting and bad
credentials get fixed user-facing messages, everything else collapses into
a generic fallback.

*/

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

var (
	// ErrRateLimited maps HTTP 429 from the completion provider.
	ErrRateLimited = errors.New("chat provider rate limit exceeded")
	// ErrUnauthorized maps HTTP 401 from the completion provider.
	ErrUnauthorized = errors.New("chat provider rejected the API key")
	// ErrNotConfigured means no API key was supplied; chat is disabled.
	ErrNotConfigured = errors.New("chat is not configured")
)

// Fixed user-facing messages for the recognized failure signals.
const (
	RateLimitedMessage  = "Rate limit exceeded. Please try again in a few moments."
	UnauthorizedMessage = "Invalid API key. Please check your configuration."
	FallbackMessage     = "Temporarily unable to process the request. Please try again with basic commands like /price or /nft."
)

const defaultSystemPrompt = "You are a specialized assistant for the Aptos blockchain with expertise in DeFi and NFT analysis. Capabilities: real-time price tracking, multi-marketplace NFT support, market analytics and yield strategy ranking."

// Client calls the chat-completion collaborator.
type Client struct {
	api          *source.Client
	model        string
	maxTokens    int
	temperature  float64
	systemPrompt string
	enabled      bool
	log          zerolog.Logger
}

// NewClient builds the chat client. Without an API key the client still
// constructs but every completion returns ErrNotConfigured.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		api: source.New(config.SourceConfig{
			Name:    "groq",
			BaseURL: cfg.GroqURL,
			Timeout: cfg.ChatTimeout,
		}, source.WithBearer(cfg.GroqAPIKey)),
		model:        cfg.GroqModel,
		maxTokens:    cfg.ChatMaxTokens,
		temperature:  cfg.ChatTemperature,
		systemPrompt: defaultSystemPrompt,
		enabled:      cfg.GroqAPIKey != "",
		log:          logger.GetForComponent("chat_client"),
	}
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one user prompt under the configured system prompt and
// returns the completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	req := completionRequest{
		Model: c.model,
		Messages: []completionMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var resp completionResponse
	if err := c.api.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", source.ErrMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps provider transport errors onto the recognized signals.
func classify(err error) error {
	var te *source.TransportError
	if errors.As(err, &te) {
		switch te.StatusCode {
		case 429:
			return ErrRateLimited
		case 401:
			return ErrUnauthorized
		}
	}
	return err
}

// UserFacingMessage renders a completion failure as the short message a
// caller can display directly.
func UserFacingMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return RateLimitedMessage
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedMessage
	default:
		return FallbackMessage
	}
}

// InsightsPrompt renders a token metrics report into an analysis prompt for
// the completion provider.
func InsightsPrompt(report *types.TokenMetricsReport) string {
	return fmt.Sprintf(
		"Analyze this token data and provide key insights:\n"+
			"Symbol: %s\n"+
			"Price: $%g\n"+
			"24h Change: %g%%\n"+
			"Market Cap: $%g\n"+
			"Liquidity Ratio: %g\n"+
			"Volume Ratio: %g\n"+
			"Market Sentiment: %s\n"+
			"Risk Level: %s",
		report.Quote.Symbol,
		report.PriceMetrics.CurrentPrice,
		report.PriceMetrics.PriceChange24h,
		report.PriceMetrics.MarketCap,
		report.PriceMetrics.LiquidityRatio,
		report.PriceMetrics.VolumeRatio,
		report.MarketSentiment,
		report.RiskLevel,
	)
}
