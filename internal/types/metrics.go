package types

import "time"

// RiskLevel is a coarse volatility tier. An absent quote is always RiskHigh;
// unknown risk is treated as worst case, never silently as low.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Sentiment is the sign of the 24h price move.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
)

// PriceMetrics are the derived ratios of a token metrics report. Ratios are
// 0 when the corresponding numerator is 0; a zero market cap with a nonzero
// numerator is an undefined ratio and the report is not produced.
type PriceMetrics struct {
	CurrentPrice   float64 `json:"current_price"`
	PriceChange24h float64 `json:"price_change"`
	MarketCap      float64 `json:"market_cap"`
	LiquidityRatio float64 `json:"liquidity_ratio"`
	VolumeRatio    float64 `json:"volume_analysis"`
}

// TokenMetricsReport is the composed analytics view of one token.
type TokenMetricsReport struct {
	ReportID        string       `json:"report_id"`
	Query           string       `json:"query"`
	Quote           TokenQuote   `json:"quote"`
	PriceMetrics    PriceMetrics `json:"price_metrics"`
	MarketSentiment Sentiment    `json:"market_sentiment"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	GeneratedAt     time.Time    `json:"timestamp"`
}
