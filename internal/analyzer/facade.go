/*

Token metrics composition: one resolved quote plus the pure risk and ratio
analytics, packaged as a single report. This facade is the only analytics
entry point exposed to external callers such as the chat layer.

*/

package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/types"
)

// ErrUndefinedRatio is returned when a ratio denominator (market cap) is 0
// while its numerator is not. Dividing there would manufacture Inf/NaN;
// the report is refused instead.
var ErrUndefinedRatio = errors.New("ratio undefined: zero market cap with nonzero numerator")

// Facade composes the price resolver with the risk and ratio analytics.
type Facade struct {
	resolver *pricing.Resolver
	log      zerolog.Logger
}

// NewFacade builds the facade over a resolver.
func NewFacade(resolver *pricing.Resolver) *Facade {
	return &Facade{
		resolver: resolver,
		log:      logger.GetForComponent("analytics_facade"),
	}
}

// AnalyzeToken resolves tokenQuery and derives the metrics report.
// Resolution failures propagate untouched (a not-found stays a not-found);
// an undefined ratio refuses the report with ErrUndefinedRatio.
func (f *Facade) AnalyzeToken(ctx context.Context, tokenQuery string) (*types.TokenMetricsReport, error) {
	quote, err := f.resolver.Resolve(ctx, tokenQuery)
	if err != nil {
		return nil, err
	}

	liquidityRatio, err := safeRatio(quote.LiquidityUSD, quote.MarketCapUSD)
	if err != nil {
		return nil, err
	}
	volumeRatio, err := safeRatio(quote.Volume24hUSD, quote.MarketCapUSD)
	if err != nil {
		return nil, err
	}

	sentiment := types.SentimentNegative
	if quote.PriceChange24h > 0 {
		sentiment = types.SentimentPositive
	}

	report := &types.TokenMetricsReport{
		ReportID: uuid.NewString(),
		Query:    tokenQuery,
		Quote:    *quote,
		PriceMetrics: types.PriceMetrics{
			CurrentPrice:   quote.PriceUSD,
			PriceChange24h: quote.PriceChange24h,
			MarketCap:      quote.MarketCapUSD,
			LiquidityRatio: liquidityRatio,
			VolumeRatio:    volumeRatio,
		},
		MarketSentiment: sentiment,
		RiskLevel:       RiskLevel(quote),
		GeneratedAt:     time.Now().UTC(),
	}

	f.log.Debug().
		Str("reportId", report.ReportID).
		Str("symbol", quote.Symbol).
		Str("risk", string(report.RiskLevel)).
		Msg("Token metrics report generated")
	return report, nil
}

// safeRatio is 0 whenever the numerator is 0 — a 0 numerator means "no
// signal" regardless of market cap. A positive numerator over a zero
// market cap has no defined value.
func safeRatio(numerator, marketCap float64) (float64, error) {
	if numerator == 0 {
		return 0, nil
	}
	if marketCap == 0 {
		return 0, ErrUndefinedRatio
	}
	return numerator / marketCap, nil
}
