package analyzer

import (
	"math"

	"github.com/teckmodel/aptai/internal/types"
)

// Volatility tier boundaries, in absolute 24h percent change.
const (
	highRiskVolatility   = 10.0
	mediumRiskVolatility = 5.0
)

// RiskLevel maps a quote's 24h volatility to a risk tier. A missing quote
// is RiskHigh: unknown risk is worst-case by policy, never silently low.
func RiskLevel(quote *types.TokenQuote) types.RiskLevel {
	if quote == nil {
		return types.RiskHigh
	}

	volatility := math.Abs(quote.PriceChange24h)
	switch {
	case volatility > highRiskVolatility:
		return types.RiskHigh
	case volatility > mediumRiskVolatility:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
