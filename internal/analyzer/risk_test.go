package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teckmodel/aptai/internal/types"
)

func TestRiskLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quote    *types.TokenQuote
		expected types.RiskLevel
	}{
		{
			name:     "Missing quote is worst case",
			quote:    nil,
			expected: types.RiskHigh,
		},
		{
			name:     "Calm market",
			quote:    &types.TokenQuote{PriceChange24h: 1.2},
			expected: types.RiskLow,
		},
		{
			name:     "Exactly at medium boundary stays low",
			quote:    &types.TokenQuote{PriceChange24h: 5.0},
			expected: types.RiskLow,
		},
		{
			name:     "Moderate volatility",
			quote:    &types.TokenQuote{PriceChange24h: -7.5},
			expected: types.RiskMedium,
		},
		{
			name:     "Exactly at high boundary stays medium",
			quote:    &types.TokenQuote{PriceChange24h: -10.0},
			expected: types.RiskMedium,
		},
		{
			name:     "Crash counts the same as a pump",
			quote:    &types.TokenQuote{PriceChange24h: -25},
			expected: types.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskLevel(tt.quote))
		})
	}
}
