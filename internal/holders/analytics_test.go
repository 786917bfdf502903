package holders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/teckmodel/aptai/internal/types"
)

func TestGini(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balances []float64
		expected float64
	}{
		{
			name:     "Empty list",
			balances: nil,
			expected: 0,
		},
		{
			name:     "Single holder",
			balances: []float64{42},
			expected: 0,
		},
		{
			name:     "Perfect equality",
			balances: []float64{10, 10, 10, 10},
			expected: 0,
		},
		{
			name:     "All zero balances",
			balances: []float64{0, 0, 0},
			expected: 0,
		},
		{
			name:     "One holder owns everything",
			balances: []float64{0, 0, 0, 100},
			expected: 0.75,
		},
		{
			name:     "Two equal holders among four",
			balances: []float64{0, 0, 50, 50},
			expected: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Gini(tt.balances), 1e-9)
		})
	}
}

func TestGiniIsOrderInvariant(t *testing.T) {
	t.Parallel()

	a := Gini([]float64{5, 1, 30, 4, 60})
	b := Gini([]float64{60, 30, 5, 4, 1})
	assert.InDelta(t, a, b, 1e-12)
}

func TestGiniStaysInUnitInterval(t *testing.T) {
	t.Parallel()

	g := Gini([]float64{0.001, 2, 300, 40000, 5, 6, 7})
	assert.GreaterOrEqual(t, g, 0.0)
	assert.Less(t, g, 1.0)
}

func TestConcentrationTop5(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balances []float64
		expected float64
	}{
		{
			name:     "Empty list",
			balances: nil,
			expected: 0,
		},
		{
			name:     "Fewer than five holders",
			balances: []float64{30, 70},
			expected: 1,
		},
		{
			name:     "Top five of eight",
			balances: []float64{10, 10, 10, 10, 10, 10, 20, 20},
			expected: 0.7,
		},
		{
			name:     "Zero total",
			balances: []float64{0, 0},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ConcentrationTop5(tt.balances), 1e-9)
		})
	}
}

func TestBalancesClampsNegatives(t *testing.T) {
	t.Parallel()

	records := []types.HolderRecord{
		{Address: "0xa", Balance: decimal.NewFromInt(10)},
		{Address: "0xb", Balance: decimal.NewFromInt(-3)},
		{Address: "0xc", Balance: decimal.Zero},
	}

	assert.Equal(t, []float64{10, 0, 0}, Balances(records))
}
