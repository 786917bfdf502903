/*

Pure holder-distribution statistics. Both functions are total: any input,
including empty or all-zero balance lists, yields a defined value rather
than an error.

*/

package holders

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/teckmodel/aptai/internal/types"
)

// Gini computes the Gini coefficient of a balance distribution: 0 for
// perfect equality, approaching 1 for maximal concentration. An empty list
// or a zero total carries no inequality signal and yields 0.
func Gini(balances []float64) float64 {
	n := len(balances)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, balances)
	sort.Float64s(sorted)

	var total float64
	for _, b := range sorted {
		total += b
	}
	if total <= 0 {
		return 0
	}

	// Σ(2i - n - 1)·b_i over the ascending sort, i running 1..n.
	var weighted float64
	for i, b := range sorted {
		weighted += float64(2*(i+1)-n-1) * b
	}

	return weighted / (float64(n) * total)
}

// ConcentrationTop5 is the share of total balance held by the five largest
// holders. Lists shorter than five sum what exists; a zero total yields 0.
func ConcentrationTop5(balances []float64) float64 {
	if len(balances) == 0 {
		return 0
	}

	sorted := make([]float64, len(balances))
	copy(sorted, balances)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var total float64
	for _, b := range sorted {
		total += b
	}
	if total <= 0 {
		return 0
	}

	top := sorted
	if len(top) > 5 {
		top = top[:5]
	}
	var sum float64
	for _, b := range top {
		sum += b
	}

	return sum / total
}

// Balances converts holder records to the float inputs the statistics
// expect. Negative or unrepresentable balances are clamped to 0.
func Balances(records []types.HolderRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Balance.LessThan(decimal.Zero) {
			out = append(out, 0)
			continue
		}
		f, _ := rec.Balance.Float64()
		out = append(out, f)
	}
	return out
}
