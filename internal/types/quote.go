/*

Normalized market quote for a single asset, produced by the price resolver
from whichever source answered first in the fallback chain.

*/

package types

import "time"

// QuoteSource tags which source in the fallback chain produced a quote.
// Exactly one tag is set per quote.
type QuoteSource string

const (
	// QuoteSourceNativeIndex is the primary index source, used for the
	// chain's native asset only.
	QuoteSourceNativeIndex QuoteSource = "native_index"
	// QuoteSourceDexAggregator is the DEX aggregator fallback, used for
	// arbitrary token queries.
	QuoteSourceDexAggregator QuoteSource = "dex_aggregator"
)

// TokenQuote is the single schema all price sources are normalized into.
// PriceUSD is the authoritative USD value used by every downstream
// analytic. LiquidityUSD of 0 from the native index means "unknown", not
// "zero liquidity"; the index simply does not report it.
type TokenQuote struct {
	Symbol         string      `json:"symbol"`
	Name           string      `json:"name"`
	Address        string      `json:"address,omitempty"`
	PriceUSD       float64     `json:"price"`
	PriceChange24h float64     `json:"price_change_24h"`
	Volume24hUSD   float64     `json:"volume_24h"`
	MarketCapUSD   float64     `json:"market_cap"`
	LiquidityUSD   float64     `json:"liquidity"`
	Source         QuoteSource `json:"source"`
	PairAddress    string      `json:"pair_address,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
