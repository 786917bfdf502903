/*

Price resolution over an ordered fallback chain: the primary index source
answers native-asset queries, the DEX aggregator answers everything else
(and anything the index misses). The chain is sequential on purpose: a
native-asset lookup should never pay the aggregator's latency.

*/

package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

const (
	nativeName   = "aptos"
	nativeSymbol = "APT"
	nativeID     = "aptos"
)

// Resolver resolves a human-supplied token query to a normalized quote.
type Resolver struct {
	index *source.Client
	dex   *source.Client
	log   zerolog.Logger
}

// NewResolver builds a resolver over the configured index and aggregator
// sources.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		index: source.New(cfg.PriceIndex),
		dex:   source.New(cfg.Dex),
		log:   logger.GetForComponent("price_resolver"),
	}
}

// indexEntry is the primary index's simple-price shape. Every field beyond
// the spot price is optional; absent values are reported as 0.
type indexEntry struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
	USD24hVol    *float64 `json:"usd_24h_vol"`
	USDMarketCap *float64 `json:"usd_market_cap"`
}

// dexPair is one pair from the aggregator's search response. The provider
// does not guarantee any field, so everything is optional and defensively
// defaulted.
type dexPair struct {
	BaseToken struct {
		Symbol  string `json:"symbol"`
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"baseToken"`
	PriceUSD    string `json:"priceUsd"`
	PriceChange struct {
		H24 *float64 `json:"h24"`
	} `json:"priceChange"`
	Volume struct {
		H24 *float64 `json:"h24"`
	} `json:"volume"`
	FDV       *float64 `json:"fdv"`
	Liquidity struct {
		USD *float64 `json:"usd"`
	} `json:"liquidity"`
	PairAddress string `json:"pairAddress"`
}

type dexSearchResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// Resolve maps a token query to a quote. An empty query or the native
// asset's name (any case) goes to the primary index first; everything else,
// or an index miss, falls back to the DEX aggregator. No match on either
// source returns source.ErrNotFound — a normal negative result.
func (r *Resolver) Resolve(ctx context.Context, query string) (*types.TokenQuote, error) {
	query = strings.TrimSpace(query)

	if query == "" || strings.EqualFold(query, nativeName) {
		quote, err := r.resolveNative(ctx)
		if err == nil {
			return quote, nil
		}
		if !source.IsSoft(err) {
			// Index outage must not block the fallback; log and move on.
			r.log.Warn().Err(err).Msg("Primary index unavailable, falling back to aggregator")
		}
		if query == "" {
			query = nativeName
		}
	}

	return r.resolveFromDex(ctx, query)
}

func (r *Resolver) resolveNative(ctx context.Context) (*types.TokenQuote, error) {
	path := fmt.Sprintf(
		"/simple/price?ids=%s&vs_currencies=usd&include_24hr_vol=true&include_24hr_change=true&include_market_cap=true",
		nativeID,
	)

	var body map[string]indexEntry
	if err := r.index.GetJSON(ctx, path, &body); err != nil {
		return nil, err
	}

	entry, ok := body[nativeID]
	if !ok || entry.USD == nil {
		return nil, source.ErrNotFound
	}

	quote := &types.TokenQuote{
		Symbol:         nativeSymbol,
		Name:           "Aptos",
		PriceUSD:       f64(entry.USD),
		PriceChange24h: f64(entry.USD24hChange),
		Volume24hUSD:   f64(entry.USD24hVol),
		MarketCapUSD:   f64(entry.USDMarketCap),
		LiquidityUSD:   0, // not reported by the index; unknown, not zero
		Source:         types.QuoteSourceNativeIndex,
		UpdatedAt:      time.Now().UTC(),
	}

	r.log.Debug().Float64("price", quote.PriceUSD).Msg("Native asset resolved via primary index")
	return quote, nil
}

func (r *Resolver) resolveFromDex(ctx context.Context, query string) (*types.TokenQuote, error) {
	var body dexSearchResponse
	if err := r.dex.GetJSON(ctx, "/search?q="+url.QueryEscape(query), &body); err != nil {
		if errors.Is(err, source.ErrMalformed) {
			// Best-effort degrade: an unreadable response is a miss.
			return nil, source.ErrNotFound
		}
		return nil, err
	}

	if len(body.Pairs) == 0 {
		return nil, source.ErrNotFound
	}

	// First matching pair wins; ties are broken by source-reported order,
	// not by liquidity or volume.
	pair := body.Pairs[0]

	quote := &types.TokenQuote{
		Symbol:         pair.BaseToken.Symbol,
		Name:           pair.BaseToken.Name,
		Address:        pair.BaseToken.Address,
		PriceUSD:       parsePrice(pair.PriceUSD),
		PriceChange24h: f64(pair.PriceChange.H24),
		Volume24hUSD:   f64(pair.Volume.H24),
		MarketCapUSD:   f64(pair.FDV),
		LiquidityUSD:   f64(pair.Liquidity.USD),
		Source:         types.QuoteSourceDexAggregator,
		PairAddress:    pair.PairAddress,
		UpdatedAt:      time.Now().UTC(),
	}

	r.log.Debug().
		Str("query", query).
		Str("symbol", quote.Symbol).
		Float64("price", quote.PriceUSD).
		Msg("Token resolved via DEX aggregator")
	return quote, nil
}

// f64 dereferences an optional numeric field, defaulting absent values to 0
// before any arithmetic.
func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// parsePrice handles the aggregator's string-encoded prices. Unparseable
// values default to 0 rather than propagating an error or NaN.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
