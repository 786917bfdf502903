package types

import (
	"encoding/json"
	"time"
)

// MarketplaceListing is one marketplace's view of a collection. Raw keeps
// the provider payload untouched; the typed fields are best-effort extracts
// and stay zero when the provider does not report them.
type MarketplaceListing struct {
	Source        string          `json:"source"`
	Raw           json.RawMessage `json:"raw,omitempty"`
	FloorPrice    float64         `json:"floor_price,omitempty"`
	Volume24h     float64         `json:"volume_24h,omitempty"`
	HighestSale   float64         `json:"highest_sale,omitempty"`
	TotalListings int             `json:"total_listings,omitempty"`
	Owners        []string        `json:"owners,omitempty"`
	PriceHistory  []PricePoint    `json:"price_history,omitempty"`
}

// PricePoint is one entry in a collection's sale history.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// NFTSnapshot is the merged multi-marketplace view of one collection.
// Marketplaces only contains sources that answered; failed or empty sources
// are omitted entirely rather than recorded as errors. SourceOrder preserves
// the fixed registration order so output is deterministic.
type NFTSnapshot struct {
	CollectionID string                        `json:"collection_id"`
	Marketplaces map[string]MarketplaceListing `json:"marketplaces"`
	SourceOrder  []string                      `json:"source_order"`
	Analytics    NFTAnalytics                  `json:"analytics"`
}

// NFTAnalytics is derived across the populated sources of a snapshot.
// FloorReported guards FloorPrice: with no source reporting a positive
// floor there is no floor, not a floor of zero.
type NFTAnalytics struct {
	TotalVolume   float64      `json:"total_volume"`
	FloorPrice    float64      `json:"floor_price"`
	FloorReported bool         `json:"floor_reported"`
	HighestSale   float64      `json:"highest_sale"`
	TotalListings int          `json:"total_listings"`
	UniqueHolders []string     `json:"unique_holders,omitempty"`
	PriceHistory  []PricePoint `json:"price_history,omitempty"`
}
