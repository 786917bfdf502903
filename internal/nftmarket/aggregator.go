/*

Partial-failure-tolerant NFT collection aggregation. Every configured
marketplace is queried concurrently under the settle-all policy; whatever
succeeded is merged into one snapshot keyed by source name, in registration
order. Only a total miss across all sources is a negative result.

*/

package nftmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

// marketplaceSource pairs a client with its collection path template.
type marketplaceSource struct {
	client       *source.Client
	pathTemplate string
}

// Aggregator fans collection lookups out across the configured marketplace
// sources.
type Aggregator struct {
	sources []marketplaceSource
	log     zerolog.Logger
}

// NewAggregator builds an aggregator from the configured marketplaces,
// preserving registration order.
func NewAggregator(cfg *config.Config) *Aggregator {
	sources := make([]marketplaceSource, 0, len(cfg.Marketplaces))
	for _, mc := range cfg.Marketplaces {
		sources = append(sources, marketplaceSource{
			client:       source.New(mc),
			pathTemplate: mc.PathTemplate,
		})
	}
	return &Aggregator{
		sources: sources,
		log:     logger.GetForComponent("nft_aggregator"),
	}
}

// listingPayload is the superset of fields the marketplaces report for a
// collection. None are guaranteed; absent fields stay zero.
type listingPayload struct {
	FloorPrice    *float64 `json:"floorPrice"`
	Volume24h     *float64 `json:"volume24h"`
	HighestSale   *float64 `json:"highestSale"`
	TotalListings *int     `json:"totalListings"`
	Owners        []string `json:"owners"`
	Sales         []struct {
		Timestamp int64   `json:"timestamp"`
		Price     float64 `json:"price"`
	} `json:"sales"`
	Stats *struct {
		FloorPrice  *float64 `json:"floorPrice"`
		Volume24h   *float64 `json:"volume24h"`
		HighestSale *float64 `json:"highestSale"`
		Listings    *int     `json:"listings"`
	} `json:"stats"`
}

// Fetch queries every marketplace for collectionID and merges the sources
// that answered. With zero populated sources the collection is a
// source.ErrNotFound, never a zero-filled snapshot.
func (a *Aggregator) Fetch(ctx context.Context, collectionID string) (*types.NFTSnapshot, error) {
	if collectionID == "" {
		return nil, fmt.Errorf("%w: empty collection id", source.ErrInvalidInput)
	}

	names := make([]string, len(a.sources))
	tasks := make([]source.Task[types.MarketplaceListing], len(a.sources))
	for i, ms := range a.sources {
		names[i] = ms.client.Name()
		ms := ms
		tasks[i] = func(ctx context.Context) (types.MarketplaceListing, error) {
			return fetchListing(ctx, ms, collectionID)
		}
	}

	outcomes := source.SettleAll(ctx, names, tasks)

	snapshot := &types.NFTSnapshot{
		CollectionID: collectionID,
		Marketplaces: make(map[string]types.MarketplaceListing),
	}
	for _, o := range outcomes {
		if o.Err != nil {
			// Failed sources are omitted from the output, not recorded
			// as errors.
			a.log.Debug().Err(o.Err).Str("source", o.Source).Str("collection", collectionID).Msg("Marketplace lookup failed")
			continue
		}
		snapshot.Marketplaces[o.Source] = o.Value
		snapshot.SourceOrder = append(snapshot.SourceOrder, o.Source)
	}

	if len(snapshot.Marketplaces) == 0 {
		return nil, source.ErrNotFound
	}

	snapshot.Analytics = deriveAnalytics(snapshot)

	a.log.Debug().
		Str("collection", collectionID).
		Int("sources", len(snapshot.Marketplaces)).
		Msg("Marketplace snapshot merged")
	return snapshot, nil
}

func fetchListing(ctx context.Context, ms marketplaceSource, collectionID string) (types.MarketplaceListing, error) {
	path := fmt.Sprintf(ms.pathTemplate, url.PathEscape(collectionID))

	var raw json.RawMessage
	if err := ms.client.GetJSON(ctx, path, &raw); err != nil {
		return types.MarketplaceListing{}, err
	}

	listing := types.MarketplaceListing{
		Source: ms.client.Name(),
		Raw:    raw,
	}

	// Typed extraction is best-effort; a shape we cannot read still counts
	// as a populated source because the raw payload is attached.
	var payload listingPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return listing, nil
	}

	if payload.Stats != nil {
		if payload.FloorPrice == nil {
			payload.FloorPrice = payload.Stats.FloorPrice
		}
		if payload.Volume24h == nil {
			payload.Volume24h = payload.Stats.Volume24h
		}
		if payload.HighestSale == nil {
			payload.HighestSale = payload.Stats.HighestSale
		}
		if payload.TotalListings == nil {
			payload.TotalListings = payload.Stats.Listings
		}
	}

	if payload.FloorPrice != nil {
		listing.FloorPrice = *payload.FloorPrice
	}
	if payload.Volume24h != nil {
		listing.Volume24h = *payload.Volume24h
	}
	if payload.HighestSale != nil {
		listing.HighestSale = *payload.HighestSale
	}
	if payload.TotalListings != nil {
		listing.TotalListings = *payload.TotalListings
	}
	listing.Owners = payload.Owners
	for _, sale := range payload.Sales {
		listing.PriceHistory = append(listing.PriceHistory, types.PricePoint{
			Timestamp: timestampFromUnix(sale.Timestamp),
			Price:     sale.Price,
		})
	}

	return listing, nil
}
