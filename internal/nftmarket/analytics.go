package nftmarket

import (
	"sort"
	"time"

	"github.com/teckmodel/aptai/internal/types"
)

// deriveAnalytics aggregates across the populated sources of a snapshot.
// The floor is the minimum positive floor across sources; with no source
// reporting one, FloorReported stays false and FloorPrice is meaningless.
func deriveAnalytics(snapshot *types.NFTSnapshot) types.NFTAnalytics {
	analytics := types.NFTAnalytics{}

	holderSet := make(map[string]struct{})

	for _, name := range snapshot.SourceOrder {
		listing := snapshot.Marketplaces[name]

		analytics.TotalVolume += listing.Volume24h
		analytics.TotalListings += listing.TotalListings

		if listing.FloorPrice > 0 {
			if !analytics.FloorReported || listing.FloorPrice < analytics.FloorPrice {
				analytics.FloorPrice = listing.FloorPrice
			}
			analytics.FloorReported = true
		}
		if listing.HighestSale > analytics.HighestSale {
			analytics.HighestSale = listing.HighestSale
		}
		for _, owner := range listing.Owners {
			holderSet[owner] = struct{}{}
		}
		analytics.PriceHistory = append(analytics.PriceHistory, listing.PriceHistory...)
	}

	if len(holderSet) > 0 {
		analytics.UniqueHolders = make([]string, 0, len(holderSet))
		for owner := range holderSet {
			analytics.UniqueHolders = append(analytics.UniqueHolders, owner)
		}
		sort.Strings(analytics.UniqueHolders)
	}
	sort.SliceStable(analytics.PriceHistory, func(i, j int) bool {
		return analytics.PriceHistory[i].Timestamp.Before(analytics.PriceHistory[j].Timestamp)
	})

	return analytics
}

// timestampFromUnix tolerates both second and millisecond precision, which
// the marketplaces mix freely.
func timestampFromUnix(ts int64) time.Time {
	if ts > 1e12 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}
