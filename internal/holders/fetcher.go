package holders

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

const coinInfoType = "0x1::coin::CoinInfo"

// Fetcher collects holder records for a token from the chain.
type Fetcher struct {
	chain *chain.Client
	log   zerolog.Logger
}

// NewFetcher builds a fetcher over the given chain client.
func NewFetcher(c *chain.Client) *Fetcher {
	return &Fetcher{
		chain: c,
		log:   logger.GetForComponent("holder_fetcher"),
	}
}

// coinStoreOwner is the holder-relevant slice of a CoinStore resource.
type coinStoreOwner struct {
	Owner string `json:"owner"`
	Coin  *struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// TokenHolders lists holder balances for the token at tokenAddress. The
// token must expose a CoinInfo resource; without one, or with no holder
// entries at all, the result is source.ErrNotFound.
func (f *Fetcher) TokenHolders(ctx context.Context, tokenAddress string) ([]types.HolderRecord, error) {
	address, err := chain.ValidateAddress(tokenAddress)
	if err != nil {
		return nil, err
	}

	if _, err := f.chain.AccountResource(ctx, address, coinInfoType); err != nil {
		return nil, err
	}

	resources, err := f.chain.AccountResources(ctx, address)
	if err != nil {
		return nil, err
	}

	records := make([]types.HolderRecord, 0, len(resources))
	for _, res := range resources {
		if !strings.Contains(res.Type, "CoinStore") {
			continue
		}

		var store coinStoreOwner
		if err := json.Unmarshal(res.Data, &store); err != nil {
			f.log.Debug().Err(err).Str("type", res.Type).Msg("Skipping undecodable coin store")
			continue
		}

		balance := decimal.Zero
		if store.Coin != nil && store.Coin.Value != "" {
			parsed, err := decimal.NewFromString(store.Coin.Value)
			if err != nil {
				f.log.Debug().Err(err).Str("value", store.Coin.Value).Msg("Skipping undecodable balance")
				continue
			}
			balance = parsed
		}

		records = append(records, types.HolderRecord{
			Address: store.Owner,
			Balance: balance,
		})
	}

	if len(records) == 0 {
		return nil, source.ErrNotFound
	}

	f.log.Debug().Int("holders", len(records)).Str("token", address).Msg("Holder records collected")
	return records, nil
}
