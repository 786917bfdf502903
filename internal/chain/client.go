/*

Read-only client for the Aptos fullnode REST API. This is the on-chain
collaborator consumed by the holder and yield pipelines; it is assumed
reliable but transport failures still surface through the source taxonomy
so callers can convert them into skip/omit decisions.

*/

package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/source"
)

const (
	aptCoinStoreType = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"
	octasPerApt      = 100_000_000
)

// Resource is one account resource as returned by the node. Data stays raw;
// callers decode the shapes they understand.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TransactionSummary is the condensed view of one account transaction.
type TransactionSummary struct {
	Hash      string `json:"hash"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Success   bool   `json:"success"`
}

// TransactionReport is a page of transactions plus derived counts.
type TransactionReport struct {
	Transactions  []TransactionSummary `json:"transactions"`
	Count         int                  `json:"count"`
	UniqueWallets int                  `json:"unique_wallets"`
}

// Client reads accounts from a single fullnode.
type Client struct {
	node *source.Client
	log  zerolog.Logger
}

// NewClient builds a client for the configured node.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		node: source.New(config.SourceConfig{
			Name:    "fullnode",
			BaseURL: cfg.NodeURL,
			Timeout: cfg.NodeTimeout,
		}),
		log: logger.GetForComponent("chain_client"),
	}
}

// ValidateAddress checks the canonical 0x-prefixed form. Violations are
// programmer/caller errors, returned immediately and never retried.
func ValidateAddress(address string) (string, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if !strings.HasPrefix(address, "0x") {
		return "", fmt.Errorf("%w: address must start with 0x", source.ErrInvalidInput)
	}
	return address, nil
}

// AccountResource fetches a single typed resource from an account.
// A node 404 surfaces as source.ErrNotFound.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (*Resource, error) {
	address, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}

	var res Resource
	path := fmt.Sprintf("/accounts/%s/resource/%s", address, resourceType)
	if err := c.node.GetJSON(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AccountResources lists every resource held by an account.
func (c *Client) AccountResources(ctx context.Context, address string) ([]Resource, error) {
	address, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}

	var resources []Resource
	path := fmt.Sprintf("/accounts/%s/resources", address)
	if err := c.node.GetJSON(ctx, path, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// AccountTransactions fetches up to limit recent transactions for an
// account and summarizes them.
func (c *Client) AccountTransactions(ctx context.Context, address string, limit int) (*TransactionReport, error) {
	address, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	var raw []TransactionSummary
	path := fmt.Sprintf("/accounts/%s/transactions?limit=%d", address, limit)
	if err := c.node.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	wallets := make(map[string]struct{}, len(raw))
	for _, tx := range raw {
		if tx.Sender != "" {
			wallets[tx.Sender] = struct{}{}
		}
	}

	return &TransactionReport{
		Transactions:  raw,
		Count:         len(raw),
		UniqueWallets: len(wallets),
	}, nil
}

// coinStoreData is the slice of a CoinStore resource we care about.
type coinStoreData struct {
	Coin struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// AptBalance returns the account's native balance formatted with 8 decimal
// places. A missing coin store is a zero balance, not an error.
func (c *Client) AptBalance(ctx context.Context, address string) (string, error) {
	resources, err := c.AccountResources(ctx, address)
	if err != nil {
		return "", err
	}

	for _, res := range resources {
		if res.Type != aptCoinStoreType {
			continue
		}
		var store coinStoreData
		if err := json.Unmarshal(res.Data, &store); err != nil {
			c.log.Warn().Err(err).Str("address", address).Msg("Undecodable coin store")
			break
		}
		octas, err := decimal.NewFromString(store.Coin.Value)
		if err != nil {
			c.log.Warn().Err(err).Str("value", store.Coin.Value).Msg("Undecodable balance value")
			break
		}
		return octas.Div(decimal.NewFromInt(octasPerApt)).StringFixed(8), nil
	}

	return decimal.Zero.StringFixed(8), nil
}
