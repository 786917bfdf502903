package types

import "github.com/shopspring/decimal"

// HolderRecord is one holder's balance of a token. Balances arrive from the
// chain as integer strings in the token's smallest unit; decimal keeps them
// exact until analytics need floats.
type HolderRecord struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}
