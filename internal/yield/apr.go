package yield

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

const liquidityPoolResource = "0x1::pool::LiquidityPool"

// liquidityPoolData carries the APR fields of a pool resource. The node
// encodes numbers as strings; absent or unparseable fields default to 0.
type liquidityPoolData struct {
	APR       json.RawMessage `json:"apr"`
	RewardAPR json.RawMessage `json:"reward_apr"`
}

// calculateAPR reads a pool's on-chain APR fields and values its daily
// reward at the native asset price. Any failure to reach the pool resource
// makes the pool unrankable and the error propagates so the caller can
// skip it.
func (e *Engine) calculateAPR(ctx context.Context, pool types.YieldPool, nativePriceUSD float64) (types.PoolAPR, error) {
	if pool.Address == "" {
		return types.PoolAPR{}, fmt.Errorf("%w: pool %s has no on-chain address", source.ErrNotFound, pool.Name)
	}

	res, err := e.chain.AccountResource(ctx, pool.Address, liquidityPoolResource)
	if err != nil {
		return types.PoolAPR{}, err
	}

	var data liquidityPoolData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return types.PoolAPR{}, fmt.Errorf("%w: %v", source.ErrMalformed, err)
	}

	apr := types.PoolAPR{
		BaseAPR:   numericField(data.APR),
		RewardAPR: numericField(data.RewardAPR),
	}
	apr.TotalAPR = apr.BaseAPR + apr.RewardAPR
	apr.DailyRewardUSD = apr.TotalAPR / 365 * nativePriceUSD

	return apr, nil
}

// numericField parses a JSON value that may arrive as a number or a quoted
// decimal string, defaulting to 0 in every other case.
func numericField(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var asFloat float64
	if err := json.Unmarshal(raw, &asFloat); err == nil {
		return asFloat
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(asString, 64)
	if err != nil {
		return 0
	}
	return v
}
