/*

Yield-strategy ranking: discover pools across the liquidity protocols,
compute per-pool APR from on-chain state plus the native asset price, and
rank the survivors. Discovery is best-effort per source — a dead protocol
endpoint contributes an empty list, never an aborted call.

*/

package yield

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/source"
	"github.com/teckmodel/aptai/internal/types"
)

// Policy thresholds for strategy classification, in APR percent.
const (
	HighYieldThresholdAPR = 50.0
	EnterThresholdAPR     = 30.0
)

// poolSource pairs a protocol client with its list path and payload parser.
type poolSource struct {
	client   *source.Client
	path     string
	protocol types.Protocol
	parse    func(ctx context.Context, c *source.Client, path string) ([]types.YieldPool, error)
}

// Engine discovers pools and ranks them into strategies.
type Engine struct {
	sources  []poolSource
	chain    *chain.Client
	resolver *pricing.Resolver
	log      zerolog.Logger
}

// NewEngine wires the engine to the configured protocol sources, the chain
// client for APR resource reads, and the price resolver for reward
// valuation.
func NewEngine(cfg *config.Config, chainClient *chain.Client, resolver *pricing.Resolver) *Engine {
	e := &Engine{
		chain:    chainClient,
		resolver: resolver,
		log:      logger.GetForComponent("yield_engine"),
	}
	for _, pc := range cfg.PoolSources {
		ps := poolSource{
			client: source.New(pc),
			path:   pc.PathTemplate,
		}
		switch pc.Name {
		case "pancakeswap":
			ps.protocol = types.ProtocolPancakeSwap
			ps.parse = fetchPancakePools
		case "aux":
			ps.protocol = types.ProtocolAux
			ps.parse = fetchAuxPools
		default:
			e.log.Warn().Str("source", pc.Name).Msg("Unknown pool source, skipping")
			continue
		}
		e.sources = append(e.sources, ps)
	}
	return e
}

// pancakeFarmsResponse is the PancakeSwap farms list shape.
type pancakeFarmsResponse struct {
	Farms []struct {
		Token0Symbol    string   `json:"token0Symbol"`
		Token1Symbol    string   `json:"token1Symbol"`
		Token0Address   string   `json:"token0Address"`
		Token1Address   string   `json:"token1Address"`
		APR             *float64 `json:"apr"`
		TotalLiquidity  *float64 `json:"totalLiquidity"`
		RewardPerSecond *float64 `json:"rewardPerSecond"`
		LPAddress       string   `json:"lpAddress"`
	} `json:"farms"`
}

// auxPoolsResponse is the AUX liquidity pool list shape.
type auxPoolsResponse struct {
	Pools []struct {
		Name          string   `json:"name"`
		APY           *float64 `json:"apy"`
		TVL           *float64 `json:"tvl"`
		RewardsPerDay *float64 `json:"rewardsPerDay"`
		Token0        string   `json:"token0"`
		Token1        string   `json:"token1"`
		PoolAddress   string   `json:"poolAddress"`
	} `json:"pools"`
}

func fetchPancakePools(ctx context.Context, c *source.Client, path string) ([]types.YieldPool, error) {
	var body pancakeFarmsResponse
	if err := c.GetJSON(ctx, path, &body); err != nil {
		return nil, err
	}

	pools := make([]types.YieldPool, 0, len(body.Farms))
	for _, farm := range body.Farms {
		pools = append(pools, types.YieldPool{
			Name:               farm.Token0Symbol + "-" + farm.Token1Symbol,
			Tokens:             [2]string{farm.Token0Address, farm.Token1Address},
			APY:                optF(farm.APR),
			TvlUSD:             optF(farm.TotalLiquidity),
			RewardsPerInterval: optF(farm.RewardPerSecond),
			Protocol:           types.ProtocolPancakeSwap,
			Address:            farm.LPAddress,
		})
	}
	return pools, nil
}

func fetchAuxPools(ctx context.Context, c *source.Client, path string) ([]types.YieldPool, error) {
	var body auxPoolsResponse
	if err := c.GetJSON(ctx, path, &body); err != nil {
		return nil, err
	}

	pools := make([]types.YieldPool, 0, len(body.Pools))
	for _, pool := range body.Pools {
		pools = append(pools, types.YieldPool{
			Name:               pool.Name,
			Tokens:             [2]string{pool.Token0, pool.Token1},
			APY:                optF(pool.APY),
			TvlUSD:             optF(pool.TVL),
			RewardsPerInterval: optF(pool.RewardsPerDay),
			Protocol:           types.ProtocolAux,
			Address:            pool.PoolAddress,
		})
	}
	return pools, nil
}

// Pools discovers pools across every protocol source. No cross-protocol
// deduplication happens on purpose: the same underlying pool listed twice
// is two distinct positions.
func (e *Engine) Pools(ctx context.Context) []types.YieldPool {
	names := make([]string, len(e.sources))
	tasks := make([]source.Task[[]types.YieldPool], len(e.sources))
	for i, ps := range e.sources {
		names[i] = ps.client.Name()
		ps := ps
		tasks[i] = func(ctx context.Context) ([]types.YieldPool, error) {
			return ps.parse(ctx, ps.client, ps.path)
		}
	}

	pools := source.BestEffortEach(ctx, names, tasks)

	e.log.Debug().Int("pools", len(pools)).Msg("Pool discovery complete")
	return pools
}

// Strategies ranks every discoverable pool by total APR, descending, with
// stable ties. Pools whose APR inputs cannot be fetched are skipped, never
// ranked as 0% pools.
func (e *Engine) Strategies(ctx context.Context) ([]types.YieldStrategy, error) {
	pools := e.Pools(ctx)
	if len(pools) == 0 {
		return []types.YieldStrategy{}, nil
	}

	quote, err := e.resolver.Resolve(ctx, "aptos")
	if err != nil {
		// Without a native price rewards cannot be valued; every pool is
		// skipped rather than ranked with made-up numbers.
		e.log.Warn().Err(err).Msg("Native price unavailable, no strategies ranked")
		return []types.YieldStrategy{}, nil
	}

	strategies := make([]types.YieldStrategy, 0, len(pools))
	for _, pool := range pools {
		apr, err := e.calculateAPR(ctx, pool, quote.PriceUSD)
		if err != nil {
			e.log.Debug().Err(err).Str("pool", pool.Name).Str("protocol", string(pool.Protocol)).Msg("APR unavailable, pool skipped")
			continue
		}
		strategies = append(strategies, buildStrategy(pool, apr))
	}

	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].TotalAPR > strategies[j].TotalAPR
	})

	e.log.Info().
		Int("ranked", len(strategies)).
		Int("discovered", len(pools)).
		Msg("Yield strategies ranked")
	return strategies, nil
}

// buildStrategy applies the fixed classification policy to one pool.
func buildStrategy(pool types.YieldPool, apr types.PoolAPR) types.YieldStrategy {
	strategy := "Stable Yield"
	if apr.TotalAPR > HighYieldThresholdAPR {
		strategy = "High Yield"
	}
	position := types.PositionWait
	if apr.TotalAPR > EnterThresholdAPR {
		position = types.PositionEnter
	}

	return types.YieldStrategy{
		Pool:                    pool,
		Strategy:                strategy,
		TotalAPR:                apr.TotalAPR,
		EstimatedDailyRewardUSD: apr.DailyRewardUSD,
		RecommendedPosition:     position,
		RiskLevel:               types.RiskMedium,
	}
}

// optF dereferences an optional numeric field, defaulting to 0.
func optF(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
