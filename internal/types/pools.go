/*

Types for the yield pipeline: pools as reported by the liquidity-pool
protocols, and the ranked strategies derived from them.

*/

package types

// Protocol identifies which liquidity protocol listed a pool. The same
// underlying pool listed by two protocols appears twice by design; each
// listing is a distinct position.
type Protocol string

const (
	ProtocolPancakeSwap Protocol = "PancakeSwap"
	ProtocolAux         Protocol = "AUX"
)

// YieldPool is a liquidity pool as reported by one protocol source.
type YieldPool struct {
	Name               string   `json:"name"`
	Tokens             [2]string `json:"tokens"`
	APY                float64  `json:"apy"`
	TvlUSD             float64  `json:"tvl"`
	RewardsPerInterval float64  `json:"rewards"`
	Protocol           Protocol `json:"protocol"`
	// Address is the on-chain pool account used for APR resource reads.
	// Pools without one cannot be ranked and are skipped.
	Address string `json:"address,omitempty"`
}

// PoolAPR is the computed APR breakdown for one pool.
type PoolAPR struct {
	BaseAPR        float64 `json:"base_apr"`
	RewardAPR      float64 `json:"reward_apr"`
	TotalAPR       float64 `json:"total_apr"`
	DailyRewardUSD float64 `json:"daily_reward_usd"`
}

// Position is the policy-derived entry recommendation for a strategy.
type Position string

const (
	PositionEnter Position = "Enter"
	PositionWait  Position = "Wait"
)

// YieldStrategy is a ranked recommendation derived 1:1 from a pool and its
// computed APR.
type YieldStrategy struct {
	Pool                    YieldPool `json:"pool"`
	Strategy                string    `json:"strategy"`
	TotalAPR                float64   `json:"total_apr"`
	EstimatedDailyRewardUSD float64   `json:"estimated_daily_reward_usd"`
	RecommendedPosition     Position  `json:"recommended_position"`
	RiskLevel               RiskLevel `json:"risk_level"`
}
