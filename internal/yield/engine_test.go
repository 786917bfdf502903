package yield

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/types"
)

const pancakeBody = `{"farms":[
	{"token0Symbol":"APT","token1Symbol":"USDC","apr":80,"totalLiquidity":2000000,"lpAddress":"0xpool1"},
	{"token0Symbol":"APT","token1Symbol":"WETH","apr":60,"totalLiquidity":500000,"lpAddress":""}
]}`

const auxBody = `{"pools":[
	{"name":"APT-USDT","apy":12,"tvl":900000,"token0":"0xapt","token1":"0xusdt","poolAddress":"0xpool2"}
]}`

// newTestEngine wires the engine against httptest stand-ins for the two
// protocol endpoints, the fullnode and the price sources.
func newTestEngine(t *testing.T, pancake, aux, node, index http.HandlerFunc) *Engine {
	t.Helper()

	pancakeSrv := httptest.NewServer(pancake)
	t.Cleanup(pancakeSrv.Close)
	auxSrv := httptest.NewServer(aux)
	t.Cleanup(auxSrv.Close)
	nodeSrv := httptest.NewServer(node)
	t.Cleanup(nodeSrv.Close)
	indexSrv := httptest.NewServer(index)
	t.Cleanup(indexSrv.Close)
	dexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[]}`))
	}))
	t.Cleanup(dexSrv.Close)

	cfg := &config.Config{
		NodeURL: nodeSrv.URL,
		PoolSources: []config.SourceConfig{
			{Name: "pancakeswap", BaseURL: pancakeSrv.URL, PathTemplate: "/farms"},
			{Name: "aux", BaseURL: auxSrv.URL, PathTemplate: "/liquidity/pools"},
		},
		PriceIndex: config.SourceConfig{Name: "coingecko", BaseURL: indexSrv.URL},
		Dex:        config.SourceConfig{Name: "dexscreener", BaseURL: dexSrv.URL},
	}

	return NewEngine(cfg, chain.NewClient(cfg), pricing.NewResolver(cfg))
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func nativePriceHandler(price string) http.HandlerFunc {
	return serveJSON(`{"aptos":{"usd":` + price + `}}`)
}

// nodeWithPools serves pool resources for the given addresses and 404s
// everything else.
func nodeWithPools(resources map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for addr, data := range resources {
			if strings.Contains(r.URL.Path, addr) {
				w.Write([]byte(`{"type":"0x1::pool::LiquidityPool","data":` + data + `}`))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestPoolsSurviveOneDeadProtocol(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t,
		serveJSON(pancakeBody),
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		nodeWithPools(nil),
		nativePriceHandler("10"),
	)

	pools := e.Pools(context.Background())
	require.Len(t, pools, 2)
	assert.Equal(t, "APT-USDC", pools[0].Name)
	assert.Equal(t, "0xpool1", pools[0].Address)
}

func TestStrategiesSkipUnrankablePoolsAndSortDescending(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t,
		serveJSON(pancakeBody),
		serveJSON(auxBody),
		nodeWithPools(map[string]string{
			"0xpool1": `{"apr":"80","reward_apr":"20"}`,
			"0xpool2": `{"apr":10}`,
		}),
		nativePriceHandler("10"),
	)

	strategies, err := e.Strategies(context.Background())
	require.NoError(t, err)

	// Three pools discovered; the address-less farm cannot be ranked.
	require.Len(t, strategies, 2)

	assert.Equal(t, "APT-USDC", strategies[0].Pool.Name)
	assert.InDelta(t, 100, strategies[0].TotalAPR, 1e-9)
	assert.Equal(t, "High Yield", strategies[0].Strategy)
	assert.Equal(t, types.PositionEnter, strategies[0].RecommendedPosition)
	assert.InDelta(t, 100.0/365*10, strategies[0].EstimatedDailyRewardUSD, 1e-9)

	assert.Equal(t, "APT-USDT", strategies[1].Pool.Name)
	assert.InDelta(t, 10, strategies[1].TotalAPR, 1e-9)
	assert.Equal(t, "Stable Yield", strategies[1].Strategy)
	assert.Equal(t, types.PositionWait, strategies[1].RecommendedPosition)
}

func TestStrategiesWithoutNativePriceRankNothing(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t,
		serveJSON(pancakeBody),
		serveJSON(auxBody),
		nodeWithPools(map[string]string{"0xpool1": `{"apr":50}`}),
		serveJSON(`{}`), // index knows nothing, dex finds nothing
	)

	strategies, err := e.Strategies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, strategies)
}

func TestStrategiesWithNoDiscoverablePools(t *testing.T) {
	t.Parallel()

	down := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }

	e := newTestEngine(t, down, down, nodeWithPools(nil), nativePriceHandler("10"))

	strategies, err := e.Strategies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, strategies)
}

func TestNumericField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "Plain number", raw: `42.5`, expected: 42.5},
		{name: "Quoted number", raw: `"17"`, expected: 17},
		{name: "Absent", raw: ``, expected: 0},
		{name: "Garbage string", raw: `"n/a"`, expected: 0},
		{name: "Wrong type", raw: `{"v":1}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, numericField([]byte(tt.raw)))
		})
	}
}
