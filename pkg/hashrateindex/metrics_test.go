package hashrateindex_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()

	metrics, err := hashrateindex.NewMetrics(registry)
	require.NoError(t, err)

	chain := hashrateindex.NewInterceptorChain()
	metrics.Install(chain)

	ctx := context.Background()

	req := &hashrateindex.Request{Operation: "hashprice"}
	require.NoError(t, chain.ExecuteRequestInterceptors(ctx, req))
	require.NoError(t, chain.ExecuteResponseInterceptors(ctx, req, &hashrateindex.Response{StatusCode: 200}))

	raw := &hashrateindex.Request{}
	require.NoError(t, chain.ExecuteRequestInterceptors(ctx, raw))
	require.NoError(t, chain.ExecuteResponseInterceptors(ctx, raw, &hashrateindex.Response{}))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Requests().WithLabelValues("hashprice", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Requests().WithLabelValues("raw", "error")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Requests()))

	_, err = hashrateindex.NewMetrics(registry)
	require.Error(t, err)
}

func TestWriteMetricsFile(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()

	metrics, err := hashrateindex.NewMetrics(registry)
	require.NoError(t, err)

	metrics.Requests().WithLabelValues("ohlc_prices", "200").Inc()

	path := filepath.Join(t.TempDir(), "hashrateindex.prom")
	require.NoError(t, hashrateindex.WriteMetricsFile(path, registry))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `hashrateindex_requests_total{code="200",operation="ohlc_prices"} 1`)
}
