package httpclient

import (
	"context"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != meterName {
			continue
		}
		for _, m := range sm.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func sumValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected sum data for %s", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func assertAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expected any) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			assert.Equal(t, expected, attr.Value.AsInterface(), "attribute %s", key)
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}

func TestMetricsRateLimitExhausted(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	server := newScriptedServer(t, tooMany)

	h := newHarness(t, server.URL, func(b *Builder) { b.WithMeterProvider(provider) })
	_, err := h.client.Get(context.Background(), &Request{Path: testRetryPath})
	require.True(t, IsRateLimited(err))

	metrics := collectMetrics(t, reader)

	require.Contains(t, metrics, metricRateLimitRetries)
	assert.Equal(t, int64(3), sumValue(t, metrics[metricRateLimitRetries]))
	require.Contains(t, metrics, metricRateLimitExhausted)
	assert.Equal(t, int64(1), sumValue(t, metrics[metricRateLimitExhausted]))
	assert.NotContains(t, metrics, metricAuthExpired)

	require.Contains(t, metrics, metricRequestDuration)
	hist, ok := metrics[metricRequestDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected histogram data")

	var sends uint64
	var retried uint64
	for _, dp := range hist.DataPoints {
		sends += dp.Count
		attrs := dp.Attributes.ToSlice()
		assertAttribute(t, attrs, attrMethod, nethttp.MethodGet)
		assertAttribute(t, attrs, attrStatusCode, int64(nethttp.StatusTooManyRequests))
		assertAttribute(t, attrs, attrErrorType, HTTPError.String())
		if v, found := dp.Attributes.Value(attribute.Key(attrIsRetry)); found && v.AsBool() {
			retried += dp.Count
		}
	}
	assert.Equal(t, uint64(4), sends)
	assert.Equal(t, uint64(3), retried)
}

func TestMetricsAuthExpired(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	server := newScriptedServer(t, scriptedReply{status: nethttp.StatusUnauthorized})

	h := newHarness(t, server.URL, func(b *Builder) { b.WithMeterProvider(provider) })
	_, err := h.client.Post(context.Background(), &Request{Path: "/cart"})
	require.True(t, IsAuthExpired(err))

	metrics := collectMetrics(t, reader)
	require.Contains(t, metrics, metricAuthExpired)
	assert.Equal(t, int64(1), sumValue(t, metrics[metricAuthExpired]))

	sum := metrics[metricAuthExpired].Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assertAttribute(t, sum.DataPoints[0].Attributes.ToSlice(), attrMethod, nethttp.MethodPost)
}

func TestMetricsSuccessHasNoErrorType(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	server := newScriptedServer(t, ok200)

	h := newHarness(t, server.URL, func(b *Builder) { b.WithMeterProvider(provider) })
	_, err := h.client.Get(context.Background(), &Request{Path: testRetryPath})
	require.NoError(t, err)

	metrics := collectMetrics(t, reader)
	hist := metrics[metricRequestDuration].Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	_, found := hist.DataPoints[0].Attributes.Value(attribute.Key(attrErrorType))
	assert.False(t, found)
	assertAttribute(t, hist.DataPoints[0].Attributes.ToSlice(), attrIsRetry, false)
}

func TestNewClientMetricsNilProvider(t *testing.T) {
	m := newClientMetrics(nil)
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.recordSend(context.Background(), requestContext{method: nethttp.MethodGet}, 200, 0, nil)
		m.recordRetry(context.Background(), nethttp.MethodGet, 1)
		m.recordExhausted(context.Background(), nethttp.MethodGet)
		m.recordAuthExpired(context.Background(), nethttp.MethodGet)
	})
}
