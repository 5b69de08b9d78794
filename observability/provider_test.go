package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewDisabledReturnsNoop(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		p, err := New(context.Background(), Config{Exporter: exporter})
		require.NoError(t, err)
		assert.IsType(t, noop.MeterProvider{}, p.MeterProvider())
		assert.NoError(t, p.ForceFlush(context.Background()))
		assert.NoError(t, Shutdown(p, 0))
	}
}

func TestNewRejectsUnknownExporter(t *testing.T) {
	_, err := New(context.Background(), Config{Exporter: "prometheus"})
	assert.ErrorIs(t, err, ErrInvalidExporter)
}

func TestNewOTLPRequiresEndpoint(t *testing.T) {
	_, err := New(context.Background(), Config{Exporter: ExporterOTLP})
	assert.ErrorContains(t, err, "requires an endpoint")
}

func TestNewOTLPWithEndpoint(t *testing.T) {
	p, err := New(context.Background(), Config{
		Exporter: ExporterOTLP,
		Endpoint: "localhost:4318",
		Insecure: true,
		Headers:  map[string]string{"x-api-key": "k"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(p, 50*time.Millisecond) })
	assert.NotNil(t, p.MeterProvider())
}

func TestStdoutExporterWritesOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(context.Background(), Config{
		ServiceName:    "barberctl",
		ServiceVersion: "test",
		Environment:    "development",
		Exporter:       ExporterStdout,
		Writer:         &buf,
	})
	require.NoError(t, err)

	counter, err := p.MeterProvider().Meter("test").Int64Counter("calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, Shutdown(p, 0))
	assert.Contains(t, buf.String(), `"calls"`)
	assert.Contains(t, buf.String(), "barberctl")
}

func TestShutdownNilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(nil, 0))
}
