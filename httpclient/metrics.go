package httpclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	meterName = "barbearia/apiclient/httpclient"

	metricRequestDuration    = "http.client.request.duration"     // Histogram in seconds
	metricRateLimitRetries   = "http.client.ratelimit.retries"    // Counter
	metricRateLimitExhausted = "http.client.ratelimit.exhausted"  // Counter
	metricAuthExpired        = "http.client.auth.expired"         // Counter

	attrMethod     = "http.request.method"
	attrStatusCode = "http.response.status_code"
	attrErrorType  = "error.type"
	attrRetry      = "http.request.resend_count"
	attrIsRetry    = "http.request.is_retry"
)

// clientMetrics holds the instruments of one client. Instruments that fail
// to initialize fall back to no-ops.
type clientMetrics struct {
	duration  metric.Float64Histogram
	retries   metric.Int64Counter
	exhausted metric.Int64Counter
	expired   metric.Int64Counter
}

func logMetricError(name string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize httpclient metric %s: %v\n", name, err)
	}
}

func newClientMetrics(provider metric.MeterProvider) *clientMetrics {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)
	fallback := noop.Meter{}
	m := &clientMetrics{}

	var err error
	if m.duration, err = meter.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Duration of outbound API sends"),
		metric.WithUnit("s"),
	); err != nil {
		logMetricError(metricRequestDuration, err)
		m.duration, _ = fallback.Float64Histogram(metricRequestDuration)
	}
	if m.retries, err = meter.Int64Counter(metricRateLimitRetries,
		metric.WithDescription("Sends repeated after a 429 answer"),
		metric.WithUnit("{retry}"),
	); err != nil {
		logMetricError(metricRateLimitRetries, err)
		m.retries, _ = fallback.Int64Counter(metricRateLimitRetries)
	}
	if m.exhausted, err = meter.Int64Counter(metricRateLimitExhausted,
		metric.WithDescription("Calls that failed after exhausting rate-limit retries"),
		metric.WithUnit("{call}"),
	); err != nil {
		logMetricError(metricRateLimitExhausted, err)
		m.exhausted, _ = fallback.Int64Counter(metricRateLimitExhausted)
	}
	if m.expired, err = meter.Int64Counter(metricAuthExpired,
		metric.WithDescription("Calls answered with 401 that cleared credentials"),
		metric.WithUnit("{call}"),
	); err != nil {
		logMetricError(metricAuthExpired, err)
		m.expired, _ = fallback.Int64Counter(metricAuthExpired)
	}
	return m
}

func (m *clientMetrics) recordSend(ctx context.Context, rc requestContext, status int, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, rc.method),
		attribute.Bool(attrIsRetry, rc.isRetry),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int(attrStatusCode, status))
	}
	var clientErr ClientError
	if err != nil && errors.As(err, &clientErr) {
		attrs = append(attrs, attribute.String(attrErrorType, clientErr.Type().String()))
	}
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
}

func (m *clientMetrics) recordRetry(ctx context.Context, method string, retryNumber int) {
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrRetry, strconv.Itoa(retryNumber)),
	))
}

func (m *clientMetrics) recordExhausted(ctx context.Context, method string) {
	m.exhausted.Add(ctx, 1, metric.WithAttributes(attribute.String(attrMethod, method)))
}

func (m *clientMetrics) recordAuthExpired(ctx context.Context, method string) {
	m.expired.Add(ctx, 1, metric.WithAttributes(attribute.String(attrMethod, method)))
}
