// Package observability builds the OpenTelemetry meter provider that the API
// client records its rate-limit and request metrics on.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
)

// Exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const (
	// DefaultShutdownTimeout bounds the final flush.
	DefaultShutdownTimeout = 10 * time.Second
	defaultInterval        = time.Minute
)

// ErrInvalidExporter is returned for an unknown exporter name.
var ErrInvalidExporter = errors.New("invalid metrics exporter")

// Config selects where metrics go.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	Exporter string
	// Endpoint is the OTLP/HTTP collector host:port.
	Endpoint string
	Insecure bool
	Headers  map[string]string
	Interval time.Duration

	// Writer receives stdout-exporter output. Defaults to os.Stderr.
	Writer io.Writer
}

// Provider owns a meter provider and flushes it on Shutdown.
type Provider interface {
	MeterProvider() metric.MeterProvider
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type provider struct {
	meterProvider *sdkmetric.MeterProvider
}

// New builds a provider for cfg. With ExporterNone (or empty) it returns a
// no-op provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.Exporter == "" || cfg.Exporter == ExporterNone {
		return newNoopProvider(), nil
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := createMetricExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))

	return &provider{
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
	}, nil
}

func createResource(cfg Config) (*resource.Resource, error) {
	custom, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), custom)
}

func createMetricExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	case ExporterOTLP:
		if cfg.Endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
		}
		return otlpmetrichttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("exporter '%s': %w", cfg.Exporter, ErrInvalidExporter)
	}
}

func (p *provider) MeterProvider() metric.MeterProvider { return p.meterProvider }

func (p *provider) ForceFlush(ctx context.Context) error { return p.meterProvider.ForceFlush(ctx) }

func (p *provider) Shutdown(ctx context.Context) error { return p.meterProvider.Shutdown(ctx) }

type noopProvider struct {
	meterProvider metric.MeterProvider
}

func newNoopProvider() *noopProvider {
	return &noopProvider{meterProvider: noop.NewMeterProvider()}
}

func (n *noopProvider) MeterProvider() metric.MeterProvider { return n.meterProvider }

func (n *noopProvider) ForceFlush(_ context.Context) error { return nil }

func (n *noopProvider) Shutdown(_ context.Context) error { return nil }

// Shutdown flushes and stops provider within timeout.
func Shutdown(provider Provider, timeout time.Duration) error {
	if provider == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("observability shutdown failed: %w", err)
	}
	return nil
}
