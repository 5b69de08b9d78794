// Package commands implements the barberctl subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/barbearia/apiclient/barbershop"
	"github.com/barbearia/apiclient/config"
	"github.com/barbearia/apiclient/credentials"
	"github.com/barbearia/apiclient/httpclient"
	"github.com/barbearia/apiclient/logger"
	"github.com/barbearia/apiclient/notify"
	"github.com/barbearia/apiclient/observability"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	Pretty     bool
	// Stderr receives logs and rate-limit notices. Defaults to os.Stderr.
	Stderr io.Writer
}

// Env is everything a command needs to talk to the API.
type Env struct {
	Config *config.Config
	Log    logger.Logger
	Store  credentials.Store
	API    *barbershop.API

	closers []func() error
}

// Close flushes metrics and releases the credential store.
func (e *Env) Close() error {
	var first error
	for _, fn := range e.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Setup loads configuration and wires the logger, credential store, metrics
// and client. Rate-limit notices are logged as warnings.
func Setup(ctx context.Context, opts *GlobalOptions) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := logger.NewWithWriter(stderr, level, cfg.Log.Pretty || opts.Pretty, nil).
		WithFields(map[string]any{"app": cfg.App.Name, "env": cfg.App.Env})

	store, closeStore, err := NewStore(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.New(ctx, observability.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
		Exporter:       cfg.Metrics.Exporter,
		Endpoint:       cfg.Metrics.Endpoint,
		Insecure:       cfg.Metrics.Insecure,
		Headers:        cfg.Metrics.Headers,
		Interval:       cfg.Metrics.Interval,
		Writer:         stderr,
	})
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, err
	}

	notify.Register(notify.LogSubscriber(log))

	b := httpclient.NewBuilder(log).
		WithBaseURL(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout).
		WithRetryPolicy(cfg.Retry.Policy()).
		WithLoginPath(cfg.API.LoginPath).
		WithRequestIDHeader(cfg.API.RequestIDHeader).
		WithCredentials(store).
		WithMeterProvider(metrics.MeterProvider()).
		WithDefaultHeader("User-Agent", cfg.App.Name+"/"+cfg.App.Version).
		WithNavigator(httpclient.NavigatorFunc(func(_ context.Context, path string) {
			fmt.Fprintf(stderr, "Sessão expirada. Faça login novamente (%s): barberctl login\n", path)
		}))
	if cfg.API.LogPayloads {
		b = b.WithPayloadLogging(0)
	}
	if cfg.API.Pacing.RPS > 0 {
		b = b.WithPacing(cfg.API.Pacing.RPS, cfg.API.Pacing.Burst)
	}

	env := &Env{
		Config: cfg,
		Log:    log,
		Store:  store,
		API:    barbershop.New(b.Build(), store, log),
	}
	env.closers = append(env.closers, func() error {
		return observability.Shutdown(metrics, 0)
	})
	if closeStore != nil {
		env.closers = append(env.closers, closeStore)
	}
	return env, nil
}

// NewStore builds the configured credential store. The returned close
// function is nil for stores that hold no resources.
func NewStore(ctx context.Context, cfg config.CredentialsConfig) (credentials.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return credentials.NewFileStore(cfg.File.Path), nil, nil
	case config.BackendRedis:
		store, err := credentials.NewRedisStore(ctx, credentials.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Key:         cfg.Redis.Key,
			TTL:         cfg.Redis.TTL,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendMemory, "":
		return credentials.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
