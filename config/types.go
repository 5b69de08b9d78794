package config

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/barbearia/apiclient/retry"
)

// Config is the barberctl configuration. The embedded koanf instance keeps
// the merged key space for GetString, Exists and All.
type Config struct {
	App         AppConfig         `koanf:"app" json:"app" yaml:"app"`
	API         APIConfig         `koanf:"api" json:"api" yaml:"api"`
	Retry       RetryConfig       `koanf:"retry" json:"retry" yaml:"retry"`
	Log         LogConfig         `koanf:"log" json:"log" yaml:"log"`
	Credentials CredentialsConfig `koanf:"credentials" json:"credentials" yaml:"credentials"`
	Metrics     MetricsConfig     `koanf:"metrics" json:"metrics" yaml:"metrics"`

	k *koanf.Koanf `json:"-" yaml:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// APIConfig describes the barbershop REST API and how the client talks to it.
type APIConfig struct {
	BaseURL   string        `koanf:"baseurl" json:"baseurl" yaml:"baseurl" validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
	LoginPath string        `koanf:"loginpath" json:"loginpath" yaml:"loginpath" validate:"required,startswith=/"`
	// RequestIDHeader carries the per-call request ID.
	RequestIDHeader string       `koanf:"requestidheader" json:"requestidheader" yaml:"requestidheader"`
	LogPayloads     bool         `koanf:"logpayloads" json:"logpayloads" yaml:"logpayloads"`
	Pacing          PacingConfig `koanf:"pacing" json:"pacing" yaml:"pacing"`
}

// PacingConfig enables client-side request pacing. Zero rps disables it.
type PacingConfig struct {
	RPS   float64 `koanf:"rps" json:"rps" yaml:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
}

// RetryConfig bounds the rate-limit retry loop.
type RetryConfig struct {
	MaxAttempts int           `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" validate:"gte=0,lte=10"`
	BaseDelay   time.Duration `koanf:"basedelay" json:"basedelay" yaml:"basedelay" validate:"gte=0"`
	MaxDelay    time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" validate:"gtefield=BaseDelay"`
	Multiplier  float64       `koanf:"multiplier" json:"multiplier" yaml:"multiplier" validate:"gte=1"`
}

// Policy converts the section into a retry policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts:       r.MaxAttempts,
		BaseDelay:         r.BaseDelay,
		MaxDelay:          r.MaxDelay,
		BackoffMultiplier: r.Multiplier,
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// Credential store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// CredentialsConfig selects where the session token is kept.
type CredentialsConfig struct {
	Backend string          `koanf:"backend" json:"backend" yaml:"backend" validate:"oneof=memory file redis"`
	File    FileStoreConfig `koanf:"file" json:"file" yaml:"file"`
	Redis   RedisConfig     `koanf:"redis" json:"redis" yaml:"redis"`
}

type FileStoreConfig struct {
	Path string `koanf:"path" json:"path" yaml:"path"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr" json:"addr" yaml:"addr"`
	Password    string        `koanf:"password" json:"-" yaml:"-"` //nolint:gosec // loaded from env
	DB          int           `koanf:"db" json:"db" yaml:"db" validate:"gte=0,lte=15"`
	Key         string        `koanf:"key" json:"key" yaml:"key"`
	TTL         time.Duration `koanf:"ttl" json:"ttl" yaml:"ttl" validate:"gte=0"`
	DialTimeout time.Duration `koanf:"dialtimeout" json:"dialtimeout" yaml:"dialtimeout" validate:"gte=0"`
}

// MetricsConfig selects the OpenTelemetry metrics exporter.
type MetricsConfig struct {
	Exporter string            `koanf:"exporter" json:"exporter" yaml:"exporter" validate:"oneof=none stdout otlp"`
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"-" yaml:"-"`
	Interval time.Duration     `koanf:"interval" json:"interval" yaml:"interval" validate:"gte=0"`
}
