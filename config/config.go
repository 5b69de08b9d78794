// Package config loads barberctl settings from defaults, an optional YAML
// file and BARBER_-prefixed environment variables, in that order of
// increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read by Load.
// BARBER_API_BASEURL maps to api.baseurl.
const EnvPrefix = "BARBER_"

// DefaultFile is read when Load is called without a path. It may be absent.
const DefaultFile = "barberctl.yaml"

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load builds the configuration. An explicit path must exist; with an empty
// path DefaultFile is used when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// Parse builds the configuration from YAML bytes layered over the defaults.
// Environment variables are not consulted.
func Parse(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	err := k.Load(file.Provider(path), yaml.Parser())
	switch {
	case err == nil:
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "barberctl",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,

		"api.baseurl":         "http://localhost:5000/api",
		"api.timeout":         "15s",
		"api.loginpath":       "/login",
		"api.requestidheader": "X-Request-ID",
		"api.logpayloads":     false,
		"api.pacing.rps":      0,
		"api.pacing.burst":    0,

		"retry.maxattempts": 3,
		"retry.basedelay":   "1s",
		"retry.maxdelay":    "10s",
		"retry.multiplier":  2.0,

		"log.level":  "info",
		"log.pretty": false,

		"credentials.backend":           BackendMemory,
		"credentials.file.path":         "",
		"credentials.redis.addr":        "",
		"credentials.redis.db":          0,
		"credentials.redis.key":         "barberctl:session",
		"credentials.redis.ttl":         "0s",
		"credentials.redis.dialtimeout": "5s",

		"metrics.exporter": "none",
		"metrics.endpoint": "",
		"metrics.insecure": false,
		"metrics.interval": "1m",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
