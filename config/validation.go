package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report koanf key paths (api.baseurl) rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and the cross-field rules of the
// credentials and metrics sections. The first failure is returned as a *ConfigError.
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	if err := validateCredentials(&cfg.Credentials); err != nil {
		return err
	}
	if cfg.Metrics.Exporter == "otlp" && cfg.Metrics.Endpoint == "" {
		return NewMissingFieldError("metrics.endpoint", envVarFor("metrics.endpoint"), "metrics.endpoint")
	}
	return nil
}

func fieldError(fe validator.FieldError) *ConfigError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field, envVarFor(field), field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	case "gtefield":
		return NewValidationError(field, fmt.Sprintf("must be greater than or equal to %s", strings.ToLower(fe.Param())))
	default:
		msg := fmt.Sprintf("fails %s", fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return NewValidationError(field, fmt.Sprintf("%s (value %v)", msg, fe.Value()))
	}
}

func validateCredentials(cfg *CredentialsConfig) error {
	switch cfg.Backend {
	case BackendFile:
		if cfg.File.Path == "" {
			return NewMissingFieldError("credentials.file.path", envVarFor("credentials.file.path"), "credentials.file.path")
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return NewMissingFieldError("credentials.redis.addr", envVarFor("credentials.redis.addr"), "credentials.redis.addr")
		}
		if cfg.Redis.Key == "" {
			return NewMissingFieldError("credentials.redis.key", envVarFor("credentials.redis.key"), "credentials.redis.key")
		}
	}
	return nil
}

// envVarFor returns the environment variable that sets a koanf key.
func envVarFor(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
