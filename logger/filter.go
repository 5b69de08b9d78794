package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig lists the field names treated as sensitive. Matching is a
// case-insensitive substring match on the field key.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig masks credentials the client handles: bearer tokens,
// passwords, API keys and session cookies.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "secret",
			"token", "api_key", "apikey",
			"authorization", "cookie", "credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values whose key looks sensitive.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter. A nil config selects the defaults.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. URLs keep their shape and
// only lose the password part of the userinfo.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if !f.isSensitive(key) {
		return value
	}
	if u, err := url.Parse(value); err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			masked := *u
			masked.User = nil
			return u.Scheme + "://" + u.User.Username() + ":" + f.config.MaskValue + "@" +
				strings.TrimPrefix(masked.String(), u.Scheme+"://")
		}
	}
	return f.config.MaskValue
}

// FilterValue masks value when key is sensitive, and walks string maps and
// HTTP headers masking their sensitive entries.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitive(key) {
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case map[string]any:
		return f.FilterFields(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case http.Header:
		out := make(http.Header, len(v))
		for k, vals := range v {
			if f.isSensitive(k) {
				out[k] = []string{f.config.MaskValue}
				continue
			}
			out[k] = vals
		}
		return out
	default:
		return value
	}
}

// FilterFields returns a copy of fields with sensitive entries masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(field)) {
			return true
		}
	}
	return false
}
