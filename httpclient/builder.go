package httpclient

import (
	nethttp "net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/barbearia/apiclient/credentials"
	"github.com/barbearia/apiclient/logger"
	"github.com/barbearia/apiclient/notify"
	"github.com/barbearia/apiclient/retry"
)

// Builder assembles a Client.
type Builder struct {
	config        *Config
	logger        logger.Logger
	credentials   credentials.Store
	navigator     Navigator
	notifier      Notifier
	meterProvider metric.MeterProvider
	transport     nethttp.RoundTripper
}

// NewBuilder starts a client with the default retry policy, a 15s timeout,
// the process-wide notification channel and no credential store.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		config: &Config{
			Timeout:            defaultTimeout,
			RetryPolicy:        retry.DefaultPolicy(),
			LoginPath:          defaultLoginPath,
			DefaultHeaders:     map[string]string{"Accept": "application/json"},
			MaxPayloadLogBytes: defaultMaxPayloadLogBytes,
			RequestIDHeader:    HeaderXRequestID,
		},
		logger:   log,
		notifier: notify.Default(),
	}
}

// FromConfig starts a builder from an existing configuration.
func FromConfig(log logger.Logger, cfg Config) *Builder {
	b := NewBuilder(log)
	merged := cfg
	if merged.Timeout <= 0 {
		merged.Timeout = b.config.Timeout
	}
	if merged.RetryPolicy == (retry.Policy{}) {
		merged.RetryPolicy = b.config.RetryPolicy
	}
	if merged.LoginPath == "" {
		merged.LoginPath = b.config.LoginPath
	}
	if merged.DefaultHeaders == nil {
		merged.DefaultHeaders = b.config.DefaultHeaders
	}
	if merged.MaxPayloadLogBytes <= 0 {
		merged.MaxPayloadLogBytes = b.config.MaxPayloadLogBytes
	}
	if merged.RequestIDHeader == "" {
		merged.RequestIDHeader = b.config.RequestIDHeader
	}
	b.config = &merged
	return b
}

func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL
	return b
}

func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryPolicy replaces the rate-limit retry policy.
func (b *Builder) WithRetryPolicy(p retry.Policy) *Builder {
	b.config.RetryPolicy = p
	return b
}

// WithCredentials sets the store the bearer token is read from and that is
// cleared on 401.
func (b *Builder) WithCredentials(store credentials.Store) *Builder {
	b.credentials = store
	return b
}

// WithNavigator sets what is invoked with the login path on 401.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.navigator = nav
	return b
}

func (b *Builder) WithLoginPath(path string) *Builder {
	b.config.LoginPath = path
	return b
}

// WithNotifier replaces the process-wide notification channel.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	if b.config.DefaultHeaders == nil {
		b.config.DefaultHeaders = make(map[string]string)
	}
	b.config.DefaultHeaders[key] = value
	return b
}

func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithPayloadLogging enables debug previews of up to maxBytes of each body.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

func (b *Builder) WithRequestIDHeader(header string) *Builder {
	if header != "" {
		b.config.RequestIDHeader = header
	}
	return b
}

func (b *Builder) WithRequestIDGenerator(gen func() string) *Builder {
	b.config.NewRequestID = gen
	return b
}

// WithPacing limits this client to rps sends per second with the given
// burst. Zero rps disables pacing.
func (b *Builder) WithPacing(rps float64, burst int) *Builder {
	b.config.RequestsPerSecond = rps
	b.config.Burst = burst
	return b
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// WithTransport replaces the HTTP transport.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// Build creates the client.
func (b *Builder) Build() Client {
	cfg := *b.config
	if cfg.RetryPolicy.MaxAttempts < 0 {
		cfg.RetryPolicy.MaxAttempts = 0
	}

	mp := b.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = notify.NewChannel()
	}

	c := &client{
		httpClient:  &nethttp.Client{Timeout: cfg.Timeout, Transport: b.transport},
		config:      &cfg,
		logger:      b.logger,
		credentials: b.credentials,
		navigator:   b.navigator,
		notifier:    notifier,
		metrics:     newClientMetrics(mp),
		sleep:       sleepContext,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}
