// Package httpclient is the single entry point for calls to the barbershop
// REST API. Every request goes through one pipeline that attaches the stored
// bearer token, clears credentials and redirects to login on 401, and retries
// 429 answers with bounded exponential backoff while telling the UI how long
// it is waiting.
package httpclient

import (
	"context"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/barbearia/apiclient/notify"
	"github.com/barbearia/apiclient/retry"
)

// Client defines the REST client used by every API binding.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request describes one logical call. URL, when set, is used as is;
// otherwise Path is resolved against Config.BaseURL. The body is kept as
// bytes so that retries can resend it.
type Request struct {
	URL     string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// Response is a received response with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats describes how the response was obtained.
type Stats struct {
	ElapsedTime time.Duration
	// CallCount is the client-wide number of sends so far.
	CallCount int64
	// Attempt is the 1-based send number within the logical call.
	Attempt int
}

// RequestInterceptor runs on every send, after credentials are attached.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor runs on every received response, including 401 and
// 429 answers. The body can be read again.
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Navigator is invoked with Config.LoginPath once stored credentials have
// been cleared after a 401.
type Navigator interface {
	Redirect(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Redirect(ctx context.Context, path string) { f(ctx, path) }

// Notifier receives one notification per rate-limit retry and a final one
// when the retry ceiling is reached. *notify.Channel implements it.
type Notifier interface {
	Emit(n notify.Notification)
}

// Config holds the client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RetryPolicy bounds the 429 retry loop.
	RetryPolicy retry.Policy
	// LoginPath is passed to the Navigator on 401 (default: /login).
	LoginPath            string
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	DefaultHeaders       map[string]string
	// LogPayloads enables debug-level logging of headers and body previews.
	LogPayloads bool
	// MaxPayloadLogBytes caps logged body bytes (default: 1024).
	MaxPayloadLogBytes int
	// RequestIDHeader carries the per-call request ID (default: X-Request-ID).
	RequestIDHeader string
	// NewRequestID generates an ID when the context has none (default: uuid).
	NewRequestID func() string
	// RequestsPerSecond paces outbound sends from this client. Zero disables
	// pacing; there is no coordination across clients either way.
	RequestsPerSecond float64
	Burst             int
}
