package httpclient

import (
	"context"
	nethttp "net/http"

	"github.com/google/uuid"
)

// HeaderXRequestID is the default header carrying the per-call request ID.
const HeaderXRequestID = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID stores a request ID for the client to propagate.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns the ID from ctx or a new random one.
func EnsureRequestID(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}

// NewRequestIDInterceptor sets header (X-Request-ID when empty) from the
// context unless the request already carries it.
func NewRequestIDInterceptor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, EnsureRequestID(ctx))
		}
		return nil
	}
}

// requestIDFor resolves the ID once per logical call so every retry of the
// call carries the same value.
func (c *client) requestIDFor(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	if c.config.NewRequestID != nil {
		if id := c.config.NewRequestID(); id != "" {
			return id
		}
	}
	return uuid.NewString()
}
