package httpclient

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRequestIDURL  = "http://example.com"
	testPriorityTrace = "X-Priority-Trace"
)

func TestNewRequestIDInterceptor(t *testing.T) {
	t.Run("adds request ID when header is missing", func(t *testing.T) {
		interceptor := NewRequestIDInterceptor("")

		req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, testRequestIDURL, nethttp.NoBody)
		require.NoError(t, err)

		err = interceptor(WithRequestID(context.Background(), "req-123"), req)
		assert.NoError(t, err)
		assert.Equal(t, "req-123", req.Header.Get(HeaderXRequestID))
	})

	t.Run("preserves existing header", func(t *testing.T) {
		interceptor := NewRequestIDInterceptor(testPriorityTrace)

		req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, testRequestIDURL, nethttp.NoBody)
		require.NoError(t, err)
		req.Header.Set(testPriorityTrace, "existing-456")

		err = interceptor(WithRequestID(context.Background(), "new-789"), req)
		assert.NoError(t, err)
		assert.Equal(t, "existing-456", req.Header.Get(testPriorityTrace))
	})

	t.Run("generates uuid when context has none", func(t *testing.T) {
		interceptor := NewRequestIDInterceptor("")

		req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, testRequestIDURL, nethttp.NoBody)
		require.NoError(t, err)

		require.NoError(t, interceptor(context.Background(), req))
		_, err = uuid.Parse(req.Header.Get(HeaderXRequestID))
		assert.NoError(t, err)
	})
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := RequestIDFromContext(WithRequestID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	assert.Equal(t, "abc", EnsureRequestID(WithRequestID(context.Background(), "abc")))
	assert.NotEmpty(t, EnsureRequestID(context.Background()))
}

func TestRequestIDPropagation(t *testing.T) {
	var seen []string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		seen = append(seen, r.Header.Get(testPriorityTrace))
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer server.Close()

	t.Run("context value wins", func(t *testing.T) {
		seen = nil
		c := NewBuilder(nil).
			WithBaseURL(server.URL).
			WithNotifier(nil).
			WithRequestIDHeader(testPriorityTrace).
			WithRequestIDGenerator(func() string { return "generated" }).
			Build()

		_, err := c.Get(WithRequestID(context.Background(), "from-ctx"), &Request{Path: "/ping"})
		require.NoError(t, err)
		assert.Equal(t, []string{"from-ctx"}, seen)
	})

	t.Run("generator used without context value", func(t *testing.T) {
		seen = nil
		c := NewBuilder(nil).
			WithBaseURL(server.URL).
			WithNotifier(nil).
			WithRequestIDHeader(testPriorityTrace).
			WithRequestIDGenerator(func() string { return "generated" }).
			Build()

		_, err := c.Get(context.Background(), &Request{Path: "/ping"})
		require.NoError(t, err)
		assert.Equal(t, []string{"generated"}, seen)
	})

	t.Run("caller header is kept", func(t *testing.T) {
		seen = nil
		c := NewBuilder(nil).
			WithBaseURL(server.URL).
			WithNotifier(nil).
			WithRequestIDHeader(testPriorityTrace).
			Build()

		_, err := c.Get(context.Background(), &Request{
			Path:    "/ping",
			Headers: map[string]string{testPriorityTrace: "caller"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"caller"}, seen)
	})
}
