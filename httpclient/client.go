package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/barbearia/apiclient/credentials"
	"github.com/barbearia/apiclient/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultLoginPath = "/login"

	headerAuthorization = "Authorization"
)

// client is the Request Pipeline. It is safe for concurrent use; per-call
// retry state lives in requestContext values on the caller's goroutine.
type client struct {
	httpClient  *nethttp.Client
	config      *Config
	logger      logger.Logger
	credentials credentials.Store
	navigator   Navigator
	notifier    Notifier
	metrics     *clientMetrics
	limiter     *rate.Limiter
	sleep       func(ctx context.Context, d time.Duration) error
	callCount   atomic.Int64
}

var _ Client = (*client)(nil)

// requestContext identifies one logical call. It is copied, never shared:
// each retry works on a new value with the attempt advanced.
type requestContext struct {
	method    string
	req       *Request
	requestID string
	isRetry   bool
	// attempt counts the retries already started for this call.
	attempt int
}

func (rc requestContext) nextAttempt() requestContext {
	rc.isRetry = true
	rc.attempt++
	return rc
}

// sendNumber is the 1-based send this context describes.
func (rc requestContext) sendNumber() int { return rc.attempt + 1 }

func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do sends req and resolves the logical call: a response, AuthExpired,
// RateLimited after the retry ceiling, or the transport failure verbatim.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewValidationError("request is required", "request")
	}
	if method == "" {
		return nil, NewValidationError("method is required", "method")
	}

	rc := requestContext{
		method:    strings.ToUpper(method),
		req:       req,
		requestID: c.requestIDFor(ctx),
	}

	resp, err := c.send(ctx, rc)
	if err != nil && IsHTTPStatusError(err, nethttp.StatusTooManyRequests) {
		return c.retryRateLimited(ctx, rc, err)
	}
	return resp, err
}

// send performs exactly one HTTP exchange and classifies the outcome.
func (c *client) send(ctx context.Context, rc requestContext) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.contextError(err)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewNetworkError("pacing wait interrupted", err)
		}
	}

	httpReq, err := c.buildRequest(ctx, rc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		clientErr := c.transportError(ctx, err)
		c.metrics.recordSend(ctx, rc, 0, elapsed, clientErr)
		c.logger.Error().
			Err(err).
			Str("method", rc.method).
			Str("url", httpReq.URL.String()).
			Str("request_id", rc.requestID).
			Int("attempt", rc.sendNumber()).
			Msg("REST client request failed")
		return nil, clientErr
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		clientErr := NewNetworkError("failed to read response body", err)
		c.metrics.recordSend(ctx, rc, httpResp.StatusCode, elapsed, clientErr)
		return nil, clientErr
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: elapsed,
			CallCount:   c.callCount.Add(1),
			Attempt:     rc.sendNumber(),
		},
	}
	c.logResponse(resp, rc.requestID)

	for _, interceptor := range c.config.ResponseInterceptors {
		httpResp.Body = io.NopCloser(bytes.NewReader(body))
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			clientErr := NewInterceptorError("response interceptor failed", "response", err)
			c.metrics.recordSend(ctx, rc, resp.StatusCode, elapsed, clientErr)
			return nil, clientErr
		}
	}

	switch {
	case resp.StatusCode == nethttp.StatusUnauthorized:
		err := c.handleAuthExpired(ctx, rc, resp)
		c.metrics.recordSend(ctx, rc, resp.StatusCode, elapsed, err)
		return nil, err
	case resp.StatusCode < nethttp.StatusBadRequest:
		c.metrics.recordSend(ctx, rc, resp.StatusCode, elapsed, nil)
		return resp, nil
	default:
		err := newHTTPErrorFromResponse(resp)
		c.metrics.recordSend(ctx, rc, resp.StatusCode, elapsed, err)
		return nil, err
	}
}

func (c *client) buildRequest(ctx context.Context, rc requestContext) (*nethttp.Request, error) {
	target, err := c.resolveURL(rc.req)
	if err != nil {
		return nil, err
	}

	var body io.Reader = nethttp.NoBody
	if len(rc.req.Body) > 0 {
		body = bytes.NewReader(rc.req.Body)
	}
	httpReq, err := nethttp.NewRequestWithContext(ctx, rc.method, target, body)
	if err != nil {
		return nil, NewValidationError("failed to create request: "+err.Error(), "url")
	}

	for k, v := range c.config.DefaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range rc.req.Headers {
		httpReq.Header.Set(k, v)
	}

	header := c.config.RequestIDHeader
	if header == "" {
		header = HeaderXRequestID
	}
	if httpReq.Header.Get(header) == "" {
		httpReq.Header.Set(header, rc.requestID)
	}

	c.attachCredentials(ctx, httpReq)

	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewInterceptorError("request interceptor failed", "request", err)
		}
	}

	c.logRequest(httpReq, rc.req.Body, rc.requestID, rc.sendNumber())
	return httpReq, nil
}

func (c *client) resolveURL(req *Request) (string, error) {
	raw := req.URL
	if raw == "" {
		if c.config.BaseURL == "" {
			return "", NewValidationError("either URL or a base URL with Path is required", "url")
		}
		raw = strings.TrimRight(c.config.BaseURL, "/")
		if req.Path != "" {
			raw += "/" + strings.TrimLeft(req.Path, "/")
		}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", NewValidationError("invalid request URL: "+raw, "url")
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vals := range req.Query {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// attachCredentials sets the bearer token unless the caller set its own
// Authorization header. A failing store is logged and the request goes out
// without credentials.
func (c *client) attachCredentials(ctx context.Context, req *nethttp.Request) {
	if c.credentials == nil || req.Header.Get(headerAuthorization) != "" {
		return
	}
	token, err := c.credentials.Token(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrNoCredentials) {
			c.logger.Warn().Err(err).Msg("Could not read stored credentials")
		}
		return
	}
	req.Header.Set(headerAuthorization, "Bearer "+token)
}

// handleAuthExpired clears the stored token and user, sends the navigator to
// the login entry point and returns AuthExpired. A 401 is never retried.
func (c *client) handleAuthExpired(ctx context.Context, rc requestContext, resp *Response) error {
	if c.credentials != nil {
		if err := c.credentials.Clear(context.WithoutCancel(ctx)); err != nil {
			c.logger.Error().Err(err).Str("request_id", rc.requestID).Msg("Failed to clear credentials after 401")
		}
	}
	c.metrics.recordAuthExpired(ctx, rc.method)
	c.logger.Warn().
		Str("method", rc.method).
		Str("request_id", rc.requestID).
		Str("redirect", c.config.LoginPath).
		Msg("Credentials expired, redirecting to login")
	if c.navigator != nil {
		c.navigator.Redirect(ctx, c.config.LoginPath)
	}
	return NewAuthExpiredError(resp.Body)
}

func (c *client) transportError(ctx context.Context, err error) ClientError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return c.contextError(ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError("request timed out", c.config.Timeout)
	}
	return NewNetworkError("request failed", err)
}

func (c *client) contextError(err error) ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("context deadline exceeded", c.config.Timeout)
	}
	return NewNetworkError("request canceled", err)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
