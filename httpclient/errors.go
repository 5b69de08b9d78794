package httpclient

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorType classifies client failures.
type ErrorType int

const (
	NetworkError ErrorType = iota
	TimeoutError
	HTTPError
	ValidationError
	InterceptorError
	// AuthExpiredError is returned on 401 after credentials were cleared.
	AuthExpiredError
	// RateLimitedError is returned when 429 persisted through every attempt.
	RateLimitedError
)

func (t ErrorType) String() string {
	switch t {
	case NetworkError:
		return "network"
	case TimeoutError:
		return "timeout"
	case HTTPError:
		return "http"
	case ValidationError:
		return "validation"
	case InterceptorError:
		return "interceptor"
	case AuthExpiredError:
		return "auth_expired"
	case RateLimitedError:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// ClientError is implemented by every error the client returns.
type ClientError interface {
	error
	Type() ErrorType
}

type networkError struct {
	message string
	err     error
}

// NewNetworkError wraps a transport failure (connection refused, reset...).
func NewNetworkError(message string, err error) ClientError {
	return &networkError{message: message, err: err}
}

func (e *networkError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.err)
	}
	return "network error: " + e.message
}

func (e *networkError) Type() ErrorType { return NetworkError }
func (e *networkError) Unwrap() error   { return e.err }

type timeoutError struct {
	message string
	timeout time.Duration
}

// NewTimeoutError reports a request that exceeded its deadline.
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{message: message, timeout: timeout}
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %s)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }

type httpError struct {
	message    string
	statusCode int
	body       []byte
	headers    http.Header
}

// NewHTTPError reports a non-success status code.
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{message: message, statusCode: statusCode, body: body}
}

func newHTTPErrorFromResponse(resp *Response) *httpError {
	return &httpError{
		message:    http.StatusText(resp.StatusCode),
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Headers,
	}
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType    { return HTTPError }
func (e *httpError) StatusCode() int     { return e.statusCode }
func (e *httpError) Body() []byte        { return e.body }
func (e *httpError) Header() http.Header { return e.headers }

// RetryAfter parses the Retry-After header. Whole seconds are the expected
// form; an HTTP-date is accepted as well. Dates in the past yield zero.
func (e *httpError) RetryAfter() (time.Duration, bool) {
	if e.headers == nil {
		return 0, false
	}
	return parseRetryAfter(e.headers.Get("Retry-After"), time.Now())
}

// maxRetryAfterSeconds is the largest delta-seconds a time.Duration holds.
const maxRetryAfterSeconds = math.MaxInt64 / int64(time.Second)

func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs < 0 {
			return 0, false
		}
		if secs > maxRetryAfterSeconds {
			secs = maxRetryAfterSeconds
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

type validationError struct {
	message string
	field   string
}

// NewValidationError reports an invalid request built by the caller.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return "validation error: " + e.message
}

func (e *validationError) Type() ErrorType { return ValidationError }

type interceptorError struct {
	message string
	stage   string
	err     error
}

// NewInterceptorError reports a failing request or response interceptor.
func NewInterceptorError(message, stage string, err error) ClientError {
	return &interceptorError{message: message, stage: stage, err: err}
}

func (e *interceptorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.err)
	}
	return fmt.Sprintf("interceptor error: %s (stage: %s)", e.message, e.stage)
}

func (e *interceptorError) Type() ErrorType { return InterceptorError }
func (e *interceptorError) Unwrap() error   { return e.err }

type authExpiredError struct {
	body []byte
}

// NewAuthExpiredError reports a 401 answer. By the time it is returned the
// stored credentials are gone and the navigator has been told to redirect.
func NewAuthExpiredError(body []byte) ClientError {
	return &authExpiredError{body: body}
}

func (e *authExpiredError) Error() string {
	return "auth expired: credentials rejected (status: 401)"
}

func (e *authExpiredError) Type() ErrorType { return AuthExpiredError }
func (e *authExpiredError) StatusCode() int { return http.StatusUnauthorized }
func (e *authExpiredError) Body() []byte    { return e.body }

type rateLimitedError struct {
	attempts int
	last     error
}

// NewRateLimitedError reports that every one of attempts sends was answered
// with 429. last is the final 429 error.
func NewRateLimitedError(attempts int, last error) ClientError {
	return &rateLimitedError{attempts: attempts, last: last}
}

func (e *rateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: gave up after %d attempt(s)", e.attempts)
}

func (e *rateLimitedError) Type() ErrorType { return RateLimitedError }
func (e *rateLimitedError) Attempts() int   { return e.attempts }
func (e *rateLimitedError) Unwrap() error   { return e.last }

// IsErrorType reports whether err is a ClientError of the given type. Only
// the outermost ClientError in the chain is considered.
func IsErrorType(err error, errorType ErrorType) bool {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError reports whether err carries the given status code.
func IsHTTPStatusError(err error, statusCode int) bool {
	var withStatus interface{ StatusCode() int }
	if errors.As(err, &withStatus) {
		return withStatus.StatusCode() == statusCode
	}
	return false
}

// IsAuthExpired reports a 401 outcome.
func IsAuthExpired(err error) bool { return IsErrorType(err, AuthExpiredError) }

// IsRateLimited reports an exhausted rate-limit retry chain.
func IsRateLimited(err error) bool { return IsErrorType(err, RateLimitedError) }

// IsTransportError reports a failure that is propagated verbatim without
// retry: network, timeout or a non-success status other than 401 and 429.
func IsTransportError(err error) bool {
	return IsErrorType(err, NetworkError) || IsErrorType(err, TimeoutError) || IsErrorType(err, HTTPError)
}

// IsSuccessStatus reports a 2xx status.
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
