// Package barbershop binds the barbershop REST API to Go types. Every call
// goes through httpclient, so bearer tokens, 401 handling and rate-limit
// retries apply uniformly.
package barbershop

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/barbearia/apiclient/credentials"
	"github.com/barbearia/apiclient/httpclient"
	"github.com/barbearia/apiclient/logger"
)

const headerContentType = "Content-Type"

// API is a typed facade over the REST endpoints.
type API struct {
	client httpclient.Client
	store  credentials.Store
	log    logger.Logger
}

// New creates the facade. store receives the session on login and register
// and may be the same store the client reads tokens from.
func New(client httpclient.Client, store credentials.Store, log logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{client: client, store: store, log: log}
}

// envelope is the {success, data} wrapper most endpoints answer with.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decode unwraps the data envelope when present and decodes into out.
// Endpoints that answer with a bare document are decoded as is.
func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (a *API) get(ctx context.Context, path string, query url.Values, out any) error {
	return a.call(ctx, nethttp.MethodGet, path, query, nil, out)
}

func (a *API) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req := &httpclient.Request{Path: path, Query: query}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Body = body
		req.Headers = map[string]string{headerContentType: "application/json"}
	}

	resp, err := a.client.Do(ctx, method, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := decode(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

// pathf escapes each argument as a single path segment.
func pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}
