package httpclient

import (
	nethttp "net/http"
	"strconv"
)

const defaultMaxPayloadLogBytes = 1024

func (c *client) maxPayloadBytes() int {
	if c.config.MaxPayloadLogBytes > 0 {
		return c.config.MaxPayloadLogBytes
	}
	return defaultMaxPayloadLogBytes
}

func preview(body []byte, limit int) ([]byte, bool) {
	if len(body) > limit {
		return body[:limit], true
	}
	return body, false
}

func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string, attempt int) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Int("attempt", attempt)
	if n := len(req.Header); n > 0 {
		event = event.Int("header_count", n)
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}
	shown, truncated := preview(body, c.maxPayloadBytes())
	c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("request_id", requestID).
		Interface("headers", req.Header).
		Int("body_size", len(body)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", shown).
		Msg("REST client request")
}

func (c *client) logResponse(resp *Response, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Int("attempt", resp.Stats.Attempt).
		Str("request_id", requestID)
	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}
	shown, truncated := preview(resp.Body, c.maxPayloadBytes())
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", resp.Headers).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", shown).
		Msg("REST client response")
}
