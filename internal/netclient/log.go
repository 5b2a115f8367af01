package netclient

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const maxLoggedBody = 2048

var (
	errUnsupportedScheme = errors.New("scheme must be http or https")
	errMissingHost       = errors.New("missing host")
)

func (c *Client) logRequest(req *http.Request) {
	if e := c.log.Debug(); e.Enabled() {
		e.Str("method", req.Method).
			Str("url", req.URL.String()).
			Interface("headers", flattenHeaders(req.Header)).
			Msg("request")
	}
}

func (c *Client) logResponse(resp *http.Response, body []byte, elapsed time.Duration) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("url", resp.Request.URL.String()).
			Msg("http status code error")
	}
	if e := c.log.Debug(); e.Enabled() {
		e.Int("status", resp.StatusCode).
			Str("url", resp.Request.URL.String()).
			Int("bytes", len(body)).
			Dur("elapsed", elapsed).
			Str("body", loggableBody(body)).
			Msg("response")
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func loggableBody(body []byte) string {
	if !utf8.Valid(body) {
		return "<binary>"
	}
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	cut := body[:maxLoggedBody]
	for len(cut) > 0 && !utf8.Valid(cut) {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "…"
}
