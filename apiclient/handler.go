package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Outcome labels reported to metrics.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeDecode    = "decode"
)

var errNullBody = errors.New("null response body")

// Response is a completed HTTP exchange handed to override resolvers.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// DecodeJSON unmarshals the body into v
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Override replaces the default classification for one exact status code.
type Override[T any] struct {
	StatusCode int
	Resolve    func(resp *Response) (T, error)
}

// OnStatus builds an Override for code.
func OnStatus[T any](code int, resolve func(resp *Response) (T, error)) Override[T] {
	return Override[T]{StatusCode: code, Resolve: resolve}
}

// NotFoundAsEmpty resolves a 404 to the zero value of T with no error.
func NotFoundAsEmpty[T any]() Override[T] {
	return OnStatus(http.StatusNotFound, func(*Response) (T, error) {
		var zero T
		return zero, nil
	})
}

// Execute performs exactly one call for req and classifies the outcome.
// A response whose status matches an override is resolved by that override alone.
// Otherwise a 2xx body is decoded into T, and any other status is a Status error.
// A 2xx body of JSON null is a Decode error.
func Execute[T any](c *Client, req *Request, operation string, overrides ...Override[T]) (T, error) {
	var zero T

	done := c.metrics.RecordRequest(c.service.String(), operation)
	start := time.Now()

	resp, err := req.r.Execute(req.method, req.url)
	elapsed := time.Since(start)
	if err != nil {
		done(OutcomeTransport)
		c.logger.Debug().
			Err(err).
			Str("operation", operation).
			Str("method", req.method).
			Str("url", req.url).
			Dur("duration", elapsed).
			Msg("Request failed")
		return zero, transportError(operation, req.url, err)
	}

	r := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		URL:        req.url,
	}

	value, outcome, err := resolve(operation, r, overrides)
	done(outcome)

	c.logger.Debug().
		Str("operation", operation).
		Str("method", req.method).
		Str("url", req.url).
		Int("status", r.StatusCode).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("Request completed")

	return value, err
}

// resolve classifies a completed response. It never touches the network.
func resolve[T any](operation string, resp *Response, overrides []Override[T]) (T, string, error) {
	var zero T

	for _, o := range overrides {
		if o.StatusCode == resp.StatusCode {
			v, err := o.Resolve(resp)
			return v, fmt.Sprintf("override_%d", resp.StatusCode), err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, fmt.Sprintf("status_%d", resp.StatusCode),
			statusError(operation, resp.URL, resp.StatusCode, string(resp.Body))
	}

	if bytes.Equal(bytes.TrimSpace(resp.Body), []byte("null")) {
		return zero, OutcomeDecode, decodeError(operation, resp.URL, errNullBody)
	}

	var v T
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return zero, OutcomeDecode, decodeError(operation, resp.URL, err)
	}
	return v, OutcomeOK, nil
}
