// Package calcclient talks to the calculation service over HTTP.
package calcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls the calculation service. It sets no timeout of its own; a
// call ends when ctx is done or the transport gives up.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate posts req to /calc. Errors are *ServiceError for non-2xx answers
// and *TransportError for everything that prevented an answer.
func (c *Client) Calculate(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calc", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp Response
	if err := c.do(httpReq, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Operations fetches the operation names the service supports.
func (c *Client) Operations(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/operations", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var resp struct {
		Operations []string `json:"operations"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return resp.Operations, nil
}

func (c *Client) do(req *http.Request, dst any) error {
	op := req.Method + " " + req.URL.Path

	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err != nil {
			return &ServiceError{StatusCode: res.StatusCode}
		}
		return &ServiceError{StatusCode: res.StatusCode, Detail: eb.message()}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
