// Package mrr is a client for the Mining Rig Rentals v2 API. Every request
// is signed with the account's API key pair; see Credentials.Sign.
package mrr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://www.miningrigrentals.com/api/v2"
	defaultTimeout = 30 * time.Second

	tracerName = "github.com/tjfontaine/mrr-go/internal/api/mrr"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout bounds every call.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDecode controls whether 200 bodies are parsed as JSON (the default)
// or returned as text.
func WithDecode(decode bool) ClientOption {
	return func(c *Client) {
		c.decode = decode
	}
}

// WithPretty appends the "pretty" query marker to every dispatched URI.
func WithPretty(pretty bool) ClientOption {
	return func(c *Client) {
		c.pretty = pretty
	}
}

// WithPrintOutput echoes "<VERB> <URI> : <body>" for every response to w.
func WithPrintOutput(w io.Writer) ClientOption {
	return func(c *Client) {
		c.echo = w
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNonceSource replaces the process-wide clock nonce.
func WithNonceSource(src NonceSource) ClientOption {
	return func(c *Client) {
		c.nonces = src
	}
}

// Client signs and dispatches MRR API requests. Its configuration is fixed
// at construction, so a Client is safe for concurrent use.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	decode     bool
	pretty     bool
	echo       io.Writer
	logger     *slog.Logger
	nonces     NonceSource
	tracer     trace.Tracer
}

// NewClient creates a new MRR API client.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	if creds.APIKey == "" || creds.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		decode:     true,
		logger:     slog.Default(),
		nonces:     processNonce,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracer = otel.Tracer(tracerName)
	return c, nil
}

// Get issues a signed GET.
func (c *Client) Get(ctx context.Context, path string, params Params) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, params)
}

// Post issues a signed POST.
func (c *Client) Post(ctx context.Context, path string, params Params) (*Result, error) {
	return c.Do(ctx, http.MethodPost, path, params)
}

// Put issues a signed PUT.
func (c *Client) Put(ctx context.Context, path string, params Params) (*Result, error) {
	return c.Do(ctx, http.MethodPut, path, params)
}

// Delete issues a signed DELETE.
func (c *Client) Delete(ctx context.Context, path string, params Params) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, params)
}

// Do dispatches a request and normalizes the response. A non-200 status is
// not an error: it comes back as Result.Raw.
func (c *Client) Do(ctx context.Context, method, path string, params Params) (*Result, error) {
	raw, err := c.Query(ctx, method, path, params)
	if err != nil {
		return nil, err
	}
	return c.ParseResult(raw)
}

// Query signs and sends one request and returns the unnormalized outcome.
// params are JSON-encoded as the body for every verb, GET and DELETE
// included; the API expects it.
func (c *Client) Query(ctx context.Context, method, path string, params Params) (*RawResult, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("mrr: unsupported method %q", method)
	}

	if params == nil {
		params = Params{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	basePath, queryTail := SplitPath(path)
	uri := c.baseURL + basePath + queryTail
	if c.pretty {
		uri = withPrettyMarker(uri)
	}
	nonce := c.nonces.Next()

	ctx, span := c.tracer.Start(ctx, "mrr "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("mrr.path", basePath),
		),
	)
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, method, uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq, nonce, basePath)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &TransportError{Method: method, URL: uri, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, &TransportError{Method: method, URL: uri, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "mrr request",
		slog.String("method", method),
		slog.String("path", basePath),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	if c.echo != nil {
		fmt.Fprintf(c.echo, "%s %s : %s\n", method, uri, respBody)
	}

	return &RawResult{
		Status: resp.StatusCode,
		Header: resp.Header,
		Data:   string(respBody),
	}, nil
}

// ParseResult normalizes a raw outcome according to the decode setting.
func (c *Client) ParseResult(raw *RawResult) (*Result, error) {
	if raw == nil {
		return nil, errors.New("mrr: nil raw result")
	}
	if raw.Status != http.StatusOK {
		return &Result{Raw: raw}, nil
	}

	body := []byte(raw.Data)
	if !c.decode {
		return &Result{Value: raw.Data, body: body}, nil
	}

	v, err := decodeJSON(body)
	if err != nil {
		return nil, &DecodeError{Status: raw.Status, Body: raw.Data, Err: err}
	}
	return &Result{Value: v, body: body}, nil
}

// decodeJSON parses exactly one JSON document. Numbers stay json.Number so
// large IDs survive a round trip.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON document")
	}
	return v, nil
}

func (c *Client) setHeaders(req *http.Request, nonce, basePath string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.creds.APIKey)
	req.Header.Set("x-api-nonce", nonce)
	req.Header.Set("x-api-sign", c.creds.Sign(nonce, basePath))
}

func withPrettyMarker(uri string) string {
	if strings.Contains(uri, "?") {
		return uri + "&pretty"
	}
	return uri + "?pretty"
}
