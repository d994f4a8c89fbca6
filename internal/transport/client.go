// Package transport is the single HTTP gateway to the SiteCraft API.
//
// Every call goes through Client.Do, which runs the request interceptors
// (credential injection, request ids), sends the request with the default or
// the generation timeout, runs the response interceptors, and maps the
// outcome to either a decoded payload or a *types.APIError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

const (
	DefaultTimeout           = 30 * time.Second
	DefaultGenerationTimeout = 120 * time.Second
)

// ClientOptions configures the transport client.
type ClientOptions struct {
	// BaseURL is the API root (e.g. "http://localhost:5000/api").
	BaseURL string
	// Timeout applies to ordinary requests (default: 30s).
	Timeout time.Duration
	// GenerationTimeout applies to requests marked Long (default: 120s).
	GenerationTimeout time.Duration
	// HTTPTransport overrides the round tripper of both clients.
	HTTPTransport http.RoundTripper
}

// OptionsFromConfig converts the API section of the client config.
func OptionsFromConfig(cfg types.APIConfig) ClientOptions {
	return ClientOptions{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout.Std(),
		GenerationTimeout: cfg.GenerationTimeout.Std(),
	}
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/projects/3".
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Public requests (login, register) are sent without credentials and
	// never fail fast for lack of a session.
	Public bool
	// Long requests use the generation timeout.
	Long bool
}

// RequestInterceptor may modify or reject an outgoing request. Returning an
// error aborts the call before it reaches the network.
type RequestInterceptor func(req *http.Request, call *Request) (*http.Request, error)

// ResponseInterceptor observes every response before its body is decoded.
type ResponseInterceptor func(resp *http.Response)

// Client sends API requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	longClient *http.Client

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	log zerolog.Logger
}

// NewClient creates a new transport client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:5000/api"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = DefaultGenerationTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.HTTPTransport,
		},
		longClient: &http.Client{
			Timeout:   opts.GenerationTimeout,
			Transport: opts.HTTPTransport,
		},
		log: logging.Component("transport"),
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UseRequest appends request interceptors. They run in registration order.
func (c *Client) UseRequest(interceptors ...RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestInterceptors = append(c.requestInterceptors, interceptors...)
}

// UseResponse appends response interceptors.
func (c *Client) UseResponse(interceptors ...ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseInterceptors = append(c.responseInterceptors, interceptors...)
}

func (c *Client) interceptors() ([]RequestInterceptor, []ResponseInterceptor) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestInterceptors, c.responseInterceptors
}

// errorBody is the error envelope returned by the API.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Do sends call and decodes a successful response into out (if non-nil).
// Every returned error is a *types.APIError.
func (c *Client) Do(ctx context.Context, call Request, out any) error {
	req, err := c.newRequest(ctx, &call)
	if err != nil {
		return err
	}

	reqInterceptors, respInterceptors := c.interceptors()
	for _, intercept := range reqInterceptors {
		if req, err = intercept(req, &call); err != nil {
			return err
		}
	}

	client := c.httpClient
	if call.Long {
		client = c.longClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.log.Debug().
			Str("method", call.Method).
			Str("path", call.Path).
			Str("request_id", req.Header.Get(HeaderRequestID)).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("request failed")
		return types.NetworkError(err)
	}
	defer resp.Body.Close()

	for _, intercept := range respInterceptors {
		intercept(resp)
	}

	data, readErr := io.ReadAll(resp.Body)

	c.log.Debug().
		Str("method", call.Method).
		Str("path", call.Path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("duration", time.Since(start)).
		Msg("request done")

	if readErr != nil {
		return types.NetworkError(readErr)
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &types.APIError{
			Kind:       types.KindServer,
			Message:    "malformed response",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, call *Request) (*http.Request, error) {
	if call.Method == "" {
		call.Method = http.MethodGet
	}

	u := c.baseURL + "/" + strings.TrimLeft(call.Path, "/")
	if len(call.Query) > 0 {
		u += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, &types.APIError{Kind: types.KindValidation, Message: "cannot encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, u, body)
	if err != nil {
		return nil, &types.APIError{Kind: types.KindValidation, Message: "cannot build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// statusError maps a non-2xx response to an APIError.
func statusError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		body = errorBody{}
	}

	if status == http.StatusUnauthorized {
		apiErr := types.UnauthorizedError(body.Error)
		apiErr.Details = body.Details
		return apiErr
	}
	return types.ServerError(status, body.Error, body.Details)
}

// Get is shorthand for a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post is shorthand for a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put is shorthand for a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete is shorthand for a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Path joins path segments with "/", escaping each one.
func Path(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(fmt.Sprint(s)))
	}
	return b.String()
}
