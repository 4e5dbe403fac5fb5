package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"blogfront/models"

	"go.uber.org/zap"
)

// Client talks to the blog API at a fixed base address. Credentials travel
// as cookies held in the client's jar. There is no timeout and
// no retry: a failed request surfaces to the caller at once.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithTransport swaps the round tripper, keeping the jar.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.http.Jar = jar
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := NewJar(base, nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	return c, nil
}

// WithJar returns a copy of the client that sends and stores credentials in
// jar. The transport is shared.
func (c *Client) WithJar(jar http.CookieJar) *Client {
	hc := *c.http
	hc.Jar = jar
	return &Client{baseURL: c.baseURL, http: &hc, logger: c.logger}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	contentType, body, err := form.encode()
	if err != nil {
		return &Error{Kind: KindTransport, Method: http.MethodPost, Path: path, Err: fmt.Errorf("error encoding form: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, contentType, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	if body == nil {
		body = struct{}{}
	}
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("error marshalling request: %w", err)}
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(reqBytes), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("error reading response: %w", err)}
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return statusError(method, path, resp.StatusCode, data)
	}

	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if !env.Success {
		return &Error{Kind: KindRejected, Method: method, Path: path, Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return nil
}
