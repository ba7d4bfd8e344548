// Package c8y is a small REST client for the Cumulocity IoT platform.
package c8y

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const userAgent = "c8y-mcp"

type options struct {
	timeout time.Duration
	base    http.RoundTripper
}

type Option func(*options)

// WithTimeout bounds every request made through the client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport replaces the underlying transport; auth and tracing are
// still layered on top.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// CurrentUser is the identity the platform resolved the credential to.
type CurrentUser struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Client talks to one tenant as one identity. It holds no session state
// beyond the credential.
type Client struct {
	base   *url.URL
	http   *http.Client
	scheme string
	user   CurrentUser
}

// Authenticate builds a client for tenantURL and checks the credential by
// fetching the current user. Rejected credentials yield ErrUnauthorized.
func Authenticate(ctx context.Context, tenantURL string, a Auth, opts ...Option) (*Client, error) {
	o := options{timeout: 30 * time.Second, base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}
	base, err := url.Parse(tenantURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid tenant url %q", tenantURL)
	}
	c := &Client{
		base: base,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: otelhttp.NewTransport(a.transport(o.base)),
		},
		scheme: a.Scheme(),
	}
	if err := c.Get(ctx, "/user/currentUser", nil, &c.user); err != nil {
		return nil, fmt.Errorf("authenticate against %s: %w", tenantURL, err)
	}
	return c, nil
}

func (c *Client) TenantURL() string        { return c.base.String() }
func (c *Client) Scheme() string           { return c.scheme }
func (c *Client) CurrentUser() CurrentUser { return c.user }

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
