package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/lightctl/internal/field"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/palette"
	"github.com/muurk/lightctl/internal/version"
)

const (
	// DefaultPort is the controller's HTTP port
	DefaultPort = 80

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries applies to the field list fetch only; updates are
	// sent exactly once.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between fetch attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// maxBodySize bounds how much of a response is read
	maxBodySize = 1 << 20
)

// Client talks to one LED controller over HTTP.
type Client struct {
	// BaseURL is the controller's base URL, e.g. "http://192.168.10.1:80".
	// Field endpoints are resolved relative to it.
	BaseURL string

	HTTPClient *http.Client

	MaxRetries            int
	RetryDelay            time.Duration
	MaxRetryDelay         time.Duration
	UseExponentialBackoff bool
}

// Reply is the controller's answer to an update.
type Reply struct {
	// Name is the "name" member when the body was a JSON object carrying one.
	Name string
	// Raw is the body as received.
	Raw string
}

// Text returns Name when present, otherwise the raw body.
func (r *Reply) Text() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Raw
}

// NewClient creates a client for the controller at host:port.
func NewClient(host string, port int) *Client {
	if port == 0 {
		port = DefaultPort
	}
	return NewClientWithURL("http://" + net.JoinHostPort(host, strconv.Itoa(port)))
}

// NewClientWithURL creates a client with a full base URL. This is handy when
// the controller sits behind a proxy or a non-root path.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior for All
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Host returns the hostname part of BaseURL.
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// URL returns the endpoint for a field name.
func (c *Client) URL(name string) string {
	return c.BaseURL + "/" + url.PathEscape(name)
}

// All fetches the controller's field list, retrying transient failures with
// exponential backoff.
func (c *Client) All(ctx context.Context) ([]field.Descriptor, error) {
	var lastErr error
	delay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

			if c.UseExponentialBackoff {
				delay *= 2
				if delay > c.MaxRetryDelay {
					delay = c.MaxRetryDelay
				}
			}
		}

		descriptors, err := c.allAttempt(ctx)
		if err == nil {
			return descriptors, nil
		}

		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) allAttempt(ctx context.Context) ([]field.Descriptor, error) {
	body, err := c.do(ctx, http.MethodGet, c.URL("all"), nil)
	if err != nil {
		return nil, err
	}

	var descriptors []field.Descriptor
	if err := json.Unmarshal(body, &descriptors); err != nil {
		return nil, NewParseError("failed to parse field list", err)
	}
	return descriptors, nil
}

// PostValue sets a field: POST <base>/<name> with form body name, value.
func (c *Client) PostValue(ctx context.Context, name, value string) (*Reply, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("value", value)

	body, err := c.do(ctx, http.MethodPost, c.URL(name), form)
	if err != nil {
		return nil, err
	}
	return parseReply(body), nil
}

// PostColor sets a color field: POST <base>/<name>?r=&g=&b= with the same
// components repeated in the form body.
func (c *Client) PostColor(ctx context.Context, name string, color palette.RGB) (*Reply, error) {
	r, g, b := strconv.Itoa(color.R), strconv.Itoa(color.G), strconv.Itoa(color.B)

	query := url.Values{}
	query.Set("r", r)
	query.Set("g", g)
	query.Set("b", b)

	form := url.Values{}
	form.Set("name", name)
	form.Set("r", r)
	form.Set("g", g)
	form.Set("b", b)

	body, err := c.do(ctx, http.MethodPost, c.URL(name)+"?"+query.Encode(), form)
	if err != nil {
		return nil, err
	}
	return &Reply{Raw: string(body)}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}

	logging.LogRequest(method, endpoint)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("%s %s failed", method, endpoint), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}
	logging.LogResponse(method, endpoint, resp.StatusCode, time.Since(start), body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, string(body))
	}
	return body, nil
}

// parseReply extracts "name" from a JSON object body, leaving Raw untouched.
func parseReply(body []byte) *Reply {
	reply := &Reply{Raw: string(body)}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return reply
	}
	raw, ok := obj["name"]
	if !ok || string(raw) == "null" {
		return reply
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		reply.Name = name
	} else {
		reply.Name = string(raw)
	}
	return reply
}
