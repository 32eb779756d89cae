package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Error is a non-success response from the upstream API. Message carries
// the server-provided diagnostic when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client is a JSON client for the upstream HRM API. All verbs share one
// contract: bodies are serialized as JSON, non-2xx responses become
// *Error carrying the server message, and 2xx responses are decoded into
// the caller's value when one is supplied. Network failures propagate
// unwrapped; there are no retries at this layer.
type Client struct {
	base *url.URL
	hc   *http.Client
}

func New(baseURL string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{
		base: parsed,
		hc:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type callOptions struct {
	cookies     []*http.Cookie
	respCookies *[]*http.Cookie
}

type Option func(*callOptions)

// WithCookies attaches the stored upstream session cookies to the
// request, standing in for the browser's credentials-included fetch.
func WithCookies(cookies []*http.Cookie) Option {
	return func(o *callOptions) {
		o.cookies = cookies
	}
}

// CaptureCookies collects any Set-Cookie values from the response into
// dst. Used by the session store to hold the upstream login cookie.
func CaptureCookies(dst *[]*http.Cookie) Option {
	return func(o *callOptions) {
		o.respCookies = dst
	}
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts)
}

// Delete expects no response body; a 204 resolves without any parsing.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts []Option) error {
	var options callOptions
	for _, opt := range opts {
		opt(&options)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, cookie := range options.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if options.respCookies != nil {
		*options.respCookies = resp.Cookies()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("server did not return JSON")
	}
	return nil
}

func decodeError(resp *http.Response) error {
	fallback := fmt.Sprintf("HTTP %d", resp.StatusCode)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var payload struct {
			Message string `json:"message"`
			Error   *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			if payload.Message != "" {
				return &Error{Status: resp.StatusCode, Message: payload.Message}
			}
			if payload.Error != nil && payload.Error.Message != "" {
				return &Error{Status: resp.StatusCode, Message: payload.Error.Message}
			}
		}
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = fallback
	}
	return &Error{Status: resp.StatusCode, Message: text}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Query renders a query string from params, dropping keys whose value is
// empty and producing a leading "?" only when at least one key survives.
// Keys are emitted in sorted order so call sites are deterministic.
func Query(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, key := range keys {
		values.Set(key, params[key])
	}
	return "?" + values.Encode()
}
