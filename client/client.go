// Package client talks to the redaction backend's region API.
//
// All methods take a context and return explicit errors. Non-2xx responses
// become *APIError, whose Temporary method lets the outbox decide whether a
// request is worth retrying.
//
// Basic usage:
//
//	c, err := client.New(client.Options{BaseURL: "http://127.0.0.1:8000"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	regions, err := c.GetRegions(ctx, docID, 0)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the backend origin, e.g. "http://127.0.0.1:8000". The
	// "/api" prefix is added by the client.
	BaseURL string

	// HTTPClient overrides the transport. When nil a client with Timeout
	// and a session cookie jar is created.
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration

	// Logger receives one debug entry per request.
	Logger logrus.FieldLogger
}

// DefaultOptions returns options for a backend on the local machine.
func DefaultOptions() Options {
	return Options{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 30 * time.Second,
		Logger:  logrus.StandardLogger(),
	}
}

// Client is a region API client. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger logrus.FieldLogger
}

// New returns a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", base.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc = &http.Client{Timeout: opts.Timeout, Jar: jar}
	}

	return &Client{base: base, http: hc, logger: opts.Logger}, nil
}

// endpoint builds an absolute URL below /api. Path segments are escaped.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.base.String())
	b.WriteString("/api")
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// the backend rejects state-changing requests without it
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, target, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", target, err)
	}
	return nil
}

// APIError describes a failed request.
type APIError struct {
	Method     string
	URL        string
	StatusCode int    // 0 for transport errors
	Detail     string // the backend's "detail" message, if any
	Err        error  // transport or read error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the request may succeed: transport
// failures, rate limiting and server errors.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NotFound reports whether err is a 404 from the backend.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(method, target string, status int, body []byte) *APIError {
	e := &APIError{Method: method, URL: target, StatusCode: status}

	// FastAPI errors are {"detail": "..."} or {"detail": [{...}]}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			e.Detail = s
		} else {
			e.Detail = string(payload.Detail)
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		e.Detail = text
	}
	return e
}
