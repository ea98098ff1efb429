package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/middleware"
)

// defaultMaxBodyBytes caps how much of an upstream response is buffered.
const defaultMaxBodyBytes = 10 << 20

var (
	// ErrUnavailable wraps transport failures: refused connections, DNS
	// errors, timeouts. Callers map it to 503.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrBodyTooLarge is returned by Fetch when a response exceeds the
	// client's body limit.
	ErrBodyTooLarge = errors.New("upstream response too large")
)

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client

	// Token is sent as a bearer token when the caller supplied no
	// Authorization header of its own.
	Token string

	// MaxBodyBytes limits buffered response bodies; zero means 10 MiB.
	MaxBodyBytes int64
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// Response is an upstream response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, inHeaders http.Header) (*http.Response, error) {
	u := c.BaseURL.JoinPath(path)
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	copyHeaders(req.Header, inHeaders)

	if req.Header.Get("Authorization") == "" && c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	// Ensure correlation id propagated upstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, u.Path, err)
	}
	return resp, nil
}

// Fetch is Do followed by reading the whole body.
func (c *Client) Fetch(ctx context.Context, method, path, rawQuery string, body io.Reader, inHeaders http.Header) (*Response, error) {
	resp, err := c.Do(ctx, method, path, rawQuery, body, inHeaders)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", ErrUnavailable, c.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s %s exceeds %d bytes", ErrBodyTooLarge, method, path, limit)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: data}, nil
}

func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		if isHopByHopHeader(k) {
			continue
		}
		switch http.CanonicalHeaderKey(k) {
		case "Host", "Content-Length", "Origin", "Accept-Encoding":
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

// Hop-by-hop headers (RFC 7230)
func isHopByHopHeader(k string) bool {
	switch http.CanonicalHeaderKey(k) {
	case "Connection", "Proxy-Connection", "Keep-Alive",
		"Proxy-Authenticate", "Proxy-Authorization",
		"Te", "Trailer", "Transfer-Encoding", "Upgrade":
		return true
	default:
		return false
	}
}

// CopyResponseHeaders copies upstream response headers that are safe to relay.
// Content-Length is dropped because the body is rewritten by the caller.
func CopyResponseHeaders(dst, src http.Header) {
	for k, vv := range src {
		if isHopByHopHeader(k) || strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
