package handlers

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

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/fixtures"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
)

const maxRequestBody = 1 << 20

// Relay forwards requests to the catalog/sales API and decides what the
// client sees when that fails.
type Relay struct {
	Catalog *clients.CatalogClient
	Logger  *slog.Logger

	// FixtureMode answers failed upstream calls with canned data.
	FixtureMode bool
	// Timeout bounds each upstream call unless an operation sets its own.
	Timeout time.Duration
}

type failureKind int

const (
	failUnavailable failureKind = iota + 1 // network error, timeout
	failStatus                             // non-2xx
	failDecode                             // 2xx with a body that is not JSON
	failTooLarge                           // body over the client limit
	failRequest                            // request could not be built
)

var errInvalidJSON = errors.New("upstream response is not valid JSON")

// UpstreamError is a classified upstream failure.
type UpstreamError struct {
	Kind failureKind
	Resp *clients.Response
	Err  error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case failStatus:
		return fmt.Sprintf("upstream returned status %d", e.Resp.StatusCode)
	case failDecode:
		return errInvalidJSON.Error()
	default:
		return e.Err.Error()
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func checkUpstream(resp *clients.Response, err error) error {
	switch {
	case errors.Is(err, clients.ErrUnavailable):
		return &UpstreamError{Kind: failUnavailable, Err: err}
	case errors.Is(err, clients.ErrBodyTooLarge):
		return &UpstreamError{Kind: failTooLarge, Err: err}
	case err != nil:
		return &UpstreamError{Kind: failRequest, Err: err}
	}
	if !resp.OK() {
		return &UpstreamError{Kind: failStatus, Resp: resp}
	}
	if len(bytes.TrimSpace(resp.Body)) > 0 && !json.Valid(resp.Body) {
		return &UpstreamError{Kind: failDecode, Resp: resp, Err: errInvalidJSON}
	}
	return nil
}

func (rl *Relay) withTimeout(ctx context.Context, override time.Duration) (context.Context, context.CancelFunc) {
	d := rl.Timeout
	if override > 0 {
		d = override
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// fallbackFunc builds a fixture response: status and body.
type fallbackFunc func() (int, any)

// respond relays a successful upstream response or handles the failure.
func (rl *Relay) respond(w http.ResponseWriter, r *http.Request, resp *clients.Response, err error, fallback fallbackFunc) {
	if uerr := checkUpstream(resp, err); uerr != nil {
		rl.fail(w, r, uerr, fallback)
		return
	}
	CopyUpstreamResponse(w, resp)
}

func (rl *Relay) fail(w http.ResponseWriter, r *http.Request, err error, fallback fallbackFunc) {
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		rl.Logger.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		middleware.WriteError(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error"})
		return
	}

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("correlation_id", middleware.GetCorrelationID(r.Context())),
		slog.String("error", uerr.Error()),
	}
	if uerr.Resp != nil {
		attrs = append(attrs, slog.Int("upstream_status", uerr.Resp.StatusCode))
	}

	if rl.FixtureMode && fallback != nil {
		rl.Logger.Warn("upstream failed, serving fixture data", attrs...)
		status, body := fallback()
		writeFixture(w, status, body)
		return
	}
	rl.Logger.Error("upstream failed", attrs...)

	switch uerr.Kind {
	case failStatus:
		CopyUpstreamResponse(w, uerr.Resp)
	case failDecode:
		middleware.WriteError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   "invalid upstream response",
			Details: uerr.Error(),
		})
	case failTooLarge:
		middleware.WriteError(w, r, http.StatusBadGateway, model.ErrorResponse{
			Error:   "upstream response too large",
			Details: uerr.Error(),
		})
	case failRequest:
		middleware.WriteError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   "upstream request failed",
			Details: uerr.Error(),
		})
	default:
		middleware.WriteError(w, r, http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   rl.Catalog.Base().Name + " unavailable",
			Details: uerr.Error(),
		})
	}
}

func CopyUpstreamResponse(w http.ResponseWriter, resp *clients.Response) {
	clients.CopyResponseHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeFixture(w http.ResponseWriter, status int, v any) {
	w.Header().Set(fixtures.Header, "true")
	writeJSON(w, status, v)
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	middleware.WriteError(w, r, http.StatusBadRequest, model.ErrorResponse{Error: msg})
}

// readObject reads a JSON object body. It returns the raw bytes for verbatim
// forwarding alongside the decoded map used for presence checks.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]any, []byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		badRequest(w, r, "request body too large or unreadable")
		return nil, nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		badRequest(w, r, "invalid JSON body")
		return nil, nil, false
	}
	return payload, raw, true
}

// missingField returns the first required field that is absent, null or a
// blank string.
func missingField(payload map[string]any, required []string) string {
	for _, f := range required {
		v, ok := payload[f]
		if !ok || v == nil {
			return f
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return f
		}
	}
	return ""
}
