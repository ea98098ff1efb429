package clients

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const probeTimeout = 2 * time.Second

type HealthProbe struct {
	Name   string
	Client *Client
	Path   string
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth calls the probe path and reports whether it answered 2xx.
// Unreachable upstreams and oversized answers are reported in Error.
func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res := HealthResult{Name: probe.Name}
	resp, err := probe.Client.Fetch(ctx, http.MethodGet, probe.Path, "", nil, http.Header{})
	switch {
	case errors.Is(err, ErrUnavailable):
		res.Error = "unreachable: " + err.Error()
		return res
	case err != nil:
		res.Error = err.Error()
		return res
	}

	res.OK = resp.OK()
	res.StatusCode = resp.StatusCode
	return res
}
