package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, `{"id":"`+strings.Repeat("x", 64)+`"}`)
	c := NewClient("catalog-api", srv.URL, http.DefaultClient)
	c.MaxBodyBytes = 32

	_, err := c.Fetch(context.Background(), http.MethodGet, "/offers/o1", "", nil, http.Header{})
	require.ErrorIs(t, err, ErrBodyTooLarge)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestFetchAcceptsBodyAtLimit(t *testing.T) {
	body := `{"id":"o1"}`
	srv := newUpstream(t, http.StatusOK, body)
	c := NewClient("catalog-api", srv.URL, http.DefaultClient)
	c.MaxBodyBytes = int64(len(body))

	resp, err := c.Fetch(context.Background(), http.MethodGet, "/offers/o1", "", nil, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, body, string(resp.Body))
}

func TestFetchWrapsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("catalog-api", url, http.DefaultClient)
	_, err := c.Fetch(context.Background(), http.MethodGet, "/products", "", nil, http.Header{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckHealth(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"status":"ok"}`)
	res := CheckHealth(context.Background(), HealthProbe{Name: "catalog-api", Client: NewClient("catalog-api", up.URL, http.DefaultClient), Path: "/health"})
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Error)

	failing := newUpstream(t, http.StatusServiceUnavailable, `{}`)
	res = CheckHealth(context.Background(), HealthProbe{Name: "catalog-api", Client: NewClient("catalog-api", failing.URL, http.DefaultClient), Path: "/health"})
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	res = CheckHealth(context.Background(), HealthProbe{Name: "catalog-api", Client: NewClient("catalog-api", deadURL, http.DefaultClient), Path: "/health"})
	assert.False(t, res.OK)
	assert.True(t, strings.HasPrefix(res.Error, "unreachable: "), res.Error)
}
