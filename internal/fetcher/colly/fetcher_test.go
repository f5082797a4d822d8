package collyfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
)

func TestFetchReturnsBodyAndSendsHeaders(t *testing.T) {
	t.Parallel()

	received := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Clone()
		_, _ = w.Write([]byte("<html><h1>Opus One</h1></html>"))
	}))
	defer srv.Close()

	f := New(Config{}, zap.NewNop())
	body, err := f.Fetch(context.Background(), srv.URL+"/find/opus+one", crawler.FetchOptions{
		UserAgent: "wine-test-agent",
		Headers:   map[string]string{"Accept-Language": "en-US"},
	})
	require.NoError(t, err)
	require.Equal(t, "<html><h1>Opus One</h1></html>", body)
	headers := <-received
	require.Equal(t, "wine-test-agent", headers.Get("User-Agent"))
	require.Equal(t, "en-US", headers.Get("Accept-Language"))
}

func TestFetchEmptyBodyIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := New(Config{}, nil).Fetch(context.Background(), srv.URL, crawler.FetchOptions{})
	var netErr *crawler.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.ErrorIs(t, err, crawler.ErrEmptyResponse)
}

func TestFetchErrorStatusIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(Config{}, nil).Fetch(context.Background(), srv.URL, crawler.FetchOptions{})
	var netErr *crawler.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, srv.URL, netErr.URL)
	require.Contains(t, err.Error(), "403")
}

func TestFetchSlowServerIsTimeoutError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	start := time.Now()
	_, err := New(Config{}, nil).Fetch(context.Background(), srv.URL, crawler.FetchOptions{TimeoutMs: 50})
	var timeoutErr *crawler.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 50, timeoutErr.TimeoutMs)
	require.Less(t, time.Since(start), time.Second)
}

func TestFetchUnreachableHostIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Config{}, nil).Fetch(context.Background(), url, crawler.FetchOptions{TimeoutMs: 1000})
	var netErr *crawler.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestConfigureCollectorHooks(t *testing.T) {
	t.Parallel()

	f := New(Config{}, nil)
	opts := crawler.FetchOptions{Headers: map[string]string{"X-Trace": "yes"}}
	var body []byte
	var fetchErr error

	hooks := &stubHooks{}
	f.configureCollectorHooks(hooks, opts, &body, &fetchErr)
	require.NotNil(t, hooks.onRequest)
	require.NotNil(t, hooks.onResponse)
	require.NotNil(t, hooks.onError)

	collyReq := &colly.Request{Headers: &http.Header{}}
	hooks.onRequest(collyReq)
	require.Equal(t, "yes", collyReq.Headers.Get("X-Trace"))

	hooks.onResponse(&colly.Response{StatusCode: http.StatusOK, Body: []byte("body")})
	require.Equal(t, "body", string(body))

	hooks.onError(&colly.Response{StatusCode: http.StatusNotFound}, errors.New("Not Found"))
	require.EqualError(t, fetchErr, "status 404: Not Found")
}

func TestBuildCollectorAppliesOptions(t *testing.T) {
	t.Parallel()

	f := New(Config{MaxBodyBytes: 1}, nil)
	collector := f.buildCollector(crawler.FetchOptions{UserAgent: "agent"}.WithDefaults())
	require.Equal(t, "agent", collector.UserAgent)
	require.True(t, collector.IgnoreRobotsTxt)
	require.Equal(t, DefaultMaxBodyBytes, collector.MaxBodySize)
}

type stubHooks struct {
	onRequest  colly.RequestCallback
	onResponse colly.ResponseCallback
	onError    colly.ErrorCallback
}

func (s *stubHooks) OnRequest(cb colly.RequestCallback) {
	s.onRequest = cb
}

func (s *stubHooks) OnResponse(cb colly.ResponseCallback) {
	s.onResponse = cb
}

func (s *stubHooks) OnError(cb colly.ErrorCallback) {
	s.onError = cb
}
