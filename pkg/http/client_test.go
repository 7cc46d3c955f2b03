package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBody struct {
	Name string `json:"name"`
}

type recordingLogger struct {
	mu        sync.Mutex
	requests  int
	successes int
	failures  int
	retries   int
}

func (l *recordingLogger) LogRequest(method, url string, headers map[string]string, body string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests++
}

func (l *recordingLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successes++
}

func (l *recordingLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures++
}

func (l *recordingLogger) LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.retries++
}

func TestClientPostDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Default"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"in"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"out"}`))
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL+"/", ClientOptions{DefaultHeaders: map[string]string{"X-Default": "yes"}})
	success, failure, status, err := client.Post(context.Background(), "items", nil, nil, echoBody{Name: "in"}, &echoBody{}, nil)

	require.NoError(t, err)
	assert.Nil(t, failure)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "out", success.(*echoBody).Name)
}

func TestClientRawMessageIgnoresContentType(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"b":1,"a":2}`))
	}))
	defer srv.Close()

	var raw json.RawMessage
	_, _, _, err := NewHttpClient(srv.URL, ClientOptions{}).Get(context.Background(), "/", nil, nil, &raw, nil)

	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":2}`, string(raw))
}

func TestClientDecodeErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var raw json.RawMessage
	_, _, status, err := NewHttpClient(srv.URL, ClientOptions{}).Get(context.Background(), "/health", nil, nil, &raw, nil)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, srv.URL+"/health", decodeErr.URL)
	assert.Equal(t, "not json", string(decodeErr.Body))
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"name":"boom"}`))
	}))
	defer srv.Close()

	_, failure, status, err := NewHttpClient(srv.URL, ClientOptions{}).
		Post(context.Background(), "/health", nil, nil, nil, &echoBody{}, &echoBody{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "500 Server Error: Internal Server Error for url: "+srv.URL+"/health", err.Error())
	assert.Equal(t, "boom", failure.(*echoBody).Name)
}

func TestStatusErrorClientKind(t *testing.T) {
	err := &StatusError{URL: "http://x/health", StatusCode: nethttp.StatusNotFound}
	assert.Equal(t, "404 Client Error: Not Found for url: http://x/health", err.Error())
}

func TestClientRedirects(t *testing.T) {
	target := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"moved"}`))
	}))
	defer target.Close()
	front := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Redirect(w, r, target.URL+"/health", nethttp.StatusPermanentRedirect)
	}))
	defer front.Close()

	success, _, status, err := NewHttpClient(front.URL, ClientOptions{FollowRedirect: true}).
		Post(context.Background(), "/health", nil, nil, nil, &echoBody{}, nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "moved", success.(*echoBody).Name)

	_, _, status, err = NewHttpClient(front.URL, ClientOptions{}).
		Post(context.Background(), "/health", nil, nil, nil, &echoBody{}, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, nethttp.StatusPermanentRedirect, status)
}

func TestClientDismiss404(t *testing.T) {
	srv := httptest.NewServer(nethttp.NotFoundHandler())
	defer srv.Close()

	_, _, status, err := NewHttpClient(srv.URL, ClientOptions{Dismiss404: true}).Get(context.Background(), "/missing", nil, nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestClientQueryStringSorted(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "a=1&b=2", r.URL.RawQuery)
	}))
	defer srv.Close()

	_, _, _, err := NewHttpClient(srv.URL, ClientOptions{}).Get(context.Background(), "/", map[string]string{"b": "2", "a": "1"}, nil, nil, nil)
	require.NoError(t, err)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(nethttp.NotFoundHandler())
	url := srv.URL
	srv.Close()

	logger := &recordingLogger{}
	_, _, status, err := NewHttpClient(url, ClientOptions{Logger: logger, ConnectionTimeout: time.Second}).
		Get(context.Background(), "/health", nil, nil, nil, nil)

	require.Error(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, 1, logger.requests)
	assert.Equal(t, 1, logger.failures)
}

func TestRequestBackoffRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ready"}`))
	}))
	defer srv.Close()

	logger := &recordingLogger{}
	client := NewHttpClient(srv.URL, ClientOptions{Logger: logger})
	success, _, status, err := client.Request().
		WithMethod(GET).
		WithPath("/ready").
		WithSuccessResp(&echoBody{}).
		WithBackoff(&BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond}).
		Execute()

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", success.(*echoBody).Name)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, logger.retries)
	assert.Equal(t, 1, logger.successes)
}

func TestRequestBackoffSkipsClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusBadRequest)
	}))
	defer srv.Close()

	_, _, status, err := NewHttpClient(srv.URL, ClientOptions{}).Request().
		WithBackoff(&BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond}).
		Execute()

	require.Error(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequestContextCanceled(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, _, err := NewHttpClient(srv.URL, ClientOptions{}).Request().WithContext(ctx).Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBackoffInterval(t *testing.T) {
	b := &BackoffConfig{InitialInterval: 10 * time.Millisecond, Multiplier: 2, MaxInterval: 30 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, b.interval(1))
	assert.Equal(t, 20*time.Millisecond, b.interval(2))
	assert.Equal(t, 30*time.Millisecond, b.interval(3))
}

func TestParseRequestMethod(t *testing.T) {
	method, err := ParseRequestMethod(" post ")
	require.NoError(t, err)
	assert.Equal(t, POST, method)

	_, err = ParseRequestMethod("TRACE")
	assert.Error(t, err)
}
