package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebank-smoke/configs"
	pkghttp "timebank-smoke/pkg/http"
)

func TestMain(m *testing.M) {
	if err := configs.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newGateway(url string) HealthGateway {
	return NewHealthGateway(url, "/health", pkghttp.POST, pkghttp.ClientOptions{
		ConnectionTimeout: time.Second,
		ReadTimeout:       time.Second,
	})
}

func TestCheckDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Service is healthy","data":"OK","extra":1}`))
	}))
	defer srv.Close()

	payload, err := newGateway(srv.URL + "/").Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, "Service is healthy", payload.Message)
	assert.Equal(t, "OK", payload.Data)
	assert.True(t, payload.IsHealthy())
	assert.Contains(t, string(payload.Raw), `"extra":1`)
}

func TestCheckMissingFieldsAreNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","data":"FAIL"}`))
	}))
	defer srv.Close()

	payload, err := newGateway(srv.URL).Check(context.Background())

	require.NoError(t, err)
	assert.Nil(t, payload.Message)
	assert.False(t, payload.IsHealthy())
}

func TestCheckInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := newGateway(srv.URL).Check(context.Background())

	var invalid *InvalidPayloadError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, invalid.NotObject)
	assert.Equal(t, "Response from "+srv.URL+"/health was not valid JSON: <html>oops</html>", err.Error())
}

func TestCheckNotAnObject(t *testing.T) {
	for _, body := range []string{`["OK"]`, `null`, `"OK"`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newGateway(srv.URL).Check(context.Background())

			var invalid *InvalidPayloadError
			require.ErrorAs(t, err, &invalid)
			assert.True(t, invalid.NotObject)
			assert.Equal(t, "Response from "+srv.URL+"/health was not a JSON object: "+body, err.Error())
		})
	}
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newGateway(srv.URL).Check(context.Background())

	var statusErr *pkghttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newGateway(url).Check(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
}
