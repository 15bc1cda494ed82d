package webconfig

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	got, err := Script(Values{DIDToken: "did", ContractAddress: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, `window._env_ = {"DID_TOKEN":"did","PINATA_JWT":"","CONTRACT_ADDRESS":"0xabc"};`, string(got))
}

func TestScript_EscapesMarkup(t *testing.T) {
	got, err := Script(Values{PinataJWT: "</script><script>alert(1)</script>"})
	require.NoError(t, err)
	assert.NotContains(t, string(got), "</script>")
}

func TestRouter_Env(t *testing.T) {
	r, err := NewRouter(Values{DIDToken: "did", PinataJWT: "jwt", ContractAddress: "0xabc"}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/env", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeJavaScript, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, `window._env_ = {"DID_TOKEN":"did","PINATA_JWT":"jwt","CONTRACT_ADDRESS":"0xabc"};`, rec.Body.String())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, err := NewRouter(Values{}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRouter(Values{}, log.NewLogger(&buf, log.ColorOption(false)))
	require.NoError(t, err)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/env", nil))
	assert.Contains(t, buf.String(), "/api/env")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	r, err := NewRouter(Values{ContractAddress: "0xabc"}, nil)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, r, nil) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/env")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "0xabc")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
