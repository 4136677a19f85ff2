package httputil_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-reminder-bot/internal/common/httputil"
	"github.com/central-university-dev/go-reminder-bot/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() *config.Config {
	return &config.Config{
		ExternalRequestTimeout: 5 * time.Second,
		RetryCount:             2,
		RetryBackoff:           time.Millisecond,
		RetryableStatusCodes:   []int{408, 429, 500, 502, 503, 504},
		CBSlidingWindowSize:    10,
		// Высокий порог, чтобы предохранитель не вмешивался в ретраи.
		CBMinimumRequiredCalls:     100,
		CBFailureRateThreshold:     50,
		CBPermittedCallsInHalfOpen: 2,
		CBWaitDurationInOpenState:  10 * time.Second,
	}
}

func TestResilientHTTPClient_TransportRetriesServerErrors(t *testing.T) {
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := httputil.CreateResilientHTTPClient(testConfig(), testLogger(), "telegram")

	// Запрос напрямую через http.Client, как это делает библиотека Telegram.
	resp, err := client.GetClient().Get(server.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestResilientHTTPClient_GivesUpAfterConfiguredRetries(t *testing.T) {
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := httputil.CreateResilientHTTPClient(testConfig(), testLogger(), "telegram")

	_, err := client.GetClient().Get(server.URL) //nolint:bodyclose // ответа нет
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	// Первая попытка плюс два ретрая.
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestResilientHTTPClient_NonRetryableStatusPassesThrough(t *testing.T) {
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := httputil.CreateResilientHTTPClient(testConfig(), testLogger(), "telegram")

	resp, err := client.GetClient().Get(server.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestResilientHTTPClient_CircuitBreakerOpens(t *testing.T) {
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.RetryCount = 0
	cfg.CBMinimumRequiredCalls = 1

	client := httputil.CreateResilientHTTPClient(cfg, testLogger(), "telegram")

	_, err := client.GetClient().Get(server.URL) //nolint:bodyclose // ответа нет
	require.Error(t, err)

	// Предохранитель открылся: второй запрос не доходит до сервера.
	_, err = client.GetClient().Get(server.URL) //nolint:bodyclose // ответа нет
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}
