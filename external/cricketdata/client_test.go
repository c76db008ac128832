package cricketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Token:          "secret-token",
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		Backoff:        time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClient_FetchScorecard(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/match_scorecard" {
			http.NotFound(w, r)
			return
		}
		gotQuery.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(verbosePayloadJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	sc, err := client.FetchScorecard(context.Background(), "a1b2")
	require.NoError(t, err)

	assert.Equal(t, "a1b2", sc.MatchID)
	assert.True(t, sc.Completed)
	assert.Len(t, sc.Innings, 2)
	assert.Contains(t, gotQuery.Load().(string), "id=a1b2")
	assert.Contains(t, gotQuery.Load().(string), "apikey=secret-token")
}

func TestClient_FetchScorecard_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2, resilience.CircuitBreakerConfig{})
	_, err := client.FetchScorecard(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, scorecard.ErrNotFound), "got %v", err)
}

func TestClient_FetchScorecard_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(compactPayloadJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2, resilience.CircuitBreakerConfig{})
	sc, err := client.FetchScorecard(context.Background(), "ind-aus-1")
	require.NoError(t, err)
	assert.Equal(t, "ind-aus-1", sc.MatchID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_FetchScorecard_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failure","reason":"invalid apikey secret-token"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{})
	_, err := client.FetchScorecard(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "status=401")
}

func TestClient_FetchScorecard_CircuitOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchScorecard(context.Background(), "m1")
		require.Error(t, err)
	}

	_, err := client.FetchScorecard(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable), "got %v", err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_FetchScorecard_RequiresMatchID(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://127.0.0.1:1", 0, resilience.CircuitBreakerConfig{})
	_, err := client.FetchScorecard(context.Background(), "  ")
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput), "got %v", err)
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://feed.test/match_scorecard?apikey=REDACTED&id=m1",
		redactAPIURL("https://feed.test/match_scorecard?apikey=abc&id=m1"),
	)
	assert.Equal(t, "dial failed apikey=REDACTED REDACTED", sanitizeSensitiveText("dial failed apikey=abc tok", "tok"))
}
