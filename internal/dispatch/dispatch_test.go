package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averin/quorum/internal/logging"
	"github.com/averin/quorum/internal/registry"
)

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("dispatch", discard{})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testProvider(id, baseURL string) registry.Provider {
	return registry.Provider{
		ID:      id,
		Name:    id,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Auth:    registry.AuthBearer,
		Schema:  registry.SchemaOpenAI,
		Models: []registry.Model{
			{ID: "m-free", Tier: registry.TierFree},
			{ID: "m-free-2", Tier: registry.TierFree},
		},
		Enabled: true,
	}
}

func okBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}],"usage":{"total_tokens":12}}`, content)
}

func newDispatcher(opts Options) *Dispatcher {
	d := New(nil, opts, quietLogger())
	d.sleep = func(time.Duration) {}
	return d
}

func TestDispatchOneResultPerProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okBody("hello"))
	}))
	defer srv.Close()

	providers := []registry.Provider{
		testProvider("alpha", srv.URL),
		testProvider("beta", srv.URL),
		testProvider("gamma", srv.URL),
	}

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 1, MaxTokens: 64})
	results := d.Dispatch(context.Background(), "hi", providers)

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, providers[i].ID, res.ProviderID)
		assert.True(t, res.Succeeded())
		assert.Equal(t, 1, res.Attempts)
		assert.Equal(t, http.StatusOK, res.HTTPStatus)
		assert.NotEmpty(t, res.Body)
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okBody("fine"))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer bad.Close()

	providers := []registry.Provider{
		testProvider("good", good.URL),
		testProvider("bad", bad.URL),
	}

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 2})
	results := d.Dispatch(context.Background(), "hi", providers)

	require.Len(t, results, 2)
	assert.True(t, results[0].Succeeded())
	assert.Equal(t, FailAuth, results[1].Failure)
	// Auth failures are final: no second attempt.
	assert.Equal(t, 1, results[1].Attempts)
}

func TestDispatchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server propagates client disconnect
		// into r.Context(); otherwise Close hangs on this connection.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	d := newDispatcher(Options{Timeout: 50 * time.Millisecond, MaxAttempts: 1})
	results := d.Dispatch(context.Background(), "hi", []registry.Provider{testProvider("slow", srv.URL)})

	require.Len(t, results, 1)
	assert.Equal(t, FailTimeout, results[0].Failure)
}

func TestDispatchRetriesRateLimitWithFallbackModel(t *testing.T) {
	var calls atomic.Int32
	var secondModel atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		var req struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		secondModel.Store(req.Model)
		fmt.Fprint(w, okBody("recovered"))
	}))
	defer srv.Close()

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 2})
	results := d.Dispatch(context.Background(), "hi", []registry.Provider{testProvider("flaky", srv.URL)})

	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.Succeeded())
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "m-free-2", secondModel.Load())
	assert.Equal(t, "m-free-2", res.Model)
}

func TestDispatchDoesNotRetryBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 3})
	results := d.Dispatch(context.Background(), "hi", []registry.Provider{testProvider("strict", srv.URL)})

	require.Len(t, results, 1)
	assert.Equal(t, FailTransport, results[0].Failure)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatchExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 2})
	results := d.Dispatch(context.Background(), "hi", []registry.Provider{testProvider("down", srv.URL)})

	require.Len(t, results, 1)
	assert.Equal(t, FailTransport, results[0].Failure)
	assert.Equal(t, 2, results[0].Attempts)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatchRunsConcurrently(t *testing.T) {
	const delay = 150 * time.Millisecond
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		fmt.Fprint(w, okBody("slowish"))
	}))
	defer srv.Close()

	providers := []registry.Provider{
		testProvider("p1", srv.URL),
		testProvider("p2", srv.URL),
		testProvider("p3", srv.URL),
		testProvider("p4", srv.URL),
	}

	d := newDispatcher(Options{Timeout: 5 * time.Second, MaxAttempts: 1})
	start := time.Now()
	results := d.Dispatch(context.Background(), "hi", providers)
	wall := time.Since(start)

	require.Len(t, results, 4)
	for _, res := range results {
		assert.True(t, res.Succeeded())
	}
	// Serial execution would take 4x the handler delay.
	assert.Less(t, wall, 3*delay)
}

func TestDispatchEmptyProviderList(t *testing.T) {
	d := newDispatcher(Options{MaxAttempts: 1})
	results := d.Dispatch(context.Background(), "hi", nil)
	assert.Empty(t, results)
}

func TestDispatchParentContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	d := newDispatcher(Options{Timeout: 10 * time.Second, MaxAttempts: 2})
	start := time.Now()
	results := d.Dispatch(ctx, "hi", []registry.Provider{testProvider("hung", srv.URL)})
	wall := time.Since(start)

	// Cancellation surfaces as a timeout entry, never a dropped slot,
	// and dispatch returns promptly instead of waiting out the budget.
	require.Len(t, results, 1)
	assert.Equal(t, FailTimeout, results[0].Failure)
	assert.Equal(t, "request timed out", results[0].Message)
	assert.Equal(t, 1, results[0].Attempts)
	assert.Less(t, wall, 2*time.Second)
}

func TestBackoffBoundedForAnyAttempt(t *testing.T) {
	for attempt := 1; attempt <= 40; attempt++ {
		var d time.Duration
		require.NotPanics(t, func() { d = backoff(attempt) }, "attempt %d", attempt)
		assert.Greater(t, d, time.Duration(0), "attempt %d", attempt)
		assert.LessOrEqual(t, d, backoffCap+backoffCap/4, "attempt %d", attempt)
	}
}

func TestQueryNoModels(t *testing.T) {
	d := newDispatcher(Options{MaxAttempts: 1})
	p := registry.Provider{ID: "empty", Name: "empty", Enabled: true, APIKey: "k", Schema: registry.SchemaOpenAI, Auth: registry.AuthBearer}
	results := d.Dispatch(context.Background(), "hi", []registry.Provider{p})

	require.Len(t, results, 1)
	assert.Equal(t, FailTransport, results[0].Failure)
	assert.Equal(t, "no models configured", results[0].Message)
}
