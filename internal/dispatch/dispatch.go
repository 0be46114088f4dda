// Package dispatch fans a prompt out to the selected providers
// concurrently and collects one result per provider.
package dispatch

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/averin/quorum/internal/logging"
	"github.com/averin/quorum/internal/registry"
)

// HTTPClient is the round-trip surface the dispatcher depends on,
// satisfied by *http.Client and by test doubles.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options controls per-attempt behavior for a dispatch run.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	Temperature float64
	MaxTokens   int
}

const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 5 * time.Second

	// maxBackoffShift keeps the exponential step well inside int64
	// even with an absurd attempt count.
	maxBackoffShift = 8

	// maxBodyBytes bounds how much of a response is read; provider
	// replies are far below this in practice.
	maxBodyBytes = 4 << 20
)

// Dispatcher runs the fan-out. Safe for concurrent use.
type Dispatcher struct {
	client HTTPClient
	opts   Options
	log    *logging.Logger

	// sleep is swapped out in tests to keep backoff instant.
	sleep func(time.Duration)
}

// New creates a dispatcher. A nil client falls back to a default
// http.Client; the per-request timeout comes from opts, not the client.
func New(client HTTPClient, opts Options, log *logging.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if log == nil {
		log = logging.New("dispatch")
	}
	return &Dispatcher{client: client, opts: opts, log: log, sleep: time.Sleep}
}

// Dispatch sends prompt to every provider concurrently and returns one
// result per provider, in the providers' order. It blocks until the
// slowest provider finishes or times out; a failing provider never
// hides the others.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, providers []registry.Provider) []Result {
	results := make([]Result, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(slot int, p registry.Provider) {
			defer wg.Done()
			results[slot] = d.query(ctx, p, prompt)
		}(i, p)
	}
	wg.Wait()

	return results
}

// query runs the attempt loop for one provider: first attempt on the
// provider's default model, a retry on the next free model when the
// failure is transient.
func (d *Dispatcher) query(ctx context.Context, p registry.Provider, prompt string) Result {
	model, ok := registry.DefaultModel(p)
	if !ok {
		return Result{
			ProviderID:   p.ID,
			ProviderName: p.Name,
			Failure:      FailTransport,
			Message:      "no models configured",
			Attempts:     0,
		}
	}

	start := time.Now()
	var res Result
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		res = d.attempt(ctx, p, model, prompt)
		res.Attempts = attempt
		if res.Succeeded() || !retryable(res) {
			break
		}
		if attempt == d.opts.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			break
		}

		d.log.WithProvider(p.ID).WithModel(model.ID).Warn("retrying provider", map[string]any{
			"attempt": attempt,
			"failure": string(res.Failure),
		}, nil)
		if next, ok := registry.FallbackModel(p, model.ID); ok {
			model = next
		}
		d.sleep(backoff(attempt))
	}
	res.Elapsed = time.Since(start)
	return res
}

// attempt performs a single HTTP round trip against one model.
func (d *Dispatcher) attempt(ctx context.Context, p registry.Provider, model registry.Model, prompt string) Result {
	res := Result{
		ProviderID:   p.ID,
		ProviderName: p.Name,
		Model:        model.ID,
		ModelName:    model.Name,
	}

	reqCtx := ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	req, err := buildRequest(reqCtx, p, model.ID, prompt, d.opts)
	if err != nil {
		res.Failure = FailTransport
		res.Message = err.Error()
		return res
	}

	resp, err := d.client.Do(req)
	if err != nil {
		res.Failure, res.Message = classifyTransportError(err)
		return res
	}
	defer resp.Body.Close()

	res.HTTPStatus = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		res.Failure, res.Message = classifyTransportError(err)
		return res
	}
	res.Body = body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Failure, res.Message = classifyStatus(resp.StatusCode)
		return res
	}

	return res
}

// retryable reports whether a failed attempt is worth repeating. Kind
// alone is not enough: a plain 4xx classifies as transport but will
// fail identically on every attempt.
func retryable(res Result) bool {
	if !res.Failure.Retryable() {
		return false
	}
	if res.HTTPStatus != 0 {
		return statusRetryable(res.HTTPStatus)
	}
	return true
}

// backoff returns the pause before retry number attempt+1: exponential
// from backoffBase with 25% jitter, capped at backoffCap. The shift is
// clamped first so a large attempt count cannot overflow the duration
// into a negative value.
func backoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	d := backoffBase << shift
	if d > backoffCap {
		d = backoffCap
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 4))
	return d - d/8 + jitter
}
