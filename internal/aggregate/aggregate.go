// Package aggregate merges normalized provider responses into the
// report handed to the rendering layer.
package aggregate

import (
	"time"

	"github.com/averin/quorum/internal/normalize"
)

// Summary holds the statistics computed over one run.
type Summary struct {
	Succeeded     int
	Failed        int
	FastestID     string
	MostConfident string
	TotalTokens   int
	AvgConfidence float64
	AvgElapsed    time.Duration
}

// Report is the final ordered result set for one invocation. Entry
// order matches provider priority order and is never reshuffled.
type Report struct {
	Prompt    string
	Kind      string
	CreatedAt time.Time
	Entries   []normalize.Response
	Summary   Summary
}

// Build assembles a report from normalized responses. Deterministic:
// identical inputs produce an identical report. Ties for fastest and
// most confident go to the earlier entry.
func Build(prompt, kind string, entries []normalize.Response, createdAt time.Time) Report {
	r := Report{
		Prompt:    prompt,
		Kind:      kind,
		CreatedAt: createdAt,
		Entries:   entries,
	}

	var (
		fastest         time.Duration
		bestScore       float64
		totalElapsed    time.Duration
		totalConfidence float64
	)
	for _, e := range entries {
		totalElapsed += e.Elapsed
		if !e.Succeeded() {
			r.Summary.Failed++
			continue
		}
		r.Summary.Succeeded++
		r.Summary.TotalTokens += e.TokensUsed
		totalConfidence += e.Confidence

		if r.Summary.FastestID == "" || e.Elapsed < fastest {
			fastest = e.Elapsed
			r.Summary.FastestID = e.ProviderID
		}
		if r.Summary.MostConfident == "" || e.Confidence > bestScore {
			bestScore = e.Confidence
			r.Summary.MostConfident = e.ProviderID
		}
	}
	if len(entries) > 0 {
		r.Summary.AvgElapsed = totalElapsed / time.Duration(len(entries))
	}
	if r.Summary.Succeeded > 0 {
		r.Summary.AvgConfidence = totalConfidence / float64(r.Summary.Succeeded)
	}
	return r
}

// Best returns the report entry the summary considers most confident.
func (r Report) Best() (normalize.Response, bool) {
	for _, e := range r.Entries {
		if e.ProviderID == r.Summary.MostConfident && e.Succeeded() {
			return e, true
		}
	}
	return normalize.Response{}, false
}
