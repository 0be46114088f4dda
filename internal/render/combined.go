package render

import (
	"fmt"
	"strings"

	"github.com/averin/quorum/internal/aggregate"
	qstrings "github.com/averin/quorum/internal/strings"
)

const combinedPreviewWidth = 200

// combined stacks run statistics, the overview table, answer previews
// and a short recommendation block.
func (r *Renderer) combined(rep aggregate.Report) string {
	if rep.Summary.Succeeded == 0 {
		var sb strings.Builder
		sb.WriteString("## Run Failed\n\nEvery provider call failed.\n")
		if len(rep.Entries) > 0 {
			sb.WriteString("\n")
			sb.WriteString(r.table(rep))
		}
		return sb.String()
	}

	var sb strings.Builder

	sb.WriteString(r.heading("## Statistics"))
	sb.WriteString("\n\n")
	sb.WriteString(r.stats(rep))
	sb.WriteString("\n")

	sb.WriteString(r.heading("## Overview"))
	sb.WriteString("\n\n")
	sb.WriteString(r.table(rep))
	sb.WriteString("\n")

	sb.WriteString(r.heading("## Answers"))
	sb.WriteString("\n\n")
	for _, e := range rep.Entries {
		if !e.Succeeded() {
			continue
		}
		fmt.Fprintf(&sb, "**[%s]**: %s\n\n", displayName(e), flattenPreview(e.Content))
	}

	if rep.Summary.Failed > 0 {
		sb.WriteString(r.heading("## Failures"))
		sb.WriteString("\n\n")
		for _, e := range rep.Entries {
			if e.Succeeded() {
				continue
			}
			fmt.Fprintf(&sb, "**[%s]**: %s\n\n", displayName(e), e.Message)
		}
	}

	if rec := r.recommendations(rep); rec != "" {
		sb.WriteString(r.heading("## Recommendations"))
		sb.WriteString("\n\n")
		sb.WriteString(rec)
	}

	return sb.String()
}

func (r *Renderer) stats(rep aggregate.Report) string {
	total := len(rep.Entries)
	rate := 0.0
	if total > 0 {
		rate = float64(rep.Summary.Succeeded) / float64(total) * 100
	}

	var sb strings.Builder
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Providers queried | %d |\n", total)
	fmt.Fprintf(&sb, "| Succeeded | %d |\n", rep.Summary.Succeeded)
	fmt.Fprintf(&sb, "| Success rate | %.1f%% |\n", rate)
	if rep.Summary.Succeeded > 0 {
		fmt.Fprintf(&sb, "| Average confidence | %.1f/10 |\n", rep.Summary.AvgConfidence)
	}
	fmt.Fprintf(&sb, "| Average time | %s |\n", FormatDuration(rep.Summary.AvgElapsed))
	if rep.Summary.TotalTokens > 0 {
		fmt.Fprintf(&sb, "| Tokens used | %d |\n", rep.Summary.TotalTokens)
	}
	return sb.String()
}

// recommendations points the reader at the fastest and most confident
// answers. Only emitted when at least two providers succeeded, so
// there is a comparison to make.
func (r *Renderer) recommendations(rep aggregate.Report) string {
	if rep.Summary.Succeeded < 2 {
		return ""
	}

	var sb strings.Builder
	if best, ok := rep.Best(); ok {
		fmt.Fprintf(&sb, "- Most confident answer: **%s** (%.1f/10)\n", displayName(best), best.Confidence)
	}
	for _, e := range rep.Entries {
		if e.ProviderID == rep.Summary.FastestID && e.Succeeded() {
			fmt.Fprintf(&sb, "- Fastest answer: **%s** (%s)\n", displayName(e), FormatDuration(e.Elapsed))
			break
		}
	}
	if rep.Summary.Failed > 0 {
		fmt.Fprintf(&sb, "- %d provider(s) failed; see the failures section above.\n", rep.Summary.Failed)
	}
	return sb.String()
}

func (r *Renderer) heading(s string) string {
	if r.pretty {
		return headerStyle.Render(s)
	}
	return s
}

// flattenPreview keeps a combined-view answer on one line without
// cutting words mid-sentence more than the width requires.
func flattenPreview(content string) string {
	return qstrings.Cell(content, combinedPreviewWidth)
}
