package render

import (
	"fmt"
	"strings"

	"github.com/averin/quorum/internal/aggregate"
	"github.com/averin/quorum/internal/normalize"
)

// detailed renders every answer in full, one section per provider.
func (r *Renderer) detailed(rep aggregate.Report) string {
	if len(rep.Entries) == 0 {
		return "No provider responses."
	}

	sections := make([]string, 0, len(rep.Entries))
	for i, e := range rep.Entries {
		sections = append(sections, r.section(i+1, e))
	}
	return strings.Join(sections, "\n\n---\n\n") + "\n"
}

func (r *Renderer) section(n int, e normalize.Response) string {
	var sb strings.Builder

	header := fmt.Sprintf("### %d. %s (%s)", n, displayName(e), e.Model)
	if r.pretty {
		header = headerStyle.Render(header)
	}
	sb.WriteString(header)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "**Status**: %s\n", r.status(e))
	if e.Succeeded() {
		fmt.Fprintf(&sb, "**Confidence**: %.1f/10\n", e.Confidence)
		fmt.Fprintf(&sb, "**Time**: %s\n", FormatDuration(e.Elapsed))
		if e.TokensUsed > 0 {
			fmt.Fprintf(&sb, "**Tokens**: %d\n", e.TokensUsed)
		}
		if e.Attempts > 1 {
			fmt.Fprintf(&sb, "**Attempts**: %d\n", e.Attempts)
		}
		sb.WriteString("\n**Answer**:\n\n")
		sb.WriteString(e.Content)
	} else {
		fmt.Fprintf(&sb, "**Error**: %s\n", e.Message)
		fmt.Fprintf(&sb, "**Time**: %s\n", FormatDuration(e.Elapsed))
		if e.Attempts > 1 {
			fmt.Fprintf(&sb, "**Attempts**: %d\n", e.Attempts)
		}
	}
	return sb.String()
}
