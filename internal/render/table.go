package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/averin/quorum/internal/aggregate"
	"github.com/averin/quorum/internal/normalize"
	"github.com/averin/quorum/internal/registry"
	qstrings "github.com/averin/quorum/internal/strings"
)

const previewWidth = 50

// table renders the one-line-per-provider markdown overview.
func (r *Renderer) table(rep aggregate.Report) string {
	if len(rep.Entries) == 0 {
		return "No provider responses."
	}

	var sb strings.Builder
	sb.WriteString("| Provider | Model | Status | Preview | Confidence | Time |\n")
	sb.WriteString("|----------|-------|--------|---------|------------|------|\n")
	for _, e := range rep.Entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			displayName(e),
			e.Model,
			r.status(e),
			r.preview(e),
			confidenceCell(e),
			FormatDuration(e.Elapsed),
		)
	}
	return sb.String()
}

// Providers renders the configured provider list for "quorum list".
func (r *Renderer) Providers(providers []registry.Provider) string {
	if len(providers) == 0 {
		return "No providers configured."
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(titleStyle.Render("Configured Providers"))
		sb.WriteString("\n")
	}
	sb.WriteString("| ID | Name | Enabled | Key | Models |\n")
	sb.WriteString("|----|------|---------|-----|--------|\n")
	for _, p := range providers {
		key := "missing"
		if p.APIKey != "" {
			key = "set"
		}
		models := make([]string, 0, len(p.Models))
		for _, m := range p.Models {
			id := m.ID
			if m.Tier == registry.TierFree {
				id += " (free)"
			}
			models = append(models, id)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			p.ID, p.Name, r.mark(p.Enabled), key,
			qstrings.Cell(strings.Join(models, ", "), 60),
		)
	}
	return sb.String()
}

func (r *Renderer) status(e normalize.Response) string {
	if e.Succeeded() {
		if r.pretty {
			return color.GreenString("✓ ok")
		}
		return "ok"
	}
	label := "failed (" + string(e.Failure) + ")"
	if r.pretty {
		return color.RedString("✗ " + label)
	}
	return label
}

func (r *Renderer) mark(ok bool) string {
	if ok {
		if r.pretty {
			return color.GreenString("✓")
		}
		return "yes"
	}
	if r.pretty {
		return color.RedString("✗")
	}
	return "no"
}

// preview yields the answer cell: the cleaned content for successes,
// the failure message otherwise.
func (r *Renderer) preview(e normalize.Response) string {
	if e.Succeeded() {
		return qstrings.Cell(e.Content, previewWidth)
	}
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return qstrings.Cell(msg, previewWidth)
}

func confidenceCell(e normalize.Response) string {
	if !e.Succeeded() {
		return "-"
	}
	return fmt.Sprintf("%.1f/10", e.Confidence)
}

func displayName(e normalize.Response) string {
	if e.ProviderName != "" {
		return e.ProviderName
	}
	return e.ProviderID
}
