// Package render formats aggregated reports for the terminal and for
// saved markdown files.
package render

import (
	"fmt"
	"time"

	"github.com/averin/quorum/internal/aggregate"
)

// Mode selects the report layout.
type Mode string

const (
	// ModeTable is the one-line-per-provider overview.
	ModeTable Mode = "table"
	// ModeDetailed prints every answer in full.
	ModeDetailed Mode = "detailed"
	// ModeCombined stacks statistics, the overview table, and answer
	// previews. Default for most commands.
	ModeCombined Mode = "combined"
)

// ParseMode validates a --format flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTable, ModeDetailed, ModeCombined:
		return Mode(s), nil
	case "":
		return ModeCombined, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, detailed, or combined)", s)
	}
}

// Renderer formats reports. With pretty enabled, output targets a
// human terminal; otherwise it is plain markdown suitable for piping
// or saving.
type Renderer struct {
	pretty bool
}

// New creates a renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Report formats a report in the given mode.
func (r *Renderer) Report(rep aggregate.Report, mode Mode) string {
	switch mode {
	case ModeTable:
		return r.table(rep)
	case ModeDetailed:
		return r.detailed(rep)
	default:
		return r.combined(rep)
	}
}

// Markdown formats a report as plain markdown regardless of the
// renderer's pretty setting. Used for --save files and the archive.
func Markdown(rep aggregate.Report, mode Mode) string {
	return New(false).Report(rep, mode)
}

// FormatDuration renders a duration the way the tables expect:
// milliseconds under a second, tenths of a second under a minute.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
