// Package runtime ties command execution to process signals.
package runtime

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM. The
// returned stop function releases the signal registration; a second
// signal after cancellation kills the process with the default
// handler, so a hung provider call cannot trap the user.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
