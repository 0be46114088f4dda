// Package logging provides structured JSON logging for quorum components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Event     string         `json:"event"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	Duration  int64          `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Logger emits structured events for one component.
type Logger struct {
	component string
	provider  string
	model     string
	out       io.Writer
	debug     bool
}

// New creates a new logger for a component.
// Debug events are emitted only when QUORUM_DEBUG is set.
func New(component string) *Logger {
	return &Logger{
		component: component,
		out:       os.Stderr,
		debug:     os.Getenv("QUORUM_DEBUG") != "",
	}
}

// NewWithWriter creates a logger writing to w. Used by tests.
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{component: component, out: w, debug: true}
}

// WithProvider returns a logger carrying provider context.
func (l *Logger) WithProvider(provider string) *Logger {
	c := *l
	c.provider = provider
	return &c
}

// WithModel returns a logger carrying model context.
func (l *Logger) WithModel(model string) *Logger {
	c := *l
	c.model = model
	return &c
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]any, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Provider:  l.provider,
		Model:     l.model,
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event. Dropped unless debug mode is on.
func (l *Logger) Debug(event string, extra map[string]any) {
	if !l.debug {
		return
	}
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, extra, err)
}

// Timed logs an info event with a duration in milliseconds.
func (l *Logger) Timed(event string, d time.Duration, extra map[string]any) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		Provider:  l.provider,
		Model:     l.model,
		Duration:  d.Milliseconds(),
		Extra:     extra,
	}
	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
