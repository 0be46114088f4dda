package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// classifyTransportError maps a round-trip error to a failure kind.
// Deadline expiry and cancellation count as timeouts; everything else
// is a transport failure.
func classifyTransportError(err error) (FailureKind, string) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailTimeout, "request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailTimeout, "request timed out"
	}
	return FailTransport, err.Error()
}

// classifyStatus maps a non-2xx HTTP status to a failure kind.
func classifyStatus(status int) (FailureKind, string) {
	switch {
	case status == http.StatusTooManyRequests:
		return FailRateLimit, "rate limited (HTTP 429)"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailAuth, fmt.Sprintf("authentication rejected (HTTP %d)", status)
	default:
		return FailTransport, fmt.Sprintf("unexpected status (HTTP %d)", status)
	}
}

// statusRetryable reports whether a status code is worth a fresh
// attempt. Mirrors the usual gateway set: 429 and transient 5xx.
func statusRetryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
