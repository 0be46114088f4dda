package dispatch

import "time"

// FailureKind classifies why a provider query produced no usable
// response. The zero value means success.
type FailureKind string

const (
	FailNone      FailureKind = ""
	FailTimeout   FailureKind = "timeout"
	FailTransport FailureKind = "transport"
	FailRateLimit FailureKind = "rate_limit"
	FailAuth      FailureKind = "auth"
	// FailParse is set downstream when a 2xx body cannot be decoded.
	FailParse FailureKind = "parse"
)

// Retryable reports whether a failure of this kind may succeed on a
// fresh attempt. Auth failures and malformed bodies never do.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailTimeout, FailRateLimit, FailTransport:
		return true
	default:
		return false
	}
}

// Result is the outcome of querying one provider. Every dispatched
// provider yields exactly one result, success or not.
type Result struct {
	ProviderID   string
	ProviderName string
	Model        string
	ModelName    string
	Body         []byte
	HTTPStatus   int
	Failure      FailureKind
	Message      string
	Elapsed      time.Duration
	Attempts     int
}

// Succeeded reports whether the provider returned a decodable 2xx
// response.
func (r Result) Succeeded() bool {
	return r.Failure == FailNone
}
