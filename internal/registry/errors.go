package registry

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrProviderDisabled = errors.New("provider disabled")
	ErrMissingAPIKey    = errors.New("api key not configured")
)

// ConfigurationError reports a provider selection problem detected
// before any request is sent. It is always fatal for the whole run.
type ConfigurationError struct {
	Provider string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
