package config

import (
	"os"
	"sync"
)

// Environment holds quorum environment variables.
type Environment struct {
	// Home overrides the quorum home directory (QUORUM_HOME)
	Home string

	// ConfigPath overrides the config file path (QUORUM_CONFIG)
	ConfigPath string

	// Debug enables debug logging (QUORUM_DEBUG)
	Debug bool

	// NoColor disables colored output (NO_COLOR)
	NoColor bool
}

var (
	env     *Environment
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *Environment {
	envOnce.Do(func() {
		env = &Environment{
			Home:       os.Getenv("QUORUM_HOME"),
			ConfigPath: os.Getenv("QUORUM_CONFIG"),
			Debug:      os.Getenv("QUORUM_DEBUG") != "",
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	})
	return env
}

// ResetEnv clears the cached environment. Used by tests.
func ResetEnv() {
	env = nil
	envOnce = sync.Once{}
}
