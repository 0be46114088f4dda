// Package config provides centralized configuration management: the
// provider config file under ~/.quorum/ and environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// File is the on-disk configuration: provider entries keyed by id plus
// global request settings.
type File struct {
	Providers map[string]Provider `json:"providers"`
	Settings  Settings            `json:"settings"`
}

// Provider is one provider entry in the config file.
type Provider struct {
	Name    string  `json:"name"`
	BaseURL string  `json:"api_base"`
	APIKey  string  `json:"api_key"`
	Auth    string  `json:"auth,omitempty"`
	Schema  string  `json:"schema,omitempty"`
	Enabled bool    `json:"enabled"`
	Models  []Model `json:"models"`
}

// Model is one model entry under a provider.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tier string `json:"tier"` // "free" or "paid"
}

// Settings holds global request parameters. Temperature is a pointer
// so that an explicit zero (deterministic sampling) is distinguishable
// from an absent field.
type Settings struct {
	TimeoutSeconds int      `json:"timeout_seconds"`
	MaxAttempts    int      `json:"max_attempts"`
	Temperature    *float64 `json:"temperature,omitempty"`
	MaxTokens      int      `json:"max_tokens"`
}

const (
	defaultTemperature = 0.7

	// maxAttemptsCap bounds the per-provider retry budget no matter
	// what the config file says.
	maxAttemptsCap = 5
)

// DefaultSettings returns the settings used when the config file has none.
func DefaultSettings() Settings {
	return Settings{
		TimeoutSeconds: 30,
		MaxAttempts:    2,
		Temperature:    floatPtr(defaultTemperature),
		MaxTokens:      1024,
	}
}

// TemperatureValue returns the sampling temperature, defaulting only
// when the field is absent. A configured zero is honored.
func (s Settings) TemperatureValue() float64 {
	if s.Temperature == nil {
		return defaultTemperature
	}
	return *s.Temperature
}

func floatPtr(v float64) *float64 { return &v }

// Normalize fills absent or invalid settings with defaults and caps
// the retry budget.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = def.TimeoutSeconds
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = def.MaxAttempts
	}
	if s.MaxAttempts > maxAttemptsCap {
		s.MaxAttempts = maxAttemptsCap
	}
	if s.Temperature == nil || *s.Temperature < 0 {
		s.Temperature = floatPtr(defaultTemperature)
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = def.MaxTokens
	}
	return s
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if f.Providers == nil {
		f.Providers = make(map[string]Provider)
	}
	f.Settings = f.Settings.Normalize()
	return &f, nil
}

// Save writes the config file to path, creating parent directories.
func (f *File) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// SetKey stores an API key for a provider and enables it.
func (f *File) SetKey(providerID, key string) error {
	p, ok := f.Providers[providerID]
	if !ok {
		return fmt.Errorf("unknown provider: %s", providerID)
	}
	p.APIKey = key
	p.Enabled = true
	f.Providers[providerID] = p
	return nil
}

// Dir returns the quorum home directory (~/.quorum or QUORUM_HOME).
func Dir() string {
	if home := Env().Home; home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".quorum")
}

// Path returns the config file path (QUORUM_CONFIG overrides).
func Path() string {
	if p := Env().ConfigPath; p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.json")
}

// DataDir returns the directory for the report archive.
func DataDir() string {
	return filepath.Join(Dir(), "data")
}

// EnvFilePath returns the dotenv file path (~/.quorum/.env).
func EnvFilePath() string {
	return filepath.Join(Dir(), ".env")
}

// LoadDotenv loads ~/.quorum/.env into the process environment.
// A missing file is not an error.
func LoadDotenv() {
	path := EnvFilePath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// APIKeyFromEnv returns the environment override for a provider's API
// key, e.g. ZHIPU_API_KEY for provider "zhipu".
func APIKeyFromEnv(providerID string) string {
	name := strings.ToUpper(strings.ReplaceAll(providerID, "-", "_")) + "_API_KEY"
	return os.Getenv(name)
}
