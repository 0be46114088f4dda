// Package registry holds the static description of each AI provider and
// resolves which providers a run will query.
package registry

import (
	"sort"

	"github.com/averin/quorum/internal/config"
)

// Tier classifies a model as free or paid.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// AuthScheme selects how the API key is attached to a request.
type AuthScheme string

const (
	// AuthBearer sends "Authorization: Bearer <key>".
	AuthBearer AuthScheme = "bearer"
	// AuthAPIKeyHeader sends the key in an "x-api-key" header.
	AuthAPIKeyHeader AuthScheme = "x-api-key"
	// AuthQueryKey appends the key as a "key" query parameter.
	AuthQueryKey AuthScheme = "query"
)

// Schema identifies the provider's wire format. Each schema has a
// matching request builder in dispatch and parser in normalize.
type Schema string

const (
	SchemaOpenAI    Schema = "openai"
	SchemaAnthropic Schema = "anthropic"
	SchemaGemini    Schema = "gemini"
)

// Model describes one model offered by a provider.
type Model struct {
	ID   string
	Name string
	Tier Tier
}

// Provider is the immutable description of one AI provider. Built at
// configuration-load time and read-only afterwards, so concurrent reads
// during dispatch need no locking.
type Provider struct {
	ID      string
	Name    string
	BaseURL string
	APIKey  string
	Auth    AuthScheme
	Schema  Schema
	Models  []Model
	Enabled bool
}

// Registry holds providers in priority order (catalog order, then
// custom config entries).
type Registry struct {
	providers []Provider
	index     map[string]int
}

// New creates a registry from an ordered provider list.
func New(providers []Provider) *Registry {
	r := &Registry{
		providers: providers,
		index:     make(map[string]int, len(providers)),
	}
	for i, p := range providers {
		r.index[p.ID] = i
	}
	return r
}

// FromConfig builds a registry by layering the config file over the
// built-in catalog. Catalog entries keep their priority order; providers
// that exist only in the config file are appended, sorted by id.
// <PROVIDER>_API_KEY environment variables fill in missing keys.
func FromConfig(f *config.File) *Registry {
	providers := make([]Provider, 0, len(catalog))
	seen := make(map[string]bool)

	for _, base := range catalog {
		p := base
		if entry, ok := f.Providers[p.ID]; ok {
			applyEntry(&p, entry)
		}
		if p.APIKey == "" {
			p.APIKey = config.APIKeyFromEnv(p.ID)
		}
		providers = append(providers, p)
		seen[p.ID] = true
	}

	var extra []string
	for id := range f.Providers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)

	for _, id := range extra {
		entry := f.Providers[id]
		p := Provider{ID: id, Auth: AuthBearer, Schema: SchemaOpenAI}
		applyEntry(&p, entry)
		if p.APIKey == "" {
			p.APIKey = config.APIKeyFromEnv(p.ID)
		}
		if p.Name == "" {
			p.Name = id
		}
		providers = append(providers, p)
	}

	return New(providers)
}

// applyEntry overlays a config file entry onto a provider.
func applyEntry(p *Provider, entry config.Provider) {
	if entry.Name != "" {
		p.Name = entry.Name
	}
	if entry.BaseURL != "" {
		p.BaseURL = entry.BaseURL
	}
	if entry.APIKey != "" {
		p.APIKey = entry.APIKey
	}
	if entry.Auth != "" {
		p.Auth = AuthScheme(entry.Auth)
	}
	if entry.Schema != "" {
		p.Schema = Schema(entry.Schema)
	}
	if len(entry.Models) > 0 {
		models := make([]Model, 0, len(entry.Models))
		for _, m := range entry.Models {
			name := m.Name
			if name == "" {
				name = m.ID
			}
			models = append(models, Model{ID: m.ID, Name: name, Tier: Tier(m.Tier)})
		}
		p.Models = models
	}
	p.Enabled = entry.Enabled
}

// All returns every provider in priority order.
func (r *Registry) All() []Provider {
	return r.providers
}

// Get returns a provider by id.
func (r *Registry) Get(id string) (Provider, bool) {
	i, ok := r.index[id]
	if !ok {
		return Provider{}, false
	}
	return r.providers[i], true
}

// Resolve returns the providers a run will query, in priority order.
// An empty id set selects every enabled provider with a configured key.
// Requesting an unknown, disabled, or keyless provider is a
// configuration error; no partial result is returned.
func (r *Registry) Resolve(ids []string) ([]Provider, error) {
	if len(ids) == 0 {
		var out []Provider
		for _, p := range r.providers {
			if p.Enabled && p.APIKey != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.index[id]; !ok {
			return nil, &ConfigurationError{Provider: id, Err: ErrUnknownProvider}
		}
		requested[id] = true
	}

	var out []Provider
	for _, p := range r.providers {
		if !requested[p.ID] {
			continue
		}
		if !p.Enabled {
			return nil, &ConfigurationError{Provider: p.ID, Err: ErrProviderDisabled}
		}
		if p.APIKey == "" {
			return nil, &ConfigurationError{Provider: p.ID, Err: ErrMissingAPIKey}
		}
		out = append(out, p)
	}
	return out, nil
}

// DefaultModel returns the model used for a provider's first attempt:
// the first free-tier model, falling back to the first model.
func DefaultModel(p Provider) (Model, bool) {
	for _, m := range p.Models {
		if m.Tier == TierFree {
			return m, true
		}
	}
	if len(p.Models) > 0 {
		return p.Models[0], true
	}
	return Model{}, false
}

// FallbackModel returns the next free-tier model after current, used
// when a retry downgrades to an alternate model. Returns false when the
// provider has no other free model.
func FallbackModel(p Provider, currentID string) (Model, bool) {
	past := false
	for _, m := range p.Models {
		if m.ID == currentID {
			past = true
			continue
		}
		if past && m.Tier == TierFree {
			return m, true
		}
	}
	return Model{}, false
}
