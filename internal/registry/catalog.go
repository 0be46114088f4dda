package registry

import "github.com/averin/quorum/internal/config"

// catalog lists the built-in providers in priority order. A config file
// entry can override any field; providers ship disabled until a key is
// configured.
var catalog = []Provider{
	{
		ID:      "zhipu",
		Name:    "Zhipu AI",
		BaseURL: "https://open.bigmodel.cn/api/paas/v4/chat/completions",
		Auth:    AuthBearer,
		Schema:  SchemaOpenAI,
		Models: []Model{
			{ID: "glm-4-flash", Name: "GLM-4 Flash", Tier: TierFree},
			{ID: "glm-4v-flash", Name: "GLM-4V Flash", Tier: TierFree},
			{ID: "glm-4-plus", Name: "GLM-4 Plus", Tier: TierPaid},
		},
	},
	{
		ID:      "silicon",
		Name:    "SiliconFlow",
		BaseURL: "https://api.siliconflow.cn/v1/chat/completions",
		Auth:    AuthBearer,
		Schema:  SchemaOpenAI,
		Models: []Model{
			{ID: "Qwen/Qwen2.5-7B-Instruct", Name: "Qwen2.5 7B", Tier: TierFree},
			{ID: "THUDM/glm-4-9b-chat", Name: "GLM-4 9B", Tier: TierFree},
			{ID: "deepseek-ai/DeepSeek-V3", Name: "DeepSeek V3", Tier: TierPaid},
		},
	},
	{
		ID:      "openai",
		Name:    "OpenAI",
		BaseURL: "https://api.openai.com/v1/chat/completions",
		Auth:    AuthBearer,
		Schema:  SchemaOpenAI,
		Models: []Model{
			{ID: "gpt-4o-mini", Name: "GPT-4o mini", Tier: TierPaid},
			{ID: "gpt-4o", Name: "GPT-4o", Tier: TierPaid},
		},
	},
	{
		ID:      "anthropic",
		Name:    "Anthropic",
		BaseURL: "https://api.anthropic.com/v1/messages",
		Auth:    AuthAPIKeyHeader,
		Schema:  SchemaAnthropic,
		Models: []Model{
			{ID: "claude-3-5-haiku-latest", Name: "Claude 3.5 Haiku", Tier: TierPaid},
			{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Tier: TierPaid},
		},
	},
	{
		ID:      "gemini",
		Name:    "Google Gemini",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Auth:    AuthQueryKey,
		Schema:  SchemaGemini,
		Models: []Model{
			{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Tier: TierFree},
			{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Tier: TierPaid},
		},
	},
}

// Catalog returns a copy of the built-in provider list.
func Catalog() []Provider {
	out := make([]Provider, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultFile produces the config file written by "quorum init": every
// catalog provider with an empty key, disabled, plus default settings.
func DefaultFile() *config.File {
	f := &config.File{
		Providers: make(map[string]config.Provider, len(catalog)),
		Settings:  config.DefaultSettings(),
	}
	for _, p := range catalog {
		models := make([]config.Model, 0, len(p.Models))
		for _, m := range p.Models {
			models = append(models, config.Model{ID: m.ID, Name: m.Name, Tier: string(m.Tier)})
		}
		f.Providers[p.ID] = config.Provider{
			Name:    p.Name,
			BaseURL: p.BaseURL,
			Auth:    string(p.Auth),
			Schema:  string(p.Schema),
			Models:  models,
		}
	}
	return f
}
