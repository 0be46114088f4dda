package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/averin/quorum/internal/registry"
)

const anthropicVersion = "2023-06-01"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// buildRequest assembles the provider-specific HTTP request for one
// attempt. The returned request carries ctx and all auth material.
func buildRequest(ctx context.Context, p registry.Provider, model, prompt string, opts Options) (*http.Request, error) {
	var (
		endpoint = p.BaseURL
		payload  any
	)

	switch p.Schema {
	case registry.SchemaOpenAI:
		payload = openaiRequest{
			Model:       model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	case registry.SchemaAnthropic:
		payload = anthropicRequest{
			Model:       model,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
		}
	case registry.SchemaGemini:
		endpoint = fmt.Sprintf("%s/%s:generateContent", p.BaseURL, model)
		payload = geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
			GenerationConfig: geminiGenerationConfig{
				Temperature:     opts.Temperature,
				MaxOutputTokens: opts.MaxTokens,
			},
		}
	default:
		return nil, fmt.Errorf("provider %s: unsupported schema %q", p.ID, p.Schema)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request for %s: %w", p.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", p.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch p.Auth {
	case registry.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	case registry.AuthAPIKeyHeader:
		req.Header.Set("x-api-key", p.APIKey)
		req.Header.Set("anthropic-version", anthropicVersion)
	case registry.AuthQueryKey:
		q := url.Values{"key": {p.APIKey}}
		req.URL.RawQuery = q.Encode()
	default:
		return nil, fmt.Errorf("provider %s: unsupported auth scheme %q", p.ID, p.Auth)
	}

	return req, nil
}
