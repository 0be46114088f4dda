package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averin/quorum/internal/registry"
)

func TestBuildRequestOpenAI(t *testing.T) {
	p := registry.Provider{
		ID:      "silicon",
		BaseURL: "https://api.siliconflow.cn/v1/chat/completions",
		APIKey:  "sk",
		Auth:    registry.AuthBearer,
		Schema:  registry.SchemaOpenAI,
	}
	req, err := buildRequest(context.Background(), p, "qwen", "hello", Options{Temperature: 0.7, MaxTokens: 256})
	require.NoError(t, err)

	assert.Equal(t, "https://api.siliconflow.cn/v1/chat/completions", req.URL.String())
	assert.Equal(t, "Bearer sk", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body openaiRequest
	raw, _ := io.ReadAll(req.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "qwen", body.Model)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "hello", body.Messages[0].Content)
	assert.Equal(t, 256, body.MaxTokens)
}

func TestBuildRequestAnthropic(t *testing.T) {
	p := registry.Provider{
		ID:      "anthropic",
		BaseURL: "https://api.anthropic.com/v1/messages",
		APIKey:  "ak",
		Auth:    registry.AuthAPIKeyHeader,
		Schema:  registry.SchemaAnthropic,
	}
	req, err := buildRequest(context.Background(), p, "claude", "hello", Options{MaxTokens: 512})
	require.NoError(t, err)

	assert.Equal(t, "ak", req.Header.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, req.Header.Get("anthropic-version"))
	assert.Empty(t, req.Header.Get("Authorization"))

	var body anthropicRequest
	raw, _ := io.ReadAll(req.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 512, body.MaxTokens)
}

func TestBuildRequestGemini(t *testing.T) {
	p := registry.Provider{
		ID:      "gemini",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		APIKey:  "gk",
		Auth:    registry.AuthQueryKey,
		Schema:  registry.SchemaGemini,
	}
	req, err := buildRequest(context.Background(), p, "gemini-2.0-flash", "hello", Options{MaxTokens: 128})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", req.URL.Path)
	assert.Equal(t, "gk", req.URL.Query().Get("key"))

	var body geminiRequest
	raw, _ := io.ReadAll(req.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Contents, 1)
	require.Len(t, body.Contents[0].Parts, 1)
	assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
	assert.Equal(t, 128, body.GenerationConfig.MaxOutputTokens)
}

func TestBuildRequestUnsupportedSchema(t *testing.T) {
	p := registry.Provider{ID: "odd", Schema: "soap"}
	_, err := buildRequest(context.Background(), p, "m", "hello", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema")
}
