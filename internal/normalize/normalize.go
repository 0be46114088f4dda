// Package normalize maps provider-native response payloads into a
// common result record.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/averin/quorum/internal/dispatch"
	"github.com/averin/quorum/internal/registry"
	qstrings "github.com/averin/quorum/internal/strings"
)

// Response is the provider-independent shape of one answer. Immutable
// once produced.
type Response struct {
	ProviderID   string
	ProviderName string
	Model        string
	ModelName    string
	Content      string
	TokensUsed   int
	Confidence   float64
	Elapsed      time.Duration
	Attempts     int
	Failure      dispatch.FailureKind
	Message      string
	HTTPStatus   int
}

// Succeeded reports whether the provider produced usable text.
func (r Response) Succeeded() bool {
	return r.Failure == dispatch.FailNone
}

// Normalize shapes one raw dispatch result. The mapping is total:
// failed results pass through with their failure kind, and a 2xx body
// that cannot be decoded becomes a parse failure instead of an error.
func Normalize(res dispatch.Result, schema registry.Schema) Response {
	out := Response{
		ProviderID:   res.ProviderID,
		ProviderName: res.ProviderName,
		Model:        res.Model,
		ModelName:    res.ModelName,
		Elapsed:      res.Elapsed,
		Attempts:     res.Attempts,
		Failure:      res.Failure,
		Message:      res.Message,
		HTTPStatus:   res.HTTPStatus,
	}
	if !res.Succeeded() {
		return out
	}

	content, tokens, err := parseBody(res.Body, schema)
	if err != nil {
		out.Failure = dispatch.FailParse
		out.Message = err.Error()
		return out
	}

	out.Content = clean(content)
	out.TokensUsed = tokens
	out.Confidence = Score(out.Content)
	return out
}

// All normalizes a batch of results, preserving order.
func All(results []dispatch.Result, providers []registry.Provider) []Response {
	out := make([]Response, len(results))
	for i, res := range results {
		var schema registry.Schema
		if i < len(providers) {
			schema = providers[i].Schema
		}
		out[i] = Normalize(res, schema)
	}
	return out
}

// parseBody extracts the assistant text and token usage from a
// provider-native payload. Truncated or lightly malformed JSON is run
// through jsonrepair before giving up.
func parseBody(body []byte, schema registry.Schema) (string, int, error) {
	parse := parserFor(schema)
	if parse == nil {
		return "", 0, fmt.Errorf("no parser for schema %q", schema)
	}

	content, tokens, err := parse(body)
	if err == nil {
		return content, tokens, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(body))
	if repairErr != nil {
		return "", 0, err
	}
	content, tokens, repairedErr := parse([]byte(repaired))
	if repairedErr != nil {
		return "", 0, err
	}
	return content, tokens, nil
}

type parser func(body []byte) (content string, tokens int, err error)

func parserFor(schema registry.Schema) parser {
	switch schema {
	case registry.SchemaOpenAI:
		return parseOpenAI
	case registry.SchemaAnthropic:
		return parseAnthropic
	case registry.SchemaGemini:
		return parseGemini
	default:
		return nil
	}
}

func parseOpenAI(body []byte) (string, int, error) {
	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("decode openai payload: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", 0, fmt.Errorf("openai payload has no choices")
	}
	content := payload.Choices[0].Message.Content
	if content == "" {
		return "", 0, fmt.Errorf("openai payload has empty content")
	}
	return content, payload.Usage.TotalTokens, nil
}

func parseAnthropic(body []byte) (string, int, error) {
	var payload struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("decode anthropic payload: %w", err)
	}

	var sb strings.Builder
	for _, block := range payload.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", 0, fmt.Errorf("anthropic payload has no text blocks")
	}
	return sb.String(), payload.Usage.InputTokens + payload.Usage.OutputTokens, nil
}

func parseGemini(body []byte) (string, int, error) {
	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			TotalTokenCount int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("decode gemini payload: %w", err)
	}
	if len(payload.Candidates) == 0 {
		return "", 0, fmt.Errorf("gemini payload has no candidates")
	}

	var sb strings.Builder
	for _, part := range payload.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", 0, fmt.Errorf("gemini candidate has no text parts")
	}
	return sb.String(), payload.UsageMetadata.TotalTokenCount, nil
}

// clean strips whitespace artifacts providers leave around the text.
func clean(content string) string {
	return strings.TrimSpace(qstrings.CollapseBlankLines(content))
}
