package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averin/quorum/internal/dispatch"
	"github.com/averin/quorum/internal/registry"
)

func successResult(body string) dispatch.Result {
	return dispatch.Result{
		ProviderID:   "zhipu",
		ProviderName: "Zhipu AI",
		Model:        "glm-4-flash",
		HTTPStatus:   200,
		Body:         []byte(body),
		Elapsed:      800 * time.Millisecond,
		Attempts:     1,
	}
}

func TestNormalizeOpenAI(t *testing.T) {
	body := `{"choices":[{"message":{"role":"assistant","content":"  The answer is 42.\n\n\n"}}],"usage":{"total_tokens":17}}`
	out := Normalize(successResult(body), registry.SchemaOpenAI)

	require.True(t, out.Succeeded())
	assert.Equal(t, "The answer is 42.", out.Content)
	assert.Equal(t, 17, out.TokensUsed)
	assert.Equal(t, "zhipu", out.ProviderID)
	assert.InDelta(t, Score(out.Content), out.Confidence, 1e-9)
}

func TestNormalizeAnthropic(t *testing.T) {
	body := `{"content":[{"type":"text","text":"Part one. "},{"type":"tool_use","id":"x"},{"type":"text","text":"Part two."}],"usage":{"input_tokens":10,"output_tokens":25}}`
	out := Normalize(successResult(body), registry.SchemaAnthropic)

	require.True(t, out.Succeeded())
	assert.Equal(t, "Part one. Part two.", out.Content)
	assert.Equal(t, 35, out.TokensUsed)
}

func TestNormalizeGemini(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"there."}]}}],"usageMetadata":{"totalTokenCount":9}}`
	out := Normalize(successResult(body), registry.SchemaGemini)

	require.True(t, out.Succeeded())
	assert.Equal(t, "Hello there.", out.Content)
	assert.Equal(t, 9, out.TokensUsed)
}

func TestNormalizeRepairsTruncatedJSON(t *testing.T) {
	// Missing the closing braces, as if the stream was cut off.
	body := `{"choices":[{"message":{"role":"assistant","content":"partial but usable"}}`
	out := Normalize(successResult(body), registry.SchemaOpenAI)

	require.True(t, out.Succeeded())
	assert.Equal(t, "partial but usable", out.Content)
}

func TestNormalizeParseFailure(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `<html>gateway error</html>`,
		"no choices":    `{"choices":[]}`,
		"empty content": `{"choices":[{"message":{"content":""}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			out := Normalize(successResult(body), registry.SchemaOpenAI)
			assert.False(t, out.Succeeded())
			assert.Equal(t, dispatch.FailParse, out.Failure)
			assert.NotEmpty(t, out.Message)
			assert.Empty(t, out.Content)
		})
	}
}

func TestNormalizeUnknownSchema(t *testing.T) {
	out := Normalize(successResult(`{}`), registry.Schema("soap"))
	assert.Equal(t, dispatch.FailParse, out.Failure)
}

func TestNormalizePassesThroughFailures(t *testing.T) {
	res := dispatch.Result{
		ProviderID: "gemini",
		Failure:    dispatch.FailTimeout,
		Message:    "request timed out",
		Elapsed:    2 * time.Second,
		Attempts:   2,
	}
	out := Normalize(res, registry.SchemaGemini)

	assert.Equal(t, dispatch.FailTimeout, out.Failure)
	assert.Equal(t, "request timed out", out.Message)
	assert.Equal(t, 2, out.Attempts)
	assert.Zero(t, out.Confidence)
}

func TestAllIsTotal(t *testing.T) {
	providers := []registry.Provider{
		{ID: "a", Schema: registry.SchemaOpenAI},
		{ID: "b", Schema: registry.SchemaOpenAI},
		{ID: "c", Schema: registry.SchemaOpenAI},
	}
	results := []dispatch.Result{
		{ProviderID: "a", HTTPStatus: 200, Body: []byte(`{"choices":[{"message":{"content":"ok"}}]}`)},
		{ProviderID: "b", Failure: dispatch.FailRateLimit, Message: "rate limited (HTTP 429)"},
		{ProviderID: "c", HTTPStatus: 200, Body: []byte(`garbage`)},
	}

	out := All(results, providers)
	require.Len(t, out, 3)
	assert.True(t, out[0].Succeeded())
	assert.Equal(t, dispatch.FailRateLimit, out[1].Failure)
	assert.Equal(t, dispatch.FailParse, out[2].Failure)
}

func TestScoreRange(t *testing.T) {
	samples := []string{
		"",
		"ok",
		"I'm not sure, it depends, I may be wrong. I'm not sure at all.",
		"I can't help with that request.",
		strings.Repeat("A thorough, well structured explanation. ", 100) + "\n- point\n- point\n```go\ncode\n```",
	}
	for _, s := range samples {
		score := Score(s)
		assert.GreaterOrEqual(t, score, 0.0, "sample %q", s)
		assert.LessOrEqual(t, score, 10.0, "sample %q", s)
	}
}

func TestScoreMonotonicInLength(t *testing.T) {
	prev := -1.0
	for _, n := range []int{1, 10, 50, 200, 500, 2000} {
		score := Score(strings.Repeat("a", n))
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestScoreSignals(t *testing.T) {
	plain := "The function returns the sum of both arguments."
	hedged := "The function returns the sum of both arguments, but I'm not sure."
	assert.Greater(t, Score(plain), Score(hedged))

	structured := plain + "\n- handles overflow\n- pure function"
	assert.Greater(t, Score(structured), Score(plain))

	refusal := "I can't help with that."
	assert.Less(t, Score(refusal), scoreBase)
}
