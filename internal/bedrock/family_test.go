package bedrock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testPrompt = Prompt{System: "Summarise this.", User: "the passage"}

func TestTitanRequestShape(t *testing.T) {
	body, err := titanFamily{}.BuildRequest(testPrompt)
	require.NoError(t, err)

	assert.Equal(t, "Summarise this.\n\nthe passage", gjson.GetBytes(body, "inputText").String())
	assert.Equal(t, int64(maxTokens), gjson.GetBytes(body, "textGenerationConfig.maxTokenCount").Int())
	assert.InDelta(t, temperature, gjson.GetBytes(body, "textGenerationConfig.temperature").Float(), 1e-9)
	assert.False(t, gjson.GetBytes(body, "messages").Exists())
}

func TestClaudeRequestShape(t *testing.T) {
	body, err := claudeFamily{}.BuildRequest(testPrompt)
	require.NoError(t, err)

	assert.Equal(t, anthropicVersion, gjson.GetBytes(body, "anthropic_version").String())
	assert.Equal(t, "Summarise this.", gjson.GetBytes(body, "system").String())
	assert.Equal(t, "user", gjson.GetBytes(body, "messages.0.role").String())
	assert.Equal(t, "the passage", gjson.GetBytes(body, "messages.0.content").String())
	assert.Equal(t, int64(1), gjson.GetBytes(body, "messages.#").Int())
	assert.Equal(t, int64(maxTokens), gjson.GetBytes(body, "max_tokens").Int())
	assert.False(t, gjson.GetBytes(body, "inputText").Exists())
}

func TestCohereRequestShape(t *testing.T) {
	body, err := cohereFamily{}.BuildRequest(testPrompt)
	require.NoError(t, err)

	assert.Equal(t, "Summarise this.\n\nthe passage", gjson.GetBytes(body, "prompt").String())
	assert.Equal(t, int64(maxTokens), gjson.GetBytes(body, "max_tokens").Int())
	stops := gjson.GetBytes(body, "stop_sequences")
	require.True(t, stops.IsArray())
	assert.Empty(t, stops.Array())
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		body   string
		want   string
	}{
		{"titan", titanFamily{}, `{"results":[{"outputText":" - a\n- b "}]}`, "- a\n- b"},
		{"claude", claudeFamily{}, `{"content":[{"type":"text","text":"- c"}]}`, "- c"},
		{"cohere", cohereFamily{}, `{"generations":[{"text":"- d"}]}`, "- d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.family.ParseResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponseWrongShape(t *testing.T) {
	// a Claude body handed to the Titan parser has nothing at results.0.outputText
	_, err := titanFamily{}.ParseResponse([]byte(`{"content":[{"text":"x"}]}`))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = claudeFamily{}.ParseResponse([]byte(`{"content":[]}`))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = cohereFamily{}.ParseResponse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{TitanLiteModelID, "titan"},
		{"amazon.titan-text-express-v1", "titan"},
		{ClaudeHaikuModelID, "claude"},
		{"us.anthropic.claude-3-5-haiku-20241022-v1:0", "claude"},
		{CohereLightModelID, "cohere"},
	}

	for _, tt := range tests {
		f, err := FamilyFor(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.want, f.Name(), tt.id)
	}

	_, err := FamilyFor("meta.llama3-8b-instruct-v1:0")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}
