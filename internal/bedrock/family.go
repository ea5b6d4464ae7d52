package bedrock

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	maxTokens   = 256
	temperature = 0.2
	topP        = 0.9

	anthropicVersion = "bedrock-2023-05-31"
)

var (
	ErrUnknownFamily = errors.New("no model family for model id")
	ErrEmptyResponse = errors.New("model response has no text")
	ErrInvalidJSON   = errors.New("model response is not valid JSON")
)

// Prompt is the instruction/content pair sent for one generation. Families
// that have no system slot fold both into a single prompt string.
type Prompt struct {
	System string
	User   string
}

func (p Prompt) Combined() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

// Family is the request/response shape shared by a group of model ids.
type Family interface {
	Name() string
	BuildRequest(p Prompt) ([]byte, error)
	ParseResponse(body []byte) (string, error)
}

type (
	titanRequest struct {
		InputText            string               `json:"inputText"`
		TextGenerationConfig titanGenerationConfig `json:"textGenerationConfig"`
	}
	titanGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount"`
		Temperature   float64 `json:"temperature"`
		TopP          float64 `json:"topP"`
	}
)

type (
	claudeRequest struct {
		AnthropicVersion string          `json:"anthropic_version"`
		System           string          `json:"system,omitempty"`
		Messages         []claudeMessage `json:"messages"`
		MaxTokens        int             `json:"max_tokens"`
		Temperature      float64         `json:"temperature"`
	}
	claudeMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
)

type cohereRequest struct {
	Prompt        string   `json:"prompt"`
	MaxTokens     int      `json:"max_tokens"`
	Temperature   float64  `json:"temperature"`
	StopSequences []string `json:"stop_sequences"`
}

type titanFamily struct{}

func (titanFamily) Name() string { return "titan" }

func (titanFamily) BuildRequest(p Prompt) ([]byte, error) {
	return json.Marshal(titanRequest{
		InputText: p.Combined(),
		TextGenerationConfig: titanGenerationConfig{
			MaxTokenCount: maxTokens,
			Temperature:   temperature,
			TopP:          topP,
		},
	})
}

func (titanFamily) ParseResponse(body []byte) (string, error) {
	return textAt(body, "results.0.outputText")
}

type claudeFamily struct{}

func (claudeFamily) Name() string { return "claude" }

func (claudeFamily) BuildRequest(p Prompt) ([]byte, error) {
	return json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		System:           p.System,
		Messages:         []claudeMessage{{Role: "user", Content: p.User}},
		MaxTokens:        maxTokens,
		Temperature:      temperature,
	})
}

func (claudeFamily) ParseResponse(body []byte) (string, error) {
	return textAt(body, "content.0.text")
}

type cohereFamily struct{}

func (cohereFamily) Name() string { return "cohere" }

func (cohereFamily) BuildRequest(p Prompt) ([]byte, error) {
	return json.Marshal(cohereRequest{
		Prompt:        p.Combined(),
		MaxTokens:     maxTokens,
		Temperature:   temperature,
		StopSequences: []string{},
	})
}

func (cohereFamily) ParseResponse(body []byte) (string, error) {
	return textAt(body, "generations.0.text")
}

func textAt(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: %s", ErrInvalidJSON, preview(body))
	}

	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.Type != gjson.String {
		return "", fmt.Errorf("%w at %q", ErrEmptyResponse, path)
	}
	return strings.TrimSpace(res.String()), nil
}

var familyPrefixes = []struct {
	prefix string
	family Family
}{
	{"amazon.titan-text", titanFamily{}},
	{"anthropic.", claudeFamily{}},
	{"cohere.command", cohereFamily{}},
}

// FamilyFor maps a model id to its request/response shape. Cross-region
// inference profile ids ("us.anthropic...") carry a region prefix that is
// ignored here.
func FamilyFor(modelID string) (Family, error) {
	id := stripRegionPrefix(modelID)
	for _, fp := range familyPrefixes {
		if strings.HasPrefix(id, fp.prefix) {
			return fp.family, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, modelID)
}

func stripRegionPrefix(modelID string) string {
	for _, p := range []string{"us.", "eu.", "apac."} {
		if strings.HasPrefix(modelID, p) {
			return strings.TrimPrefix(modelID, p)
		}
	}
	return modelID
}

func preview(body []byte) string {
	raw := string(body)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}
