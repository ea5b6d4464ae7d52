package bedrock

import (
	"fmt"
	"strings"
)

const (
	TitanLiteModelID   = "amazon.titan-text-lite-v1"
	ClaudeHaikuModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	CohereLightModelID = "cohere.command-light-text-v14"
)

// ModelKeys maps the short names callers send in the "model" field to
// Bedrock model ids.
var ModelKeys = map[string]string{
	"titan":        TitanLiteModelID,
	"haiku":        ClaudeHaikuModelID,
	"cohere-light": CohereLightModelID,
}

// Model is a resolved model id together with its request/response shape.
type Model struct {
	ID     string
	Family Family
}

// Registry resolves caller-supplied model keys, falling back to a default.
type Registry struct {
	models       map[string]Model
	defaultModel Model
}

// NewRegistry fails when the default model id or any table entry has no known
// family, so a misconfigured DEFAULT_MODEL_ID surfaces at cold start.
func NewRegistry(defaultModelID string) (*Registry, error) {
	def, err := newModel(defaultModelID)
	if err != nil {
		return nil, fmt.Errorf("default model: %w", err)
	}

	models := make(map[string]Model, len(ModelKeys))
	for key, id := range ModelKeys {
		m, err := newModel(id)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", key, err)
		}
		models[key] = m
	}

	return &Registry{models: models, defaultModel: def}, nil
}

func newModel(id string) (Model, error) {
	family, err := FamilyFor(id)
	if err != nil {
		return Model{}, err
	}
	return Model{ID: id, Family: family}, nil
}

// Resolve returns the model for key, or the default for empty and unknown
// keys. Keys are case-insensitive.
func (r *Registry) Resolve(key string) Model {
	if m, ok := r.models[strings.ToLower(strings.TrimSpace(key))]; ok {
		return m
	}
	return r.defaultModel
}

func (r *Registry) Default() Model {
	return r.defaultModel
}
