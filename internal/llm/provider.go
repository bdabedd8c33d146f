// Package llm talks to hosted language models and returns schema-checked JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion
type Provider interface {
	// Generate returns the model output. When req.Schema is set the content
	// is a JSON object that passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single-turn prompt
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema is the JSON Schema the output must satisfy. Name must be unique
// per definition since compiled schemas are cached by name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output
type Response struct {
	Content    json.RawMessage
	Model      string
	StopReason string
	Usage      Usage
}

// Usage counts tokens of one call
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)
