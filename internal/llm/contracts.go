package llm

import "context"

// GenerateRequest is a single-prompt completion request.
type GenerateRequest struct {
	Prompt string
	// ResponseSchema, when set, asks providers that support schema-constrained
	// output to return JSON matching it. Providers without support ignore it.
	ResponseSchema map[string]any
}

// Generator is the outbound text-generation dependency. Implementations make
// exactly one upstream call per Generate and never retry.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Model() string
}
