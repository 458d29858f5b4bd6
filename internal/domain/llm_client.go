package domain

import "context"

// LLMClient defines the free-form generation capability: prompt in, text out.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (*LLMResponse, error)
	Version() string
}

// LLMResponse carries the generated text. A blank Text is not an error; the
// pipeline only treats the call itself failing as an error.
type LLMResponse struct {
	Text string
}

// StructuredClient defines the structured-generation capability: the provider
// is constrained to return a JSON list of strings with the given bounds.
// Implementations return ErrMalformedStructuredOutput (wrapped) when the
// model output cannot be parsed into a conformant list.
type StructuredClient interface {
	GenerateStringList(ctx context.Context, prompt string, minItems, maxItems int) ([]string, error)
	Version() string
}
