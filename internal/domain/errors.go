package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCorpusData indicates the loader produced zero valid records.
	ErrNoCorpusData = errors.New("no valid corpus data")

	// ErrNoTopicData indicates the corpus holds no records for the requested
	// topic. Callers must treat this distinctly from a valid index: it is a
	// precondition failure, not an empty search result.
	ErrNoTopicData = errors.New("no records for requested topic")

	// ErrMalformedStructuredOutput indicates a structured-generation call
	// returned a shape that does not conform to the declared schema.
	ErrMalformedStructuredOutput = errors.New("structured output does not conform to schema")
)

// ProviderError wraps a failed external generation or embedding call so that
// infrastructure failures stay distinguishable from content-quality issues.
type ProviderError struct {
	Op  string // "embed", "generate", "generate_structured"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider call failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err originates from an external provider
// call anywhere in its chain.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
