package usecase

import "persona-orchestrator/internal/domain"

// PipelineState is the per-question record threaded through the three
// pipeline stages. Stages receive it by value and the orchestrator merges
// each stage's output into a fresh copy, so earlier fields are never
// overwritten and no stage retains a reference after returning.
type PipelineState struct {
	RunID         string
	Question      string
	ChatHistory   []domain.ChatTurn
	ProductName   string
	PersonaName   string
	SearchQueries []string
	Documents     []domain.Record
	FinalAnswer   string
}

// WithSearchQueries returns a copy of the state carrying the analyzer output.
func (s PipelineState) WithSearchQueries(queries []string) PipelineState {
	s.SearchQueries = queries
	return s
}

// WithDocuments returns a copy of the state carrying the retrieval output.
// An empty document set is valid and still flows to synthesis.
func (s PipelineState) WithDocuments(docs []domain.Record) PipelineState {
	s.Documents = docs
	return s
}

// WithFinalAnswer returns a copy of the state carrying the synthesized answer.
func (s PipelineState) WithFinalAnswer(answer string) PipelineState {
	s.FinalAnswer = answer
	return s
}
