package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

// fakeIndex returns canned hits per query.
type fakeIndex struct {
	hits map[string][]domain.Record
	err  error
}

func (f *fakeIndex) Search(_ context.Context, query string) ([]domain.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[query], nil
}

func TestDocumentRetriever_DeduplicatesAcrossQueries(t *testing.T) {
	shared := domain.Record{Text: "[FONTE OFICIAL]: o curso dura 6 meses", Product: "Product Management"}
	index := &fakeIndex{hits: map[string][]domain.Record{
		"q1": {shared, {Text: "op-a", Product: "Product Management"}},
		"q2": {{Text: "op-b", Product: "Product Management"}, shared},
	}}

	retriever := usecase.NewDocumentRetriever(testLogger())
	docs, err := retriever.Retrieve(context.Background(), []string{"q1", "q2"}, index)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	// First-seen order.
	assert.Equal(t, shared.Text, docs[0].Text)
	assert.Equal(t, "op-a", docs[1].Text)
	assert.Equal(t, "op-b", docs[2].Text)
}

func TestDocumentRetriever_Idempotent(t *testing.T) {
	index := &fakeIndex{hits: map[string][]domain.Record{
		"q1": {{Text: "a", Product: "p"}, {Text: "b", Product: "p"}},
		"q2": {{Text: "b", Product: "p"}, {Text: "c", Product: "p"}},
	}}
	retriever := usecase.NewDocumentRetriever(testLogger())

	once, err := retriever.Retrieve(context.Background(), []string{"q1", "q2"}, index)
	require.NoError(t, err)
	twice, err := retriever.Retrieve(context.Background(), []string{"q1", "q2", "q1", "q2"}, index)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestDocumentRetriever_EmptyResultIsValid(t *testing.T) {
	retriever := usecase.NewDocumentRetriever(testLogger())
	docs, err := retriever.Retrieve(context.Background(), []string{"q1"}, &fakeIndex{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRetriever_SearchErrorPropagates(t *testing.T) {
	retriever := usecase.NewDocumentRetriever(testLogger())
	_, err := retriever.Retrieve(context.Background(), []string{"q1"}, &fakeIndex{err: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDocumentRetriever_NilIndex(t *testing.T) {
	retriever := usecase.NewDocumentRetriever(testLogger())
	_, err := retriever.Retrieve(context.Background(), []string{"q1"}, nil)
	assert.Error(t, err)
}
