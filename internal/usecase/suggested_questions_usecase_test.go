package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

func tenQuestions() []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = "pergunta gerada"
	}
	return out
}

func TestSuggestedQuestions_UsesStructuredOutput(t *testing.T) {
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 10, 10).
		Return(tenQuestions(), nil).Once()

	uc := usecase.NewSuggestedQuestionsUsecase(structured, 8, time.Minute, testLogger())
	questions := uc.Execute(context.Background(), "Mariana", "Product Management")

	require.Len(t, questions, 10)
	assert.Equal(t, "pergunta gerada", questions[0])
	structured.AssertExpectations(t)
}

func TestSuggestedQuestions_FallbackOnProviderFailure(t *testing.T) {
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 10, 10).
		Return(nil, &domain.ProviderError{Op: "generate_structured", Err: assert.AnError})

	uc := usecase.NewSuggestedQuestionsUsecase(structured, 8, time.Minute, testLogger())
	questions := uc.Execute(context.Background(), "Bia", "UX Design")

	require.Len(t, questions, 10)
	assert.Contains(t, questions[0], "UX Design")
}

func TestSuggestedQuestions_FallbackOnMalformedShape(t *testing.T) {
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 10, 10).
		Return(nil, domain.ErrMalformedStructuredOutput)

	uc := usecase.NewSuggestedQuestionsUsecase(structured, 8, time.Minute, testLogger())
	questions := uc.Execute(context.Background(), "Caio", "Data Analytics")

	require.Len(t, questions, 10)
	assert.Contains(t, questions[0], "dados")
}

func TestSuggestedQuestions_UnknownProductGetsDefaultFallback(t *testing.T) {
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 10, 10).
		Return(nil, domain.ErrMalformedStructuredOutput)

	uc := usecase.NewSuggestedQuestionsUsecase(structured, 8, time.Minute, testLogger())
	questions := uc.Execute(context.Background(), "Alex", "Cooking")

	require.Len(t, questions, 10)
	assert.Contains(t, questions[0], "Gestão de Produto")
}

func TestSuggestedQuestions_Cached(t *testing.T) {
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 10, 10).
		Return(tenQuestions(), nil).Once()

	uc := usecase.NewSuggestedQuestionsUsecase(structured, 8, time.Minute, testLogger())
	first := uc.Execute(context.Background(), "Mariana", "Product Management")
	second := uc.Execute(context.Background(), "Mariana", "Product Management")

	assert.Equal(t, first, second)
	structured.AssertNumberOfCalls(t, "GenerateStringList", 1)
}
