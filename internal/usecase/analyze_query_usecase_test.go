package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

type mockStructuredClient struct {
	mock.Mock
}

func (m *mockStructuredClient) GenerateStringList(ctx context.Context, prompt string, minItems, maxItems int) ([]string, error) {
	args := m.Called(ctx, prompt, minItems, maxItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStructuredClient) Version() string {
	return "mock"
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQueryAnalyzer_Success(t *testing.T) {
	ctx := context.Background()
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 2, 3).
		Return([]string{"curso duração", "quanto tempo dura o curso"}, nil)

	analyzer := usecase.NewQueryAnalyzer(structured, testLogger())
	queries, err := analyzer.Analyze(ctx, "Quanto tempo dura?", []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "Me fala do curso de produto"},
		{Role: domain.RoleAssistant, Content: "Claro, o que você quer saber?"},
	})

	require.NoError(t, err)
	assert.Len(t, queries, 2)
	structured.AssertExpectations(t)
}

func TestQueryAnalyzer_HistoryReachesPrompt(t *testing.T) {
	ctx := context.Background()
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything,
		mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "Me fala do curso") &&
				strings.Contains(prompt, "Quanto tempo dura?")
		}), 2, 3).
		Return([]string{"a", "b"}, nil)

	analyzer := usecase.NewQueryAnalyzer(structured, testLogger())
	_, err := analyzer.Analyze(ctx, "Quanto tempo dura?", []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "Me fala do curso"},
	})
	require.NoError(t, err)
	structured.AssertExpectations(t)
}

func TestQueryAnalyzer_MalformedOutputPropagates(t *testing.T) {
	ctx := context.Background()
	structured := new(mockStructuredClient)
	structured.On("GenerateStringList", mock.Anything, mock.Anything, 2, 3).
		Return(nil, domain.ErrMalformedStructuredOutput)

	analyzer := usecase.NewQueryAnalyzer(structured, testLogger())
	_, err := analyzer.Analyze(ctx, "pergunta", nil)

	assert.ErrorIs(t, err, domain.ErrMalformedStructuredOutput)
}

func TestQueryAnalyzer_EmptyQuestion(t *testing.T) {
	analyzer := usecase.NewQueryAnalyzer(new(mockStructuredClient), testLogger())
	_, err := analyzer.Analyze(context.Background(), "   ", nil)
	assert.Error(t, err)
}
