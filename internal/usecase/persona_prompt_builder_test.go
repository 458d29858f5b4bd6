package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

func TestPersonaPromptBuilder_Build(t *testing.T) {
	builder := usecase.NewPersonaPromptBuilder("Answer in Brazilian Portuguese.")

	prompt, err := builder.Build(usecase.PromptInput{
		Question:    "Quanto tempo dura o curso?",
		PersonaName: "Mariana",
		ProductName: "Product Management",
		History: []domain.ChatTurn{
			{Role: domain.RoleUser, Content: "Oi!"},
			{Role: domain.RoleAssistant, Content: "Oi, tudo bem?"},
		},
		Documents: []domain.Record{
			{Text: domain.ProvenanceOfficial + ": o curso dura 6 meses", Product: "Product Management"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Mariana")
	assert.Contains(t, prompt, "Product Management")
	assert.Contains(t, prompt, "o curso dura 6 meses")
	assert.Contains(t, prompt, "Quanto tempo dura o curso?")
	assert.Contains(t, prompt, "Oi, tudo bem?")
	assert.Contains(t, prompt, "Answer in Brazilian Portuguese.")
	// The hierarchy rule names both provenance markers.
	assert.Contains(t, prompt, "FONTE OFICIAL")
	assert.Contains(t, prompt, "OPINIÃO DE USUÁRIO")
}

func TestPersonaPromptBuilder_EmptyContext(t *testing.T) {
	builder := usecase.NewPersonaPromptBuilder()
	prompt, err := builder.Build(usecase.PromptInput{
		Question:    "pergunta",
		PersonaName: "Bia",
		ProductName: "UX Design",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "<empty>")
	assert.NotContains(t, prompt, "<document>")
}

func TestPersonaPromptBuilder_RequiresPersonaAndProduct(t *testing.T) {
	builder := usecase.NewPersonaPromptBuilder()

	_, err := builder.Build(usecase.PromptInput{Question: "q", ProductName: "p"})
	assert.Error(t, err)

	_, err = builder.Build(usecase.PromptInput{Question: "q", PersonaName: "n"})
	assert.Error(t, err)
}

func TestPersonaPromptBuilder_EscapesMarkup(t *testing.T) {
	builder := usecase.NewPersonaPromptBuilder()
	prompt, err := builder.Build(usecase.PromptInput{
		Question:    `qual é o <melhor> & "maior"?`,
		PersonaName: "Caio",
		ProductName: "Data Analytics",
		Documents: []domain.Record{
			{Text: "a < b && b > c", Product: "Data Analytics"},
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, prompt, "<melhor>")
	assert.Contains(t, prompt, "&lt;melhor&gt;")
	// Structural tags survive.
	assert.True(t, strings.Contains(prompt, "<question>") && strings.Contains(prompt, "</question>"))
}
