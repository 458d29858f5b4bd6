package usecase

import (
	"fmt"
	"strings"

	"persona-orchestrator/internal/domain"
)

// PromptInput contains the pieces that feed into the synthesis prompt.
type PromptInput struct {
	Question    string
	PersonaName string
	ProductName string
	History     []domain.ChatTurn
	Documents   []domain.Record
}

// PromptBuilder builds the generation instruction sent to the LLM for the
// synthesis stage.
type PromptBuilder interface {
	Build(input PromptInput) (string, error)
}

// PersonaPromptBuilder creates structured prompts that separate persona
// instructions, retrieved context, conversation history, and the question.
type PersonaPromptBuilder struct {
	additionalInstructions []string
}

// NewPersonaPromptBuilder creates a prompt builder with optional extra
// instructions appended (e.g. a target answer language).
func NewPersonaPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &PersonaPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the synthesis prompt.
func (b *PersonaPromptBuilder) Build(input PromptInput) (string, error) {
	if strings.TrimSpace(input.PersonaName) == "" {
		return "", fmt.Errorf("persona name is required")
	}
	if strings.TrimSpace(input.ProductName) == "" {
		return "", fmt.Errorf("product name is required")
	}

	var sb strings.Builder
	sb.WriteString("<instructions>\n")

	instructions := []string{
		fmt.Sprintf("Your only task is to role-play as %s, a professional developing a career in '%s'.", input.PersonaName, input.ProductName),
		"Answer the <question> using the information in <context> and <history>.",
		"Speak like a real person: first person, conversational, balanced and constructive. Vary how you open each reply; never reuse the same opening across turns.",
		fmt.Sprintf("CRITICAL HIERARCHY RULE: for facts about the product (courses, duration, curriculum), content marked %s takes precedence. For personal experiences and feelings, content marked %s is authoritative.", domain.ProvenanceOfficial, domain.ProvenanceUserOpinion),
		"If an official fact and a user opinion conflict on the same point, say so explicitly instead of silently picking one side.",
		"If the context holds no relevant information for the question, admit you don't know. Never invent facts.",
	}
	for _, inst := range append(instructions, b.additionalInstructions...) {
		sb.WriteString("  <line>")
		sb.WriteString(escape(inst))
		sb.WriteString("</line>\n")
	}
	sb.WriteString("</instructions>\n\n")

	sb.WriteString("<history>\n")
	for _, turn := range input.History {
		sb.WriteString("  <turn role=\"")
		sb.WriteString(escape(turn.Role))
		sb.WriteString("\">")
		sb.WriteString(escape(turn.Content))
		sb.WriteString("</turn>\n")
	}
	sb.WriteString("</history>\n\n")

	sb.WriteString("<context>\n")
	if len(input.Documents) == 0 {
		sb.WriteString("  <empty>No documents were retrieved for this question.</empty>\n")
	}
	for _, doc := range input.Documents {
		sb.WriteString("  <document>")
		sb.WriteString(escape(doc.Text))
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</context>\n\n")

	sb.WriteString("<question>\n")
	sb.WriteString(escape(input.Question))
	sb.WriteString("\n</question>\n\n")

	sb.WriteString(fmt.Sprintf("Your natural answer (as %s):", escape(input.PersonaName)))
	return sb.String(), nil
}

func escape(value string) string {
	s := strings.TrimSpace(value)
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
