package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"persona-orchestrator/internal/domain"
)

// suggestedQuestionCount is the number of interview questions requested from
// the structured generator and held in each fallback list.
const suggestedQuestionCount = 10

// SuggestedQuestionsUsecase generates open interview questions for a
// persona/product pair via structured generation, falling back to a
// validated per-product table when the provider fails or returns a
// non-conformant shape. The result is cached per (persona, product).
type SuggestedQuestionsUsecase interface {
	Execute(ctx context.Context, personaName, productName string) []string
}

type suggestedQuestionsUsecase struct {
	structured domain.StructuredClient
	cache      *expirable.LRU[string, []string]
	logger     *slog.Logger
}

// NewSuggestedQuestionsUsecase creates the suggested-questions generator.
func NewSuggestedQuestionsUsecase(structured domain.StructuredClient, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) SuggestedQuestionsUsecase {
	if cacheSize <= 0 {
		cacheSize = 8
	}
	return &suggestedQuestionsUsecase{
		structured: structured,
		cache:      expirable.NewLRU[string, []string](cacheSize, nil, cacheTTL),
		logger:     logger,
	}
}

func (u *suggestedQuestionsUsecase) Execute(ctx context.Context, personaName, productName string) []string {
	key := personaName + "|" + productName
	if questions, ok := u.cache.Get(key); ok {
		return questions
	}

	prompt := fmt.Sprintf(
		"Act as a UX researcher. Create %d open-ended interview questions, in Brazilian Portuguese, "+
			"for a student interested in '%s', designed to uncover insights about their profile, pain "+
			"points and career motivations.", suggestedQuestionCount, productName)

	questions, err := u.structured.GenerateStringList(ctx, prompt, suggestedQuestionCount, suggestedQuestionCount)
	if err != nil {
		u.logger.Warn("suggested_questions_fallback",
			slog.String("product", productName),
			slog.String("reason", err.Error()))
		questions = fallbackQuestionsFor(productName)
	}

	u.cache.Add(key, questions)
	return questions
}

// fallbackQuestionsFor returns the curated question list for the product,
// defaulting to the Product Management list for unknown products.
func fallbackQuestionsFor(productName string) []string {
	if questions, ok := fallbackQuestions[productName]; ok {
		return questions
	}
	return fallbackQuestions["Product Management"]
}

var fallbackQuestions = map[string][]string{
	"Product Management": {
		"O que te motivou a buscar uma carreira em Gestão de Produto?",
		"Qual seu maior receio ou desafio ao pensar em fazer uma transição de carreira para Produto?",
		"O que você mais valoriza em um curso: professores renomados, networking ou conteúdo prático?",
		"Descreva uma situação profissional que te fez pensar 'eu preciso aprender mais sobre produto'.",
		"Como você se imagina aplicando os conhecimentos de produto no seu trabalho atual ou futuro?",
		"Qual a sua maior dificuldade para montar um portfólio de produto sem ter experiência prévia?",
		"Que tipo de empresa você sonha em trabalhar como PM?",
		"Além do conhecimento técnico, que habilidade comportamental você mais quer desenvolver?",
		"Como você se mantém atualizado sobre as tendências do mercado de produto?",
		"Se você pudesse perguntar algo para uma Gerente de Produto Sênior, o que seria?",
	},
	"UX Design": {
		"O que te atraiu na área de UX Design? Foi a parte visual, a pesquisa com usuários ou a resolução de problemas?",
		"Qual a sua maior dificuldade hoje para construir um portfólio de UX que chame a atenção?",
		"Como você lida com a frustração quando um design que você gosta não funciona bem nos testes com usuários?",
		"Que ferramenta de design (Figma, Sketch, etc.) você mais gosta e por quê?",
		"Descreva um aplicativo ou site que você considera ter uma experiência de usuário perfeita.",
		"Qual o seu maior medo ao pensar em apresentar um projeto de design para stakeholders?",
		"O que você espera que um curso de UX te ensine além de simplesmente mexer nas ferramentas?",
		"Como você busca empatia com os usuários dos produtos que você desenha?",
		"Qual a sua maior dúvida sobre o dia a dia de um profissional de UX?",
		"Se você pudesse redesenhar qualquer produto digital que usa hoje, qual seria e por onde você começaria?",
	},
	"Data Analytics": {
		"O que te fez querer trabalhar com dados? Foi a paixão por números, por tecnologia ou por negócios?",
		"Qual é a sua maior dificuldade ao começar a aprender uma linguagem como Python ou SQL?",
		"Descreva um momento em que você olhou para um conjunto de dados e se sentiu 'perdido(a)'.",
		"O que você acha mais fascinante em análise de dados: criar visualizações (gráficos) ou encontrar padrões escondidos?",
		"Qual a sua maior preocupação sobre o futuro da carreira de análise de dados com a chegada das IAs?",
		"Como você pretende usar a análise de dados para gerar impacto em uma empresa?",
		"O que você busca em um curso de dados além de apenas a teoria matemática e estatística?",
		"Como você lida com uma base de dados 'suja' ou incompleta?",
		"Qual tipo de problema de negócio você mais gostaria de resolver usando dados?",
		"Se você pudesse ter um mentor na área de dados, qual seria a primeira pergunta que você faria?",
	},
}
