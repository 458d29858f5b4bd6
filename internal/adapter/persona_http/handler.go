package persona_http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

// PipelineFactory builds a question pipeline bound to one topic index. It
// fails when the index is nil, before any stage can run.
type PipelineFactory func(index domain.Retriever) (usecase.AnswerQuestionUsecase, error)

// Handler adapts the persona pipeline to the HTTP surface the UI consumes.
type Handler struct {
	loadCorpus  usecase.LoadCorpusUsecase
	buildIndex  usecase.BuildTopicIndexUsecase
	suggestions usecase.SuggestedQuestionsUsecase
	newPipeline PipelineFactory
	corpusDir   string
	personaFor  func(product string) string
	logger      *slog.Logger
}

func NewHandler(
	loadCorpus usecase.LoadCorpusUsecase,
	buildIndex usecase.BuildTopicIndexUsecase,
	suggestions usecase.SuggestedQuestionsUsecase,
	newPipeline PipelineFactory,
	corpusDir string,
	personaFor func(product string) string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		loadCorpus:  loadCorpus,
		buildIndex:  buildIndex,
		suggestions: suggestions,
		newPipeline: newPipeline,
		corpusDir:   corpusDir,
		personaFor:  personaFor,
		logger:      logger,
	}
}

// Register mounts the persona routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/v1/health", h.Health)
	e.GET("/v1/persona/suggestions", h.Suggestions)
	e.POST("/v1/persona/session", h.StartSession)
	e.POST("/v1/persona/answer", h.Answer)
}

func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SessionRequest selects the study area the persona represents.
type SessionRequest struct {
	ProductName string `json:"product_name"`
}

// SessionResponse bootstraps one interview session.
type SessionResponse struct {
	ProductName        string   `json:"product_name"`
	PersonaName        string   `json:"persona_name"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// StartSession loads the corpus, warms the topic index, and returns the
// persona name plus suggested interview questions for the product.
func (h *Handler) StartSession(ctx echo.Context) error {
	var req SessionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}
	if req.ProductName == "" {
		return ctx.JSON(http.StatusBadRequest, errorBody("product_name is required"))
	}

	reqCtx := ctx.Request().Context()
	corpus, err := h.loadCorpus.Execute(reqCtx, h.corpusDir)
	if err != nil {
		return h.writeError(ctx, err)
	}
	if corpus.IsEmpty() {
		return h.writeError(ctx, domain.ErrNoCorpusData)
	}
	if _, err := h.buildIndex.Execute(reqCtx, corpus, req.ProductName); err != nil {
		return h.writeError(ctx, err)
	}

	persona := h.personaFor(req.ProductName)
	return ctx.JSON(http.StatusOK, SessionResponse{
		ProductName:        req.ProductName,
		PersonaName:        persona,
		SuggestedQuestions: h.suggestions.Execute(reqCtx, persona, req.ProductName),
	})
}

// SuggestionsResponse carries interview questions for one product.
type SuggestionsResponse struct {
	ProductName        string   `json:"product_name"`
	PersonaName        string   `json:"persona_name"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// Suggestions returns interview questions for a product without touching the
// corpus or index; the generator falls back to a curated table on failure.
func (h *Handler) Suggestions(ctx echo.Context) error {
	product := ctx.QueryParam("product_name")
	if product == "" {
		return ctx.JSON(http.StatusBadRequest, errorBody("product_name is required"))
	}

	persona := h.personaFor(product)
	return ctx.JSON(http.StatusOK, SuggestionsResponse{
		ProductName:        product,
		PersonaName:        persona,
		SuggestedQuestions: h.suggestions.Execute(ctx.Request().Context(), persona, product),
	})
}

// AnswerRequest is one question turn against the persona.
type AnswerRequest struct {
	Question    string            `json:"question"`
	ChatHistory []domain.ChatTurn `json:"chat_history"`
	ProductName string            `json:"product_name"`
}

// AnswerDocument is a supporting document returned for provenance rendering.
type AnswerDocument struct {
	Text    string `json:"text"`
	Product string `json:"product"`
}

// AnswerDebug surfaces pipeline metadata that aids troubleshooting.
type AnswerDebug struct {
	RunID         string   `json:"run_id"`
	SearchQueries []string `json:"search_queries"`
}

// AnswerResponse carries the persona answer and its grounding.
type AnswerResponse struct {
	FinalAnswer string           `json:"final_answer"`
	Documents   []AnswerDocument `json:"documents"`
	Debug       AnswerDebug      `json:"debug"`
}

// Answer runs the three-stage pipeline for one question.
func (h *Handler) Answer(ctx echo.Context) error {
	var req AnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}
	if req.Question == "" || req.ProductName == "" {
		return ctx.JSON(http.StatusBadRequest, errorBody("question and product_name are required"))
	}

	reqCtx := ctx.Request().Context()
	corpus, err := h.loadCorpus.Execute(reqCtx, h.corpusDir)
	if err != nil {
		return h.writeError(ctx, err)
	}
	if corpus.IsEmpty() {
		return h.writeError(ctx, domain.ErrNoCorpusData)
	}

	index, err := h.buildIndex.Execute(reqCtx, corpus, req.ProductName)
	if err != nil {
		return h.writeError(ctx, err)
	}

	pipeline, err := h.newPipeline(index)
	if err != nil {
		return h.writeError(ctx, err)
	}

	output, err := pipeline.Execute(reqCtx, usecase.AnswerQuestionInput{
		Question:    req.Question,
		ChatHistory: req.ChatHistory,
		ProductName: req.ProductName,
		PersonaName: h.personaFor(req.ProductName),
	})
	if err != nil {
		return h.writeError(ctx, err)
	}

	documents := make([]AnswerDocument, 0, len(output.Documents))
	for _, doc := range output.Documents {
		documents = append(documents, AnswerDocument{Text: doc.Text, Product: doc.Product})
	}

	return ctx.JSON(http.StatusOK, AnswerResponse{
		FinalAnswer: output.FinalAnswer,
		Documents:   documents,
		Debug: AnswerDebug{
			RunID:         output.RunID,
			SearchQueries: output.SearchQueries,
		},
	})
}

// writeError maps the pipeline error taxonomy onto HTTP statuses.
func (h *Handler) writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCorpusData):
		return ctx.JSON(http.StatusUnprocessableEntity, errorBody("no valid corpus data"))
	case errors.Is(err, domain.ErrNoTopicData):
		return ctx.JSON(http.StatusNotFound, errorBody("no data for requested product"))
	case errors.Is(err, domain.ErrMalformedStructuredOutput):
		return ctx.JSON(http.StatusBadGateway, errorBody("query analysis returned a malformed shape"))
	case domain.IsProviderError(err):
		return ctx.JSON(http.StatusBadGateway, errorBody(err.Error()))
	default:
		h.logger.Error("request_failed", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
