// internal/server/handlers_assistant.go
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"francis-backend/internal/common/errors"
	"francis-backend/internal/common/metrics"
	"francis-backend/internal/extraction"
	"francis-backend/internal/models"
)

type AssistantHandler struct {
	container *Container
}

func NewAssistantHandler(c *Container) *AssistantHandler {
	return &AssistantHandler{container: c}
}

type askRequest struct {
	Question            string               `json:"question"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
}

// Ask forwards a question to the assistant with bounded history.
func (h *AssistantHandler) Ask(ctx *fiber.Ctx) error {
	var req askRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if strings.TrimSpace(req.Question) == "" {
		return errors.NewValidationFailedError("question est requise")
	}

	answer, err := h.container.Francis.Ask(ctx.UserContext(), req.Question, req.ConversationHistory, nil)
	if err != nil {
		metrics.AssistantRequests.WithLabelValues("ask", "error").Inc()
		return errors.NewAssistantFailedError(err)
	}

	metrics.AssistantRequests.WithLabelValues("ask", "ok").Inc()
	return ctx.JSON(fiber.Map{"answer": answer.Text})
}

type analyzeTextRequest struct {
	Text         string   `json:"text"`
	Context      []string `json:"context"`
	QuestionType string   `json:"question_type"`
	ExtractAll   bool     `json:"extract_all"`
}

// AnalyzeProfileText runs one free-text fragment through the extraction
// pipeline: keyword rules first, the semantic extractor second, free-text
// storage as the last resort. Ambiguity is a degraded success, never a 4xx.
func (h *AssistantHandler) AnalyzeProfileText(ctx *fiber.Ctx) error {
	var req analyzeTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return errors.NewValidationFailedError("text est requis")
	}
	if req.QuestionType != "" {
		if _, ok := h.container.Questionnaire.ByID(req.QuestionType); !ok {
			return errors.NewUnknownQuestionError(req.QuestionType)
		}
	}

	answers := models.NewProfileAnswers()
	outcome := h.container.Pipeline.Process(ctx.UserContext(), answers, req.QuestionType, req.Text, req.Context)

	data := fiber.Map{}
	for _, questionID := range outcome.AppliedQuestions {
		if value, ok := answers.Get(questionID); ok {
			if len(value.Multi) > 0 {
				data[questionID] = value.Multi
			} else {
				data[questionID] = value.Single
			}
		}
	}
	if outcome.Source == extraction.SourceLibre {
		if libre, ok := answers.GetLibre(req.QuestionType); ok {
			data[req.QuestionType+"_libre"] = libre
		}
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"source":  outcome.Source,
		"advance": outcome.Advance,
		"data":    data,
	})
}
