package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autoquiz/internal/domain"
	"autoquiz/internal/logger"

	"go.uber.org/zap"
)

// IngestionService turns free-form source text into a structured quiz draft
// using a generative text model.
type IngestionService interface {
	ExtractQuiz(ctx context.Context, content string, titleHint string) (*domain.QuizDraft, error)
}

type ingestionServiceImpl struct {
	generator domain.TextGenerator
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(generator domain.TextGenerator) IngestionService {
	return &ingestionServiceImpl{generator: generator}
}

type extractedQuestion struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex *int     `json:"correct_answer_index"`
}

type extractedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []extractedQuestion `json:"questions"`
}

// ExtractQuiz prompts the model for a quiz over the given content, repairs the
// response into valid JSON, and validates the result as a draft.
func (s *ingestionServiceImpl) ExtractQuiz(ctx context.Context, content string, titleHint string) (*domain.QuizDraft, error) {
	log := logger.Get()

	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("text", "content cannot be empty")
	}

	prompt := buildExtractionPrompt(content, titleHint)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	repaired := RepairJSON(response)
	if repaired == "" {
		log.Warn("LLM response contained no JSON object", zap.Int("response_length", len(response)))
		return nil, domain.NewIngestionError("model response did not contain a quiz", nil)
	}

	var extracted extractedQuiz
	if err := json.Unmarshal([]byte(repaired), &extracted); err != nil {
		log.Warn("Failed to parse repaired LLM response", zap.Error(err))
		return nil, domain.NewIngestionError("model response was not valid JSON", err)
	}

	if strings.TrimSpace(extracted.Title) == "" {
		log.Warn("Model response carried no quiz title")
		return nil, domain.NewIngestionError("extracted quiz has no title", nil)
	}

	draft := toDraft(extracted)
	if err := draft.Validate(); err != nil {
		log.Warn("Extracted quiz failed validation", zap.Error(err))
		return nil, domain.NewIngestionError("extracted quiz is not a valid draft", err)
	}

	log.Info("Extracted quiz from source text",
		zap.String("title", draft.Title),
		zap.Int("question_count", len(draft.Questions)),
	)
	return draft, nil
}

func toDraft(extracted extractedQuiz) *domain.QuizDraft {
	questions := make([]domain.Question, 0, len(extracted.Questions))
	for _, q := range extracted.Questions {
		// The model sometimes omits the answer index; treat that as "first
		// option is correct" rather than rejecting the whole quiz.
		index := 0
		if q.CorrectAnswerIndex != nil {
			index = *q.CorrectAnswerIndex
		}
		questions = append(questions, domain.Question{
			Text:               strings.TrimSpace(q.Text),
			Options:            q.Options,
			CorrectAnswerIndex: index,
		})
	}

	return &domain.QuizDraft{
		Title:       strings.TrimSpace(extracted.Title),
		Description: strings.TrimSpace(extracted.Description),
		Questions:   questions,
	}
}

func buildExtractionPrompt(content string, titleHint string) string {
	var sb strings.Builder
	sb.WriteString("You are a quiz author. Create a multiple-choice quiz from the study material below.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Each question must have between 2 and 4 answer options.\n")
	sb.WriteString("- Exactly one option is correct; set correct_answer_index to its zero-based position.\n")
	sb.WriteString("- Base every question strictly on the material. Do not invent facts.\n")
	if strings.TrimSpace(titleHint) != "" {
		fmt.Fprintf(&sb, "- Use %q as the quiz title unless the material suggests a clearly better one.\n", titleHint)
	}
	sb.WriteString("\nRespond with ONLY a JSON object in this exact format, with no surrounding text:\n")
	sb.WriteString(`{
  "title": "Quiz title",
  "description": "One sentence describing the quiz",
  "questions": [
    {
      "text": "Question text",
      "options": ["Option A", "Option B", "Option C"],
      "correct_answer_index": 0
    }
  ]
}`)
	sb.WriteString("\n\nStudy material:\n---\n")
	sb.WriteString(content)
	sb.WriteString("\n---\n")
	return sb.String()
}
