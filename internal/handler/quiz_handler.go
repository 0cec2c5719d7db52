package handler

import (
	"io"

	"autoquiz/internal/domain"
	"autoquiz/internal/dto"
	"autoquiz/internal/service"
	"autoquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles HTTP requests for the quiz lifecycle.
type QuizHandler struct {
	quizService service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuiz godoc
// @Summary Create a new quiz
// @Description Creates a quiz in draft status and provisions an external form for it when the provider is available
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz to create"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}
	if err := validation.ValidateCreateQuizRequest(&req); err != nil {
		return err
	}

	quiz, err := h.quizService.CreateQuiz(c.Context(), toDraft(&req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toQuizResponse(quiz))
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Lists non-deleted quizzes, optionally filtered by status
// @Tags quizzes
// @Produce json
// @Param status query string false "Filter by status (draft or approved)"
// @Success 200 {array} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizService.ListQuizzes(c.Context(), c.Query("status"))
	if err != nil {
		return err
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, toQuizResponse(quiz))
	}
	return c.JSON(responses)
}

// GetQuiz godoc
// @Summary Get a quiz by ID
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuiz(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toQuizResponse(quiz))
}

// ApproveQuiz godoc
// @Summary Approve a draft quiz
// @Description Approves the quiz and emails the form link to all recipients. The quiz stays in draft if the mail cannot be sent.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.ApproveQuizRequest true "Invitation recipients"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/quizzes/{id}/approve [post]
func (h *QuizHandler) ApproveQuiz(c *fiber.Ctx) error {
	var req dto.ApproveQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return err
	}

	quiz, err := h.quizService.ApproveQuiz(c.Context(), c.Params("id"), req.Recipients)
	if err != nil {
		return err
	}
	return c.JSON(toQuizResponse(quiz))
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Soft-deletes the quiz. Deleted quizzes disappear from reads.
// @Tags quizzes
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuiz(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFormQuestions godoc
// @Summary Get the question set of an external form
// @Tags forms
// @Produce json
// @Param formId path string true "External form ID"
// @Success 200 {array} dto.QuestionPayload
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/forms/{formId}/questions [get]
func (h *QuizHandler) GetFormQuestions(c *fiber.Ctx) error {
	questions, err := h.quizService.GetFormQuestions(c.Context(), c.Params("formId"))
	if err != nil {
		return err
	}

	payload := make([]dto.QuestionPayload, 0, len(questions))
	for _, q := range questions {
		payload = append(payload, dto.QuestionPayload{
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
		})
	}
	return c.JSON(payload)
}

// CreateQuizFromText godoc
// @Summary Create a quiz from free-form text
// @Description Extracts a multiple-choice quiz from study material using a generative model
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.QuizTextRequest true "Source text"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/quizzes/from-text [post]
func (h *QuizHandler) CreateQuizFromText(c *fiber.Ctx) error {
	var req dto.QuizTextRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return err
	}

	quiz, err := h.quizService.CreateQuizFromText(c.Context(), req.Text, req.SuggestedTitle)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toQuizResponse(quiz))
}

// CreateQuizFromFile godoc
// @Summary Create a quiz from an uploaded document
// @Description Accepts a .txt or .md file and extracts a quiz from its contents
// @Tags quizzes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Source document (.txt or .md)"
// @Param suggested_title formData string false "Title hint for the generated quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quizzes/from-file [post]
func (h *QuizHandler) CreateQuizFromFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "a file upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	quiz, err := h.quizService.CreateQuizFromFile(c.Context(), fileHeader.Filename, content, c.FormValue("suggested_title"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toQuizResponse(quiz))
}

func toDraft(req *dto.CreateQuizRequest) *domain.QuizDraft {
	questions := make([]domain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, domain.Question{
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
		})
	}
	return &domain.QuizDraft{
		Title:       req.Title,
		Description: req.Description,
		Questions:   questions,
	}
}

func toQuizResponse(quiz *domain.Quiz) dto.QuizResponse {
	questions := make([]dto.QuestionPayload, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, dto.QuestionPayload{
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
		})
	}
	return dto.QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Status:      string(quiz.Status),
		FormID:      quiz.FormID,
		FormURL:     quiz.FormURL,
		Questions:   questions,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
}
