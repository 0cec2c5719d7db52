package validation

import (
	"testing"

	"autoquiz/internal/domain"
	"autoquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *dto.CreateQuizRequest {
	return &dto.CreateQuizRequest{
		Title: "Go Basics",
		Questions: []dto.QuestionPayload{
			{Text: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 1},
		},
	}
}

func TestValidateCreateQuizRequest(t *testing.T) {
	assert.NoError(t, ValidateCreateQuizRequest(validRequest()))
}

func TestValidateCreateQuizRequestFieldErrors(t *testing.T) {
	req := validRequest()
	req.Title = ""
	req.Questions[0].Options = []string{"only"}

	err := ValidateCreateQuizRequest(req)

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestValidateCreateQuizRequestIndexOutOfRange(t *testing.T) {
	req := validRequest()
	req.Questions[0].CorrectAnswerIndex = 2

	err := ValidateCreateQuizRequest(req)

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "questions[0].correct_answer_index", errs[0].Field)
}

func TestValidateCreateQuizRequestDuplicateOptions(t *testing.T) {
	req := validRequest()
	req.Questions[0].Options = []string{"same", "same"}

	assert.Error(t, ValidateCreateQuizRequest(req))
}

func TestValidateApproveQuizRequest(t *testing.T) {
	assert.NoError(t, ValidateStruct(&dto.ApproveQuizRequest{
		Recipients: []string{"alice@example.com"},
	}))

	assert.Error(t, ValidateStruct(&dto.ApproveQuizRequest{Recipients: nil}))
	assert.Error(t, ValidateStruct(&dto.ApproveQuizRequest{Recipients: []string{"not-an-email"}}))
}
