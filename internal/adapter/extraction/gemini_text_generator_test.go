package extraction

import (
	"context"
	"errors"
	"testing"

	"autoquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// stubModel is a canned-response llms.Model.
type stubModel struct {
	response string
	err      error
	prompt   string
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			s.prompt = text.Text
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func TestGenerateReturnsModelOutput(t *testing.T) {
	model := &stubModel{response: `{"title": "Quiz"}`}
	generator, err := NewGeminiTextGenerator(model, zap.NewNop())
	require.NoError(t, err)

	out, err := generator.Generate(context.Background(), "make a quiz")

	require.NoError(t, err)
	assert.Equal(t, `{"title": "Quiz"}`, out)
	assert.Equal(t, "make a quiz", model.prompt)
}

func TestGenerateWrapsModelFailure(t *testing.T) {
	model := &stubModel{err: errors.New("quota exhausted")}
	generator, err := NewGeminiTextGenerator(model, zap.NewNop())
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "make a quiz")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeProviderError, domainErr.Code)
}

func TestNewGeminiTextGeneratorRequiresModel(t *testing.T) {
	_, err := NewGeminiTextGenerator(nil, zap.NewNop())
	assert.Error(t, err)
}
