package extraction

import (
	"context"
	"fmt"

	"autoquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// GeminiTextGenerator implements domain.TextGenerator over a langchaingo model.
// The model is constructed by the caller (see cmd/api) so it can be swapped
// for a test double.
type GeminiTextGenerator struct {
	llm    llms.Model
	logger *zap.Logger
}

// NewGeminiTextGenerator creates a new generator backed by the given model.
func NewGeminiTextGenerator(llm llms.Model, logger *zap.Logger) (domain.TextGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm model cannot be nil")
	}
	return &GeminiTextGenerator{llm: llm, logger: logger}, nil
}

// Generate submits the prompt and returns the raw model output. There is no
// retry; a provider outage surfaces as an immediate failure.
func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		g.logger.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewProviderError("text extraction", err)
	}

	g.logger.Debug("Raw LLM response received", zap.Int("length", len(response)))
	return response, nil
}

var _ domain.TextGenerator = (*GeminiTextGenerator)(nil)
