package llm

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nvasko/loom/internal/chain"
	"github.com/nvasko/loom/internal/config"
)

func createModel(preset config.ModelPreset) (llms.Model, error) {
	var model llms.Model
	var err error

	switch preset.Provider {
	case "openai":
		model, err = openai.New(
			openai.WithModel(preset.Name),
		)
	case "anthropic":
		model, err = anthropic.New(
			anthropic.WithModel(preset.Name),
		)
	case "googleai":
		model, err = googleai.New(
			context.Background(),
			googleai.WithDefaultModel(preset.Name),
			googleai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
		)
	default:
		return nil, errors.Errorf("unsupported provider: %s", preset.Provider)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s client", preset.Provider)
	}

	return model, nil
}

// Completion builds a chain.CompletionFunc backed by the configured provider.
// Each call sends the rendered prompt as a single human message; chaining
// context travels inside the prompt itself, not as conversation history.
func Completion(preset config.ModelPreset) (chain.CompletionFunc, error) {
	model, err := createModel(preset)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, prompt string) (string, error) {
		msgs := []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		}

		resp, err := model.GenerateContent(ctx, msgs,
			llms.WithTemperature(preset.Temperature),
			llms.WithMaxTokens(preset.MaxTokens),
		)
		if err != nil {
			return "", errors.Wrap(err, "completion failed")
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no response choices returned")
		}

		return resp.Choices[0].Content, nil
	}, nil
}
