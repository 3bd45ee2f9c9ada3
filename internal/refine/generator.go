package refine

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Generator produces refined text from a user prompt. Stream yields
// incremental fragments in arrival order and ends either cleanly or with a
// single error element; Complete is the non-streaming variant.
type Generator interface {
	Stream(ctx context.Context, prompt string) func(yield func(string, error) bool)
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator backs the relay with the OpenAI chat completions API.
// Streaming goes through openai-go; the single-shot path goes through
// langchaingo.
type OpenAIGenerator struct {
	client   openai.Client
	llm      *lcopenai.LLM
	settings Settings
}

func NewOpenAIGenerator(apiKey string, settings Settings) (*OpenAIGenerator, error) {
	llm, err := lcopenai.New(lcopenai.WithToken(apiKey), lcopenai.WithModel(settings.Model))
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}

	return &OpenAIGenerator{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		llm:      llm,
		settings: settings,
	}, nil
}

func (g *OpenAIGenerator) Stream(ctx context.Context, prompt string) func(yield func(string, error) bool) {
	return func(yield func(string, error) bool) {
		stream := g.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model: g.settings.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(g.settings.SystemPrompt),
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(g.settings.Temperature),
			MaxTokens:   openai.Int(int64(g.settings.MaxTokens)),
		})
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			if !yield(content, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("streaming completion failed: %w", err))
		}
	}
}

func (g *OpenAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.settings.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(g.settings.Temperature),
		llms.WithMaxTokens(g.settings.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Content, nil
}
