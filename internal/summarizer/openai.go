package summarizer

import (
	"context"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures any OpenAI-compatible chat completion endpoint,
// DeepSeek by default.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type implOpenAI struct {
	cli         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAI creates a Summarizer backed by the chat completions API.
func NewOpenAI(opt OpenAIOptions) Summarizer {
	clientConfig := openai.DefaultConfig(opt.APIKey)
	if opt.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(opt.BaseURL, "/")
	}
	temperature := opt.Temperature
	if temperature == 0 {
		// the request field is omitempty; the smallest float32 still reaches the API as 0
		temperature = math.SmallestNonzeroFloat32
	}
	return &implOpenAI{
		cli:         openai.NewClientWithConfig(clientConfig),
		model:       opt.Model,
		temperature: temperature,
		timeout:     opt.Timeout,
	}
}

func (s *implOpenAI) Summarize(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
	}

	resp, err := s.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
