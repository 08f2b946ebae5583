package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
)

// New builds the Summarizer selected by cfg.LLM.Provider.
func New(cfg *config.Config, log logger.Logger) (Summarizer, error) {
	if err := cfg.RequireLLMCredentials(); err != nil {
		return nil, err
	}

	switch cfg.LLM.Provider {
	case config.LLMProviderGemini:
		return NewGemini(cfg.LLM.APIKeys, cfg.LLM.Model, cfg.LLM.SamplingTemperature(), cfg.LLM.Timeout, log), nil
	case config.LLMProviderDeepSeek:
		return NewOpenAI(OpenAIOptions{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.SamplingTemperature(),
			Timeout:     cfg.LLM.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

const defaultTimeout = 120 * time.Second

// callContext bounds one provider call.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// classify tags deadline failures with ErrTimeout.
func classify(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
