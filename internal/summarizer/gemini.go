package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
	"google.golang.org/genai"
)

type implGemini struct {
	mu          sync.Mutex
	apiKeys     []string
	currentKey  int
	logger      logger.Logger
	model       string
	temperature float32
	timeout     time.Duration
	baseURL     string
}

// NewGemini creates a Summarizer that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, temperature float32, timeout time.Duration, log logger.Logger) Summarizer {
	return &implGemini{
		apiKeys:     apiKeys,
		logger:      log,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// Summarize sends the transcript to Gemini and returns the report text.
// Rotates API keys on 429 / quota errors.
func (s *implGemini) Summarize(ctx context.Context, transcript string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	ctx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(s.temperature),
	}

	var lastErr error
	for range len(s.apiKeys) {
		key, idx := s.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      key,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(transcript), genCfg)
		if err != nil {
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", classify("generate content", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if out := strings.TrimSpace(text.String()); out != "" {
				return out, nil
			}
		}

		return "", ErrEmptyResponse
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *implGemini) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey advances past idx unless another call already did.
func (s *implGemini) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}
