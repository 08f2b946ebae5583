package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSummarizer is returned by Analyze when no LLM provider is configured.
var ErrNoSummarizer = errors.New("summarizer is not configured")

// ErrEmptyTranscript is returned by Analyze for a blank transcript.
var ErrEmptyTranscript = errors.New("transcript is empty")

func (p *implProcessor) Analyze(ctx context.Context, transcript string) (string, error) {
	if p.summarizer == nil {
		return "", ErrNoSummarizer
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	p.logger.Info(ctx, "Requesting report for transcript (%d chars)", len([]rune(transcript)))
	raw, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return p.sanitizer.Sanitize(raw), nil
}
