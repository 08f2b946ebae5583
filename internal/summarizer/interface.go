package summarizer

import (
	"context"
	"errors"
)

// Summarizer turns a reconstructed chat transcript into a markdown report.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

var (
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("empty response from summarizer")
	// ErrTimeout is returned when the provider does not answer in time.
	ErrTimeout = errors.New("summarizer request timed out")
)
