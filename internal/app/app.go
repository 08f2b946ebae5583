package app

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
	"github.com/nguyentantai21042004/chat-transcript/internal/ocr"
	"github.com/nguyentantai21042004/chat-transcript/internal/processor"
	"github.com/nguyentantai21042004/chat-transcript/internal/summarizer"
	"github.com/nguyentantai21042004/chat-transcript/pkg/executor"
)

// NewProcessor wires the OCR and summarizer collaborators chosen in cfg.
// A missing LLM key is not fatal: transcripts still work without reports.
func NewProcessor(ctx context.Context, cfg *config.Config, log logger.Logger) (processor.Processor, error) {
	rec, err := ocr.New(cfg, executor.New())
	if err != nil {
		return nil, fmt.Errorf("init ocr: %w", err)
	}

	sum, err := summarizer.New(cfg, log)
	if err != nil {
		log.Warn(ctx, "Reports disabled: %v", err)
		sum = nil
	}

	log.Info(ctx, "OCR provider: %s, LLM provider: %s (%s)", rec.Name(), cfg.LLM.Provider, cfg.LLM.Model)
	return processor.New(cfg, rec, sum, log), nil
}

// EnsureDirectories creates required directories if they don't exist
func EnsureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
