package processor

import (
	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
	"github.com/nguyentantai21042004/chat-transcript/internal/ocr"
	"github.com/nguyentantai21042004/chat-transcript/internal/report"
	"github.com/nguyentantai21042004/chat-transcript/internal/summarizer"
)

type implProcessor struct {
	cfg        *config.Config
	recognizer ocr.Recognizer
	summarizer summarizer.Summarizer
	sanitizer  report.Sanitizer
	logger     logger.Logger
	sem        *semaphore
}

// New creates a new Processor instance. sum may be nil, in which case
// Analyze fails and Process only writes transcripts.
func New(cfg *config.Config, rec ocr.Recognizer, sum summarizer.Summarizer, log logger.Logger) Processor {
	capacity := cfg.Performance.MaxConcurrent
	if capacity <= 0 {
		capacity = 1
	}
	return &implProcessor{
		cfg:        cfg,
		recognizer: rec,
		summarizer: sum,
		sanitizer:  report.NewSanitizer(cfg.Report.TitleMarker, cfg.Report.BrandTokens),
		logger:     log,
		sem:        newSemaphore(capacity),
	}
}
