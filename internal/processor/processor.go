package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Process runs one screenshot through OCR, reconstruction and, when a
// summarizer is configured, the report.
func (p *implProcessor) Process(ctx context.Context, imagePath string) error {
	startTime := time.Now()
	filename := filepath.Base(imagePath)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting screenshot processing: %s", imagePath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Read screenshot
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read screenshot: %w", err)
	}

	// Step 2: OCR and dialogue reconstruction
	batch, err := p.Transcribe(ctx, []ImageInput{{Filename: filename, Data: data}}, nil)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if batch.Failed() > 0 {
		// leave the screenshot in place so it can be retried
		return fmt.Errorf("ocr %s: %w", filename, batch.Results[0].Err)
	}

	transcriptPath, err := p.writeTranscript(ctx, stem, batch.Transcript)
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	// Step 3: Report
	reportPath := ""
	if p.summarizer == nil {
		p.logger.Warn(ctx, "No summarizer configured, skipping report for %s", filename)
	} else if strings.TrimSpace(batch.Results[0].Dialogue) == "" {
		p.logger.Warn(ctx, "No dialogue found in %s, skipping report", filename)
	} else {
		report, err := p.Analyze(ctx, batch.Transcript)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		reportPath, err = p.writeReport(ctx, stem, report)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	// Step 4: Move original screenshot to archived folder
	if err := p.moveToArchived(ctx, imagePath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %s", transcriptPath)
	if reportPath != "" {
		p.logger.Info(ctx, "Report: %s", reportPath)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}
