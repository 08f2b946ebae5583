package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/chat-transcript/internal/report"
)

// writeTranscript writes <stem>.txt (and <stem>.transcript.docx when enabled) to the output folder
func (p *implProcessor) writeTranscript(ctx context.Context, stem, transcript string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(p.cfg.Paths.Output, stem+".txt")
	if err := os.WriteFile(path, []byte(transcript+"\n"), 0644); err != nil {
		return "", err
	}

	if p.cfg.Report.WriteDocx {
		docxPath := filepath.Join(p.cfg.Paths.Output, stem+".transcript.docx")
		if err := report.WriteTranscriptDocx("聊天记录："+stem, transcript, docxPath); err != nil {
			p.logger.Warn(ctx, "Failed to write transcript docx %s: %v", docxPath, err)
		}
	}
	return path, nil
}

// writeReport writes <stem>.md (and <stem>.docx when enabled) to the output folder
func (p *implProcessor) writeReport(ctx context.Context, stem, body string) (string, error) {
	title := "诊断报告：" + stem
	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n", title, time.Now().Format("2006-01-02 15:04"), body)

	path := filepath.Join(p.cfg.Paths.Output, stem+".md")
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", err
	}

	if p.cfg.Report.WriteDocx {
		docxPath := filepath.Join(p.cfg.Paths.Output, stem+".docx")
		if err := report.WriteDocx(title, body, docxPath); err != nil {
			p.logger.Warn(ctx, "Failed to write report docx %s: %v", docxPath, err)
		}
	}
	return path, nil
}

// moveToArchived moves the processed screenshot out of the input folder
func (p *implProcessor) moveToArchived(ctx context.Context, imagePath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(imagePath))

	p.logger.Info(ctx, "Archiving screenshot: %s -> %s", imagePath, destPath)

	if err := os.Rename(imagePath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}
