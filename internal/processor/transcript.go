package processor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nguyentantai21042004/chat-transcript/internal/dialogue"
)

const (
	// EmptyDialoguePlaceholder replaces an image that produced no dialogue.
	EmptyDialoguePlaceholder = "（本图未识别到可用对话：可能是时间戳/系统提示或识别不到位置数据）"
	failurePlaceholder       = "（OCR 失败：%v）"
	imageHeader              = "--- 图%d：%s ---"
)

// ImageInput is one uploaded screenshot.
type ImageInput struct {
	Filename string
	Data     []byte
}

// ImageResult is the outcome for one screenshot: a dialogue or a failure.
type ImageResult struct {
	Index    int
	Filename string
	Dialogue string
	Err      error
}

// Render formats the result as a header followed by its dialogue or a placeholder.
func (r ImageResult) Render() string {
	body := r.Dialogue
	switch {
	case r.Err != nil:
		body = fmt.Sprintf(failurePlaceholder, r.Err)
	case strings.TrimSpace(body) == "":
		body = EmptyDialoguePlaceholder
	}
	return fmt.Sprintf(imageHeader, r.Index, r.Filename) + "\n" + body
}

// Batch holds per-image results and their rendered transcript.
type Batch struct {
	Results    []ImageResult
	Transcript string
}

// Failed counts images whose OCR failed.
func (b Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// RenderBatch joins rendered results with a blank line between images.
func RenderBatch(results []ImageResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, r.Render())
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// SortByFilename orders images by case-insensitive filename.
func SortByFilename(images []ImageInput) {
	slices.SortStableFunc(images, func(a, b ImageInput) int {
		return strings.Compare(strings.ToLower(a.Filename), strings.ToLower(b.Filename))
	})
}

func (p *implProcessor) Transcribe(ctx context.Context, images []ImageInput, progress ProgressFunc) (Batch, error) {
	if !p.sem.tryAcquire() {
		p.logger.Info(ctx, "All %d OCR slots busy, waiting...", cap(p.sem.ch))
		if err := p.sem.acquire(ctx); err != nil {
			return Batch{}, err
		}
	}
	defer p.sem.release()

	results := make([]ImageResult, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}

		p.logger.Info(ctx, "[%d/%d] Extracting dialogue: %s", i+1, len(images), img.Filename)
		res := ImageResult{Index: i + 1, Filename: img.Filename}
		res.Dialogue, res.Err = p.transcribeImage(ctx, img.Data)
		if res.Err != nil {
			p.logger.Error(ctx, "OCR failed for %s: %v", img.Filename, res.Err)
		}
		results = append(results, res)

		if progress != nil {
			progress(i+1, len(images), res)
		}
	}

	return Batch{Results: results, Transcript: RenderBatch(results)}, nil
}

func (p *implProcessor) transcribeImage(ctx context.Context, data []byte) (string, error) {
	width, err := imageWidth(data)
	if err != nil {
		return "", err
	}

	fragments, err := p.recognizer.Recognize(ctx, data)
	if err != nil {
		return "", err
	}
	p.logger.Debug(ctx, "%s returned %d fragments (image width %d)", p.recognizer.Name(), len(fragments), width)

	return dialogue.ReconstructText(fragments, width), nil
}
