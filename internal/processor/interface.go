package processor

import "context"

// ProgressFunc is called after each image of a batch finishes, successfully or not.
type ProgressFunc func(done, total int, result ImageResult)

// Processor turns chat screenshots into transcripts and reports.
type Processor interface {
	// Transcribe processes images in the given order, one at a time. A
	// failed image never stops the rest of the batch.
	Transcribe(ctx context.Context, images []ImageInput, progress ProgressFunc) (Batch, error)
	// Analyze summarizes a transcript and strips the duplicated title.
	Analyze(ctx context.Context, transcript string) (string, error)
	// Process handles a single screenshot file dropped into the input folder.
	Process(ctx context.Context, imagePath string) error
}
