package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/dialogue"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
)

type fakeRecognizer struct {
	byData map[string][]dialogue.Fragment
	errs   map[string]error
	calls  int
}

func (f *fakeRecognizer) Name() string { return "fake" }

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) ([]dialogue.Fragment, error) {
	f.calls++
	key := string(image)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.byData[key], nil
}

type fakeSummarizer struct {
	out  string
	err  error
	seen string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	f.seen = transcript
	return f.out, f.err
}

// pngBytes encodes a blank PNG; the tag makes each image's bytes distinct.
func pngBytes(t *testing.T, width int, tag byte) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, 10))
	img.Pix[0] = tag
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Input:    filepath.Join(dir, "input"),
			Output:   filepath.Join(dir, "output"),
			Archived: filepath.Join(dir, "archived"),
			Temp:     filepath.Join(dir, "temp"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quietLogger() logger.Logger {
	return logger.NewWithWriter("error", logger.FormatText, io.Discard)
}

var chatFragments = []dialogue.Fragment{
	{Text: "你好", Top: 0, Left: 0, Width: 40, Height: 20},
	{Text: "在吗", Top: 25, Left: 0, Width: 40, Height: 20},
	{Text: "在的", Top: 60, Left: 200, Width: 40, Height: 20},
}

func TestTranscribeBatch(t *testing.T) {
	good := pngBytes(t, 300, 1)
	empty := pngBytes(t, 300, 2)
	broken := pngBytes(t, 300, 3)

	rec := &fakeRecognizer{
		byData: map[string][]dialogue.Fragment{
			string(good):  chatFragments,
			string(empty): {{Text: "14:05", Top: 0, Left: 130, Width: 40, Height: 12}},
		},
		errs: map[string]error{string(broken): errors.New("baidu ocr error 17: Open api daily request limit reached")},
	}
	p := New(testConfig(t), rec, nil, quietLogger())

	var progressed []int
	batch, err := p.Transcribe(context.Background(), []ImageInput{
		{Filename: "a.png", Data: good},
		{Filename: "b.png", Data: broken},
		{Filename: "c.png", Data: empty},
		{Filename: "d.png", Data: []byte("not an image")},
	}, func(done, total int, r ImageResult) {
		if total != 4 {
			t.Errorf("progress total = %d", total)
		}
		progressed = append(progressed, done)
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	want := "--- 图1：a.png ---\n【对方】: 你好 在吗\n【我】: 在的\n\n" +
		"--- 图2：b.png ---\n（OCR 失败：baidu ocr error 17: Open api daily request limit reached）\n\n" +
		"--- 图3：c.png ---\n" + EmptyDialoguePlaceholder + "\n\n" +
		"--- 图4：d.png ---\n（OCR 失败：decode image: image: unknown format）"
	if batch.Transcript != want {
		t.Errorf("Transcript =\n%s\nwant\n%s", batch.Transcript, want)
	}
	if batch.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", batch.Failed())
	}
	if len(progressed) != 4 || progressed[3] != 4 {
		t.Errorf("progress calls = %v", progressed)
	}
	if rec.calls != 3 {
		t.Errorf("recognizer called %d times, want 3 (undecodable image skipped)", rec.calls)
	}
}

func TestTranscribeCancelled(t *testing.T) {
	p := New(testConfig(t), &fakeRecognizer{}, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Transcribe(ctx, []ImageInput{{Filename: "a.png", Data: pngBytes(t, 10, 0)}}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Transcribe() error = %v, want context.Canceled", err)
	}
}

func TestRenderBatch(t *testing.T) {
	if got := RenderBatch(nil); got != "" {
		t.Errorf("RenderBatch(nil) = %q", got)
	}
	got := RenderBatch([]ImageResult{{Index: 1, Filename: "x.jpg", Dialogue: "   "}})
	if got != "--- 图1：x.jpg ---\n"+EmptyDialoguePlaceholder {
		t.Errorf("RenderBatch() = %q", got)
	}
}

func TestSortByFilename(t *testing.T) {
	images := []ImageInput{{Filename: "b.png"}, {Filename: "C.png"}, {Filename: "A.png"}}
	SortByFilename(images)

	var names []string
	for _, img := range images {
		names = append(names, img.Filename)
	}
	if strings.Join(names, ",") != "A.png,b.png,C.png" {
		t.Errorf("SortByFilename() = %v", names)
	}
}

func TestAnalyze(t *testing.T) {
	sum := &fakeSummarizer{out: "\n### 👑 Sober Queen 诊断报告\n\n#### 📍 1. 情境定位\n正文"}
	p := New(testConfig(t), &fakeRecognizer{}, sum, quietLogger())

	got, err := p.Analyze(context.Background(), "  【对方】: 你好  ")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got != "#### 📍 1. 情境定位\n正文" {
		t.Errorf("Analyze() = %q", got)
	}
	if sum.seen != "【对方】: 你好" {
		t.Errorf("summarizer saw %q", sum.seen)
	}

	if _, err := p.Analyze(context.Background(), " \n "); !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("Analyze(blank) error = %v", err)
	}

	noSum := New(testConfig(t), &fakeRecognizer{}, nil, quietLogger())
	if _, err := noSum.Analyze(context.Background(), "x"); !errors.Is(err, ErrNoSummarizer) {
		t.Errorf("Analyze() without summarizer error = %v", err)
	}
}

func TestProcess(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.WriteDocx = true
	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		t.Fatal(err)
	}

	data := pngBytes(t, 300, 9)
	imagePath := filepath.Join(cfg.Paths.Input, "chat 01.png")
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		t.Fatal(err)
	}

	rec := &fakeRecognizer{byData: map[string][]dialogue.Fragment{string(data): chatFragments}}
	sum := &fakeSummarizer{out: "# 👑 诊断报告\nbody"}
	p := New(cfg, rec, sum, quietLogger())

	if err := p.Process(context.Background(), imagePath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	transcript, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "chat 01.txt"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if !strings.Contains(string(transcript), "【对方】: 你好 在吗\n【我】: 在的") {
		t.Errorf("transcript = %q", transcript)
	}

	md, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "chat 01.md"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(md), "# 诊断报告：chat 01") || !strings.HasSuffix(string(md), "\n\nbody\n") {
		t.Errorf("report = %q", md)
	}

	for _, name := range []string{"chat 01.docx", "chat 01.transcript.docx"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.Output, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "chat 01.png")); err != nil {
		t.Errorf("screenshot not archived: %v", err)
	}
}

func TestProcessKeepsFailedScreenshot(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		t.Fatal(err)
	}
	data := pngBytes(t, 300, 4)
	imagePath := filepath.Join(cfg.Paths.Input, "bad.png")
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		t.Fatal(err)
	}

	rec := &fakeRecognizer{errs: map[string]error{string(data): errors.New("boom")}}
	p := New(cfg, rec, nil, quietLogger())

	if err := p.Process(context.Background(), imagePath); err == nil {
		t.Fatal("Process() error = nil, want OCR failure")
	}
	if _, err := os.Stat(imagePath); err != nil {
		t.Errorf("failed screenshot should stay in input: %v", err)
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"b.JPG", true},
		{"c.webp", true},
		{"d.mp4", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsImageFile(tt.path); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
