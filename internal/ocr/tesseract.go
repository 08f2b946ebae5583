package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/chat-transcript/internal/dialogue"
	"github.com/nguyentantai21042004/chat-transcript/pkg/executor"
)

// wordLevel is the tesseract TSV level of a single recognized word.
const wordLevel = 5

// TesseractOptions configures the local tesseract engine.
type TesseractOptions struct {
	BinaryPath string
	Language   string
	TempDir    string
	Timeout    time.Duration
}

// Tesseract runs the tesseract CLI and groups its TSV words into lines.
type Tesseract struct {
	exec executor.Executor
	opt  TesseractOptions
}

func NewTesseract(exec executor.Executor, opt TesseractOptions) *Tesseract {
	return &Tesseract{exec: exec, opt: opt}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]dialogue.Fragment, error) {
	if t.opt.TempDir != "" {
		if err := os.MkdirAll(t.opt.TempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(t.opt.TempDir, "ocr-*.img")
	if err != nil {
		return nil, fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp image: %w", err)
	}

	if t.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opt.Timeout)
		defer cancel()
	}

	out, err := t.exec.Execute(ctx, t.opt.BinaryPath, tmp.Name(), "stdout", "-l", t.opt.Language, "tsv")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("tesseract: %w: %v", ErrTimeout, err)
		}
		return nil, &Error{Provider: "tesseract", Op: "ocr", Msg: err.Error()}
	}

	return parseTSV(out), nil
}

type lineKey struct {
	page, block, par, line int
}

type lineBox struct {
	words                    []string
	left, top, right, bottom int
}

// parseTSV merges word rows into one fragment per tesseract line, using the
// union of the word boxes. Rows are kept in tesseract's own order.
func parseTSV(tsv string) []dialogue.Fragment {
	var order []lineKey
	boxes := make(map[lineKey]*lineBox)

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 || strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(cols) < 12 {
			continue
		}
		nums, ok := atoiAll(cols[:10])
		if !ok || nums[0] != wordLevel {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}

		key := lineKey{nums[1], nums[2], nums[3], nums[4]}
		left, top, width, height := nums[6], nums[7], nums[8], nums[9]
		box, seen := boxes[key]
		if !seen {
			box = &lineBox{left: left, top: top, right: left + width, bottom: top + height}
			boxes[key] = box
			order = append(order, key)
		}
		box.words = append(box.words, text)
		box.left = min(box.left, left)
		box.top = min(box.top, top)
		box.right = max(box.right, left+width)
		box.bottom = max(box.bottom, top+height)
	}

	frags := make([]dialogue.Fragment, 0, len(order))
	for _, key := range order {
		box := boxes[key]
		if box.right <= box.left || box.bottom <= box.top {
			continue
		}
		frags = append(frags, dialogue.Fragment{
			Text:   joinWords(box.words),
			Top:    box.top,
			Left:   box.left,
			Width:  box.right - box.left,
			Height: box.bottom - box.top,
		})
	}
	return frags
}

// joinWords separates words with a space, except between Han characters.
func joinWords(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(words[i-1])
			next, _ := utf8.DecodeRuneInString(w)
			if !unicode.Is(unicode.Han, prev) || !unicode.Is(unicode.Han, next) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w)
	}
	return b.String()
}

func atoiAll(cols []string) ([]int, bool) {
	nums := make([]int, len(cols))
	for i, c := range cols {
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}
