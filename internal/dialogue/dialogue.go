package dialogue

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"
)

// Speaker identifies who sent a bubble.
type Speaker string

const (
	SpeakerOther Speaker = "对方"
	SpeakerSelf  Speaker = "我"
)

// minProximity is the smallest vertical gap, in pixels, that still splits bubbles.
const minProximity = 6

// Fragment is one OCR-recognized text run with its bounding box in image
// coordinates (origin top-left, y grows downward).
type Fragment struct {
	Text   string `json:"text"`
	Top    int    `json:"top"`
	Left   int    `json:"left"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Bottom returns the y coordinate just below the fragment.
func (f Fragment) Bottom() int {
	return f.Top + f.Height
}

// CenterX returns the horizontal center of the fragment.
func (f Fragment) CenterX() float64 {
	return float64(f.Left) + float64(f.Width)/2
}

// Line is one speaker-attributed bubble.
type Line struct {
	Speaker Speaker
	Content string
}

func (l Line) String() string {
	return strings.TrimRightFunc(fmt.Sprintf("【%s】: %s", l.Speaker, l.Content), unicode.IsSpace)
}

// state is the running accumulator of one reconstruction.
type state struct {
	lastSpeaker    Speaker
	lastBottom     int
	lastLineHeight int
	// horizontal extent of the open bubble, [bubbleLeft, bubbleRight)
	bubbleLeft  int
	bubbleRight int
	lines       []Line
}

// Reconstruct orders fragments into reading order and folds them into
// speaker-attributed lines.
func Reconstruct(fragments []Fragment, imageWidth int) []Line {
	sorted := slices.Clone(fragments)
	slices.SortFunc(sorted, compareReadingOrder)

	var st state
	for _, f := range sorted {
		st.add(f, imageWidth)
	}
	return st.lines
}

// Render joins lines as 【speaker】: content, one per line.
func Render(lines []Line) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.String())
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// ReconstructText is Reconstruct followed by Render.
func ReconstructText(fragments []Fragment, imageWidth int) string {
	return Render(Reconstruct(fragments, imageWidth))
}

// ClassifySpeaker attributes a new bubble by which half of the image its
// center falls in. The exact midpoint belongs to self.
func ClassifySpeaker(f Fragment, imageWidth int) Speaker {
	if f.CenterX() < float64(imageWidth)/2 {
		return SpeakerOther
	}
	return SpeakerSelf
}

func (s *state) add(f Fragment, imageWidth int) {
	if IsTimestamp(f.Text) {
		s.lastSpeaker = ""
		s.lastBottom = f.Bottom()
		s.lastLineHeight = f.Height
		return
	}

	if s.continues(f) {
		s.appendContinuation(f.Text)
		s.bubbleLeft = min(s.bubbleLeft, f.Left)
		s.bubbleRight = max(s.bubbleRight, f.Left+f.Width)
	} else {
		speaker := ClassifySpeaker(f, imageWidth)
		s.lines = append(s.lines, Line{Speaker: speaker, Content: f.Text})
		s.lastSpeaker = speaker
		s.bubbleLeft = f.Left
		s.bubbleRight = f.Left + f.Width
	}

	s.lastBottom = max(s.lastBottom, f.Bottom())
	s.lastLineHeight = f.Height
}

// continues reports whether f is a wrapped line of the current bubble: the
// gap above it is small and non-negative, and it shares some columns with
// the bubble. A short last line keeps the bubble's speaker even when its
// center falls on the other half of the image.
// Overlapping boxes (negative gap) always start a new bubble.
func (s *state) continues(f Fragment) bool {
	if s.lastSpeaker == "" {
		return false
	}
	if f.Left >= s.bubbleRight || f.Left+f.Width <= s.bubbleLeft {
		return false
	}
	gap := f.Top - s.lastBottom
	return gap >= 0 && gap < s.proximityThreshold(f.Height)
}

// proximityThreshold is the largest gap still read as a wrapped line inside
// the same bubble.
func (s *state) proximityThreshold(height int) int {
	ref := height
	if s.lastLineHeight != 0 {
		ref = min(s.lastLineHeight, height)
	}
	return max(minProximity, int(math.Round(0.9*float64(ref))))
}

func (s *state) appendContinuation(text string) {
	last := &s.lines[len(s.lines)-1]
	last.Content = strings.TrimSpace(last.Content + " " + text)
}

// compareReadingOrder sorts by (top, left). Remaining fields only make the
// order total so that input permutation never changes the output.
func compareReadingOrder(a, b Fragment) int {
	return cmp.Or(
		cmp.Compare(a.Top, b.Top),
		cmp.Compare(a.Left, b.Left),
		cmp.Compare(a.Width, b.Width),
		cmp.Compare(a.Height, b.Height),
		strings.Compare(a.Text, b.Text),
	)
}
