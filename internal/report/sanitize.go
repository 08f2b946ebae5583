package report

import (
	"regexp"
	"strings"
)

const DefaultTitleMarker = "诊断报告"

var DefaultBrandTokens = []string{"Sober", "Queen", "👑"}

var reHeadingPrefix = regexp.MustCompile(`^#{1,6}\s+`)

// Sanitizer strips the report title the summarizer repeats at the top of its
// output, since the host renders its own heading.
type Sanitizer struct {
	TitleMarker string
	BrandTokens []string
}

// NewSanitizer falls back to the defaults for empty arguments.
func NewSanitizer(titleMarker string, brandTokens []string) Sanitizer {
	if titleMarker == "" {
		titleMarker = DefaultTitleMarker
	}
	if len(brandTokens) == 0 {
		brandTokens = DefaultBrandTokens
	}
	return Sanitizer{TitleMarker: titleMarker, BrandTokens: brandTokens}
}

// Sanitize removes at most one line: the first non-blank line, and only when
// it is a markdown heading naming the report title and a brand token.
func (s Sanitizer) Sanitize(report string) string {
	lines := strings.Split(strings.ReplaceAll(report, "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i < len(lines) && s.isTitle(strings.TrimSpace(lines[i])) {
		lines = append(lines[:i], lines[i+1:]...)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (s Sanitizer) isTitle(line string) bool {
	if !reHeadingPrefix.MatchString(line) || !strings.Contains(line, s.TitleMarker) {
		return false
	}
	for _, token := range s.BrandTokens {
		if token != "" && strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// Sanitize applies the default sanitizer.
func Sanitize(report string) string {
	return NewSanitizer("", nil).Sanitize(report)
}
