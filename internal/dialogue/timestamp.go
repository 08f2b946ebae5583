package dialogue

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxTimestampRunes is the longest banner a chat UI renders between bubbles.
const maxTimestampRunes = 24

const clock = `\d{1,2}:\d{2}(?::\d{2})?`

// timestampShapes are matched independently, each anchored on the whole string.
var timestampShapes = []*regexp.Regexp{
	// 14:05, 9:30:12
	anchored(clock),
	// 下午 3:20, 晚上9:30, PM 3:20
	anchored(`(?:上午|下午|凌晨|早上|中午|晚上|(?i:am|pm))?\s*` + clock),
	// 星期三, 周五 18:00
	anchored(`(?:星期|周)[一二三四五六日天](?:\s*` + clock + `)?`),
	// 2024-03-05, 2024/3/5 10:00
	anchored(`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}(?:\s+` + clock + `)?`),
	// 3月5日, 2024年3月5日 10:00
	anchored(`(?:\d{4}年)?\d{1,2}月\d{1,2}日(?:\s*` + clock + `)?`),
	// 昨天 22:10
	anchored(`(?:今天|昨天|前天)(?:\s*` + clock + `)?`),
}

// anchored also widens \d to every Unicode decimal digit, so full-width
// banners such as １４:０５ match too.
func anchored(expr string) *regexp.Regexp {
	expr = strings.ReplaceAll(expr, `\d`, `\p{Nd}`)
	return regexp.MustCompile(`^(?:` + expr + `)$`)
}

// IsTimestamp reports whether text is a timestamp, date or weekday banner
// rather than dialogue. Blank text counts as a banner: it carries nothing
// and still resets attribution.
func IsTimestamp(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if utf8.RuneCountInString(t) > maxTimestampRunes {
		return false
	}

	t = strings.Join(strings.Fields(t), " ")
	for _, re := range timestampShapes {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
