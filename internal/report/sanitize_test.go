package report

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   string
	}{
		{"title removed", "### 👑 Sober Queen 诊断报告\n\npositive body", "positive body"},
		{"no heading", "plain body, no heading", "plain body, no heading"},
		{"leading blank lines", "\n\n  \n# Sober 诊断报告\nbody", "body"},
		{"crlf", "## 👑 诊断报告\r\n\r\nbody\r\nmore", "body\nmore"},
		{"heading without brand", "### 诊断报告\n\nbody", "### 诊断报告\n\nbody"},
		{"heading without marker", "### 👑 Sober Queen\n\nbody", "### 👑 Sober Queen\n\nbody"},
		{"not a heading", "👑 Sober Queen 诊断报告\nbody", "👑 Sober Queen 诊断报告\nbody"},
		{"seven hashes", "####### Queen 诊断报告\nbody", "####### Queen 诊断报告\nbody"},
		{"hash without space", "###Queen 诊断报告\nbody", "###Queen 诊断报告\nbody"},
		{"only first heading", "# Queen 诊断报告\n# Queen 诊断报告\nbody", "# Queen 诊断报告\nbody"},
		{"later heading kept", "intro\n### 👑 Sober Queen 诊断报告\nbody", "intro\n### 👑 Sober Queen 诊断报告\nbody"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.report); got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizerCustomTokens(t *testing.T) {
	s := NewSanitizer("Report", []string{"Acme"})

	if got := s.Sanitize("# Acme Report\nbody"); got != "body" {
		t.Errorf("Sanitize() = %q, want %q", got, "body")
	}
	if got := s.Sanitize("# 👑 Sober Queen 诊断报告\nbody"); got != "# 👑 Sober Queen 诊断报告\nbody" {
		t.Errorf("default tokens leaked into custom sanitizer: %q", got)
	}
}
