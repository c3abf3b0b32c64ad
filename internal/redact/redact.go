// Package redact scrubs personal data from transcript excerpts before they
// are embedded in reports or exports. Chat exports routinely contain email
// addresses and phone numbers; reports must not re-publish them.
package redact

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-()/]{7,}\d`)
	tokenRe = regexp.MustCompile(`[A-Za-z0-9_\-]{24,}`)
	urlRe   = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// String redacts known personal-data patterns from free-form text.
func String(s string) string {
	if s == "" {
		return s
	}
	out := emailRe.ReplaceAllString(s, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	out = urlRe.ReplaceAllString(out, "[REDACTED_URL]")
	out = tokenRe.ReplaceAllString(out, "[REDACTED_TOKEN]")
	return out
}

// Excerpt truncates s to max runes and redacts it. Truncation happens first
// so a cut never exposes half of a redacted value.
func Excerpt(s string, max int) string {
	if max > 0 {
		runes := []rune(s)
		if len(runes) > max {
			s = strings.TrimSpace(string(runes[:max])) + "..."
		}
	}
	return String(s)
}
