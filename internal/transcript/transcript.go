// Package transcript parses chat exports into ordered message sequences.
// Several common formats are auto-detected; the first parser that claims
// enough of the input wins. Parsing is line-oriented and tolerant: a
// transcript that matches no known format degrades to one message per line.
package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// Format identifies the detected chat export format.
type Format string

const (
	FormatWhatsApp Format = "whatsapp"
	FormatDiscord  Format = "discord"
	FormatColon    Format = "colon"
	FormatMarkdown Format = "markdown"
	FormatBlocks   Format = "blocks"
	FormatPlain    Format = "plain"
)

// Message is one parsed chat message.
type Message struct {
	Line      int    `json:"line"` // 1-based position among non-empty lines
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// minClaimRatio is the share of lines a format must claim before it is
// accepted (formats that can misfire on ordinary prose).
const minClaimRatio = 0.3

var (
	whatsappRe = regexp.MustCompile(`^\[(\d{2}\.\d{2}\.\d{2,4},\s\d{2}:\d{2}:\d{2})\]\s(.+?):\s(.+)$`)
	discordRe  = regexp.MustCompile(`^\d{2}:\d{2}`)
)

// Parse splits content into messages. Parsers run from most to least
// specific: WhatsApp and Discord exports carry timestamps and would also
// satisfy the generic colon format, so they get first claim.
func Parse(content string) ([]Message, Format) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil, FormatPlain
	}

	if msgs := parseWhatsApp(lines); msgs != nil {
		return msgs, FormatWhatsApp
	}
	if msgs := parseDiscord(lines); msgs != nil {
		return msgs, FormatDiscord
	}
	if msgs := parseColon(lines); msgs != nil {
		return msgs, FormatColon
	}
	if msgs := parseMarkdown(lines); msgs != nil {
		return msgs, FormatMarkdown
	}
	if msgs := parseBlocks(lines); msgs != nil {
		return msgs, FormatBlocks
	}

	msgs := make([]Message, 0, len(lines))
	for i, line := range lines {
		msgs = append(msgs, Message{Line: i + 1, Speaker: "Unknown", Text: line})
	}
	return msgs, FormatPlain
}

// Texts projects the message texts in transcript order.
func Texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func parseWhatsApp(lines []string) []Message {
	var msgs []Message
	for i, line := range lines {
		m := whatsappRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		msgs = append(msgs, Message{
			Line:      i + 1,
			Speaker:   NormalizeSpeaker(m[2]),
			Text:      m[3],
			Timestamp: m[1],
		})
	}
	if float64(len(msgs)) < float64(len(lines))*minClaimRatio {
		return nil
	}
	return msgs
}

func parseDiscord(lines []string) []Message {
	var msgs []Message
	for i, line := range lines {
		if !discordRe.MatchString(line) {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			continue
		}
		msgs = append(msgs, Message{
			Line:      i + 1,
			Speaker:   NormalizeSpeaker(parts[1]),
			Text:      parts[2],
			Timestamp: parts[0],
		})
	}
	if float64(len(msgs)) < float64(len(lines))*minClaimRatio {
		return nil
	}
	return msgs
}

func parseColon(lines []string) []Message {
	var msgs []Message
	for i, line := range lines {
		if strings.HasPrefix(line, "http") {
			continue
		}
		speaker, text, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		msgs = append(msgs, Message{
			Line:    i + 1,
			Speaker: NormalizeSpeaker(strings.TrimSpace(speaker)),
			Text:    strings.TrimSpace(text),
		})
	}
	if float64(len(msgs)) < float64(len(lines))*minClaimRatio {
		return nil
	}
	return msgs
}

func parseMarkdown(lines []string) []Message {
	var msgs []Message
	speaker := "Unknown"
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			speaker = NormalizeSpeaker(strings.Trim(line, "*"))
		case strings.HasPrefix(line, "#"):
			speaker = NormalizeSpeaker(strings.TrimSpace(strings.TrimLeft(line, "#")))
		case strings.HasPrefix(line, "*"):
			// formatting noise
		default:
			msgs = append(msgs, Message{Line: len(msgs) + 1, Speaker: speaker, Text: line})
		}
	}
	// Only claim the transcript when at least one header actually set a
	// speaker, otherwise every plain text wins here.
	if len(msgs) == 0 || msgs[0].Speaker == "Unknown" {
		return nil
	}
	return msgs
}

// speakerPrefixes mark block-format lines that switch the current speaker.
var speakerPrefixes = []string{"ich:", "user:", "ai:", "bot:", "system:", "claude:", "gpt:"}

func parseBlocks(lines []string) []Message {
	var msgs []Message
	speaker := "Unknown"
	sawPrefix := false
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, prefix := range speakerPrefixes {
			if strings.HasPrefix(lower, prefix) {
				speaker = NormalizeSpeaker(strings.TrimSuffix(prefix, ":"))
				line = strings.TrimSpace(line[len(prefix):])
				sawPrefix = true
				break
			}
		}
		if line == "" {
			continue
		}
		msgs = append(msgs, Message{Line: i + 1, Speaker: speaker, Text: line})
	}
	if !sawPrefix || len(msgs) == 0 {
		return nil
	}
	return msgs
}

// speakerAliases folds assistant and user aliases onto canonical names.
var speakerAliases = map[string]string{
	"chatgpt":   "AI",
	"gpt":       "AI",
	"claude":    "AI",
	"bot":       "AI",
	"assistant": "AI",
	"ki":        "AI",
	"ai":        "AI",
	"ich":       "User",
	"user":      "User",
	"human":     "User",
	"you":       "User",
	"du":        "User",
	"nutzer":    "User",
}

// NormalizeSpeaker maps speaker aliases onto "AI"/"User" and title-cases
// everything else.
func NormalizeSpeaker(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if canon, ok := speakerAliases[lower]; ok {
		return canon
	}
	if lower == "" {
		return "Unknown"
	}
	runes := []rune(lower)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
