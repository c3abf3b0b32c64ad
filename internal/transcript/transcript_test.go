package transcript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseColonFormat(t *testing.T) {
	content := `
User: Hallo, wie geht es dir?
AI: Mir geht es gut, danke!
User: Das freut mich.
`
	msgs, format := Parse(content)
	if format != FormatColon {
		t.Fatalf("format = %s, want colon", format)
	}
	want := []Message{
		{Line: 1, Speaker: "User", Text: "Hallo, wie geht es dir?"},
		{Line: 2, Speaker: "AI", Text: "Mir geht es gut, danke!"},
		{Line: 3, Speaker: "User", Text: "Das freut mich."},
	}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWhatsAppFormat(t *testing.T) {
	content := `[12.03.23, 14:22:01] Ben: hallo zusammen
[12.03.23, 14:22:45] Anna: hi ben!
[12.03.23, 14:23:10] Ben: wie war euer tag?`

	msgs, format := Parse(content)
	if format != FormatWhatsApp {
		t.Fatalf("format = %s, want whatsapp", format)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Speaker != "Ben" || msgs[0].Timestamp != "12.03.23, 14:22:01" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Speaker != "Anna" || msgs[1].Text != "hi ben!" {
		t.Errorf("second message = %+v", msgs[1])
	}
}

func TestParseDiscordFormat(t *testing.T) {
	content := `14:22 ben hallo zusammen
14:23 anna hi!
14:24 ben alles klar bei euch?`

	msgs, format := Parse(content)
	if format != FormatDiscord {
		t.Fatalf("format = %s, want discord", format)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Timestamp != "14:22" || msgs[0].Speaker != "Ben" {
		t.Errorf("first message = %+v", msgs[0])
	}
}

func TestParseMarkdownFormat(t *testing.T) {
	content := `**User**
Hallo, ich habe eine Frage.
**ChatGPT**
Gerne, wie kann ich helfen?
Noch eine Ergänzung dazu.`

	msgs, format := Parse(content)
	if format != FormatMarkdown {
		t.Fatalf("format = %s, want markdown", format)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Speaker != "User" {
		t.Errorf("first speaker = %s, want User", msgs[0].Speaker)
	}
	if msgs[1].Speaker != "AI" || msgs[2].Speaker != "AI" {
		t.Errorf("ChatGPT messages normalized to %s/%s, want AI/AI", msgs[1].Speaker, msgs[2].Speaker)
	}
}

func TestParseBlocksFormat(t *testing.T) {
	// Only two of seven lines carry a speaker prefix, so the generic colon
	// parser stays under its claim threshold and the block parser wins.
	content := `ich: also folgendes problem
es geht einfach nicht weiter
ich weiss nicht mehr wohin damit
vielleicht ist es auch egal
gpt: erzaehl mir mehr davon
was genau ist passiert
und seit wann geht das so`

	msgs, format := Parse(content)
	if format != FormatBlocks {
		t.Fatalf("format = %s, want blocks", format)
	}
	if len(msgs) != 7 {
		t.Fatalf("got %d messages, want 7", len(msgs))
	}
	if msgs[0].Speaker != "User" || msgs[3].Speaker != "User" {
		t.Errorf("block speakers = %s/%s, want User/User", msgs[0].Speaker, msgs[3].Speaker)
	}
	if msgs[4].Speaker != "AI" || msgs[6].Speaker != "AI" {
		t.Errorf("gpt speakers = %s/%s, want AI/AI", msgs[4].Speaker, msgs[6].Speaker)
	}
	if msgs[0].Text != "also folgendes problem" {
		t.Errorf("prefix not stripped: %q", msgs[0].Text)
	}
}

func TestParsePlainFallback(t *testing.T) {
	content := `erste zeile ohne format
zweite zeile ohne format`

	msgs, format := Parse(content)
	if format != FormatPlain {
		t.Fatalf("format = %s, want plain", format)
	}
	if len(msgs) != 2 || msgs[0].Speaker != "Unknown" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestParseEmpty(t *testing.T) {
	msgs, format := Parse("   \n\n  ")
	if msgs != nil || format != FormatPlain {
		t.Errorf("got %v/%s, want nil/plain", msgs, format)
	}
}

func TestNormalizeSpeaker(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ChatGPT", "AI"},
		{"claude", "AI"},
		{"ich", "User"},
		{"BEN", "Ben"},
		{"anna", "Anna"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := NormalizeSpeaker(tc.in); got != tc.want {
			t.Errorf("NormalizeSpeaker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTexts(t *testing.T) {
	msgs := []Message{
		{Text: "eins"},
		{Text: "zwei"},
	}
	got := Texts(msgs)
	if len(got) != 2 || got[0] != "eins" || got[1] != "zwei" {
		t.Errorf("Texts = %v", got)
	}
}
