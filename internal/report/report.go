// Package report renders session profiles into human-readable terminal
// reports and machine-readable CSV/JSON exports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/marker"
	"github.com/spiraldrift/spiraldrift/internal/redact"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
	"github.com/spiraldrift/spiraldrift/internal/session"
	"github.com/spiraldrift/spiraldrift/internal/transcript"
)

// Input bundles everything one report covers.
type Input struct {
	Source   string
	Format   transcript.Format
	Order    []marker.Category
	Messages []transcript.Message
	Results  []scorer.Result
	Profile  *session.Profile
}

// Options control report rendering.
type Options struct {
	MaxEventsPerKind int  // drift events shown per kind, default 3
	ExcerptLength    int  // excerpt length in runes, default 100
	RedactExcerpts   bool // scrub personal data from excerpts
}

func (o Options) withDefaults() Options {
	if o.MaxEventsPerKind <= 0 {
		o.MaxEventsPerKind = 3
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = 100
	}
	return o
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	noteStyle    = lipgloss.NewStyle().Faint(true)
)

// Render produces the terminal report.
func Render(in Input, opts Options) string {
	opts = opts.withDefaults()
	var b strings.Builder

	b.WriteString(titleStyle.Render("SEMANTIC DRIFT ANALYSIS") + "\n")
	if in.Source != "" {
		fmt.Fprintf(&b, "Quelle: %s (%s)\n", in.Source, in.Format)
	}
	fmt.Fprintf(&b, "Erstellt: %s\n\n", time.Now().Format("02.01.2006 15:04:05"))

	writeStats(&b, in)
	writeTopMarkers(&b, in)
	writeProfile(&b, in)
	writeDrift(&b, in, opts)
	writeRecommendations(&b, in)

	return b.String()
}

func writeStats(b *strings.Builder, in Input) {
	b.WriteString(sectionStyle.Render("Basis-Statistiken") + "\n")
	fmt.Fprintf(b, "Nachrichten: %d\n", len(in.Messages))

	counts := make(map[string]int)
	var speakers []string
	for _, m := range in.Messages {
		if counts[m.Speaker] == 0 {
			speakers = append(speakers, m.Speaker)
		}
		counts[m.Speaker]++
	}
	for _, sp := range speakers {
		share := float64(counts[sp]) / float64(len(in.Messages)) * 100
		fmt.Fprintf(b, "  %s: %d Nachrichten (%.1f%%)\n", sp, counts[sp], share)
	}
	b.WriteString("\n")
}

func writeTopMarkers(b *strings.Builder, in Input) {
	type markerCount struct {
		label string
		count int
	}
	totals := make(map[string]int)
	for _, res := range in.Results {
		for _, m := range res.Matches {
			label := fmt.Sprintf("%s/%s %q", m.Category, m.Polarity, m.Marker)
			totals[label] += m.Count
		}
	}
	if len(totals) == 0 {
		return
	}

	ranked := make([]markerCount, 0, len(totals))
	for label, count := range totals {
		ranked = append(ranked, markerCount{label, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].label < ranked[j].label
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	b.WriteString(sectionStyle.Render("Top aktive Marker") + "\n")
	for _, mc := range ranked {
		fmt.Fprintf(b, "  %s: %d Treffer\n", mc.label, mc.count)
	}
	b.WriteString("\n")
}

func writeProfile(b *strings.Builder, in Input) {
	p := in.Profile
	b.WriteString(sectionStyle.Render("Werteebenen-Profil") + "\n")
	means := p.RoundMeans(3)
	for _, cat := range in.Order {
		fmt.Fprintf(b, "  %-8s %+.3f\n", cat, means[cat])
	}
	fmt.Fprintf(b, "Dominante Ebene: %s (Konfidenz %.2f, Trend %s)\n", p.Dominant, p.Confidence, p.Trend)
	fmt.Fprintf(b, "Mittlere emotionale Intensitaet: %.1f/5\n\n", p.Intensity)
}

func writeDrift(b *strings.Builder, in Input, opts Options) {
	b.WriteString(sectionStyle.Render("Drift-Events") + "\n")
	if len(in.Profile.Drift) == 0 {
		b.WriteString(noteStyle.Render("Keine Drift-Events erkannt; das Gespraech verlaeuft kohaerent.") + "\n\n")
		return
	}

	byKind := make(map[drift.Kind][]drift.Event)
	var kinds []drift.Kind
	for _, ev := range in.Profile.Drift {
		if len(byKind[ev.Kind]) == 0 {
			kinds = append(kinds, ev.Kind)
		}
		byKind[ev.Kind] = append(byKind[ev.Kind], ev)
	}

	for _, kind := range kinds {
		events := byKind[kind]
		fmt.Fprintf(b, "%s (%d Events)\n", kind, len(events))
		shown := events
		if len(shown) > opts.MaxEventsPerKind {
			shown = shown[:opts.MaxEventsPerKind]
		}
		for _, ev := range shown {
			fmt.Fprintf(b, "  #%d Muster %q", ev.Index, ev.Pattern)
			if ev.Index < len(in.Messages) {
				msg := in.Messages[ev.Index]
				excerpt := msg.Text
				if opts.RedactExcerpts {
					excerpt = redact.Excerpt(excerpt, opts.ExcerptLength)
				} else if runes := []rune(excerpt); len(runes) > opts.ExcerptLength {
					excerpt = strings.TrimSpace(string(runes[:opts.ExcerptLength])) + "..."
				}
				fmt.Fprintf(b, " (%s): %q", msg.Speaker, excerpt)
			}
			b.WriteString("\n")
		}
		if rest := len(events) - len(shown); rest > 0 {
			fmt.Fprintf(b, "  ... und %d weitere Events dieser Art\n", rest)
		}
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, in Input) {
	b.WriteString(sectionStyle.Render("Einordnung") + "\n")
	n := len(in.Messages)
	events := len(in.Profile.Drift)
	switch {
	case n > 0 && float64(events) > float64(n)*0.1:
		b.WriteString("Hohe Drift-Aktivitaet: das Gespraech zeigt starke semantische Dynamik.\n")
		b.WriteString("Kritische Uebergangspunkte genauer pruefen.\n")
	case events == 0:
		b.WriteString("Stabile Kommunikation ohne erkennbare Drifts.\n")
	default:
		b.WriteString("Moderate Drift-Aktivitaet: normales Gespraechsmuster.\n")
	}
}

// WriteCSV exports the per-message score matrix: one row per message with all
// category scores and the intensity estimate.
func WriteCSV(w io.Writer, in Input) error {
	cw := csv.NewWriter(w)

	header := []string{"line", "speaker", "text"}
	for _, cat := range in.Order {
		header = append(header, string(cat))
	}
	header = append(header, "intensity")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, msg := range in.Messages {
		row := []string{strconv.Itoa(msg.Line), msg.Speaker, msg.Text}
		var res scorer.Result
		if i < len(in.Results) {
			res = in.Results[i]
		}
		for _, cat := range in.Order {
			row = append(row, strconv.FormatFloat(res.Scores[cat], 'f', -1, 64))
		}
		row = append(row, strconv.Itoa(res.Intensity))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON exports the profile plus per-message results.
func WriteJSON(w io.Writer, in Input) error {
	payload := struct {
		Source  string            `json:"source,omitempty"`
		Format  transcript.Format `json:"format"`
		Profile *session.Profile  `json:"profile"`
		Results []scorer.Result   `json:"results"`
	}{
		Source:  in.Source,
		Format:  in.Format,
		Profile: in.Profile,
		Results: in.Results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
