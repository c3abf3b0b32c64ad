// Package drift scans transcripts for semantic drift markers: transition
// signals (a speaker moving between value stages) and resistance signals
// (a speaker pushing back against such movement). Drift detection is
// presence-only and independent of category scoring.
package drift

import (
	"context"
	"strings"

	"github.com/spiraldrift/spiraldrift/internal/compile"
)

// Kind classifies a drift event by its marker group.
type Kind string

const (
	KindTransition Kind = "transition"
	KindResistance Kind = "resistance"
	KindOther      Kind = "other"
)

// Event records one drift marker firing in one text unit. Index is the
// 0-based position of the text unit in the transcript.
type Event struct {
	Index   int    `json:"index"`
	Group   string `json:"group"`
	Kind    Kind   `json:"kind"`
	Pattern string `json:"pattern"`
}

// Detector scans texts against compiled drift marker groups. Safe for
// concurrent use.
type Detector struct {
	groups []compile.Group
}

// New builds a Detector over the drift groups of set.
func New(set *compile.MarkerSet) *Detector {
	return &Detector{groups: set.Groups}
}

// Detect scans a whole transcript. Events are ordered by transcript
// position, then group declaration order, then pattern declaration order,
// so identical input always yields the identical event sequence. The same
// pattern firing in two text units yields two events.
func (d *Detector) Detect(texts []string) []Event {
	var events []Event
	for i, text := range texts {
		events = append(events, d.DetectText(i, text)...)
	}
	return events
}

// DetectCtx is Detect with cooperative cancellation, checked between text
// units (individual scans are sub-millisecond and never interrupted).
func (d *Detector) DetectCtx(ctx context.Context, texts []string) ([]Event, error) {
	var events []Event
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events = append(events, d.DetectText(i, text)...)
	}
	return events, nil
}

// DetectText scans a single text unit at transcript position index.
func (d *Detector) DetectText(index int, text string) []Event {
	if text == "" {
		return nil
	}
	var events []Event
	for _, g := range d.groups {
		kind := groupKind(g.Name)
		for _, p := range g.Patterns {
			if p.RE.MatchString(text) {
				events = append(events, Event{
					Index:   index,
					Group:   g.Name,
					Kind:    kind,
					Pattern: p.Source,
				})
			}
		}
	}
	return events
}

func groupKind(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "transition"):
		return KindTransition
	case strings.Contains(lower, "resistance"):
		return KindResistance
	default:
		return KindOther
	}
}
