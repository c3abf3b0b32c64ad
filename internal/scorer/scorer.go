// Package scorer scans single text units against a compiled marker set and
// produces per-category signed scores. Scoring is a pure function of
// (text, compiled set, mode): the same input always yields the same Result,
// and concurrent Score calls share no mutable state.
package scorer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spiraldrift/spiraldrift/internal/compile"
	"github.com/spiraldrift/spiraldrift/internal/marker"
)

// Mode selects how repeated occurrences of one marker contribute.
type Mode string

const (
	// ModePresence counts each distinct token or pattern at most once per
	// text, regardless of how often it occurs. This is the default.
	ModePresence Mode = "presence"
	// ModeFrequency multiplies the block weight by the occurrence count.
	// Opt-in via config; never silently enabled.
	ModeFrequency Mode = "frequency"
)

// MatchKind distinguishes token hits from pattern hits.
type MatchKind string

const (
	KindToken   MatchKind = "token"
	KindPattern MatchKind = "pattern"
)

// Match records a single marker that fired in a text.
type Match struct {
	Category marker.Category `json:"category"`
	Polarity marker.Polarity `json:"polarity"`
	Kind     MatchKind       `json:"kind"`
	Marker   string          `json:"marker"`
	Offset   int             `json:"offset"`
	Count    int             `json:"count"`
}

// Result is the score of one text unit. Scores holds an entry for every
// declared category, zero when nothing fired. Immutable once returned.
type Result struct {
	Scores    map[marker.Category]float64 `json:"scores"`
	Matches   []Match                     `json:"matches,omitempty"`
	Intensity int                         `json:"intensity"`
}

// Scorer scans texts against one compiled marker set.
type Scorer struct {
	set  *compile.MarkerSet
	mode Mode
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMode overrides the default presence-only scoring.
func WithMode(m Mode) Option {
	return func(s *Scorer) {
		if m == ModeFrequency {
			s.mode = ModeFrequency
		}
	}
}

// New builds a Scorer over set.
func New(set *compile.MarkerSet, opts ...Option) *Scorer {
	s := &Scorer{set: set, mode: ModePresence}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode reports the active scoring mode.
func (s *Scorer) Mode() Mode { return s.mode }

// Score scans text against every category block. Positive and negative
// contributions of the same category sum algebraically and may cancel.
func (s *Scorer) Score(text string) Result {
	res := Result{Scores: make(map[marker.Category]float64, len(s.set.Order))}
	for _, cat := range s.set.Order {
		res.Scores[cat] = 0
	}
	if text == "" {
		return res
	}

	for _, cat := range s.set.Order {
		cc := s.set.Categories[cat]
		for _, pol := range []marker.Polarity{marker.Positive, marker.Negative} {
			block := cc.Block(pol)
			for _, tok := range block.Tokens {
				if m, ok := s.matchToken(text, tok); ok {
					m.Category, m.Polarity = cat, pol
					res.Scores[cat] += block.Weight * float64(m.Count)
					res.Matches = append(res.Matches, m)
				}
			}
			for _, pat := range block.Patterns {
				if m, ok := s.matchPattern(text, pat); ok {
					m.Category, m.Polarity = cat, pol
					res.Scores[cat] += block.Weight * float64(m.Count)
					res.Matches = append(res.Matches, m)
				}
			}
		}
	}

	res.Intensity = Intensity(text)
	return res
}

func (s *Scorer) matchToken(text string, tok compile.Token) (Match, bool) {
	idx := tok.RE.FindStringSubmatchIndex(text)
	if idx == nil {
		return Match{}, false
	}
	count := 1
	if s.mode == ModeFrequency {
		count = countTokenHits(tok.RE, text)
	}
	// idx[2] is the start of the captured token, past the boundary rune.
	return Match{Kind: KindToken, Marker: tok.Source, Offset: idx[2], Count: count}, true
}

func (s *Scorer) matchPattern(text string, pat compile.Pattern) (Match, bool) {
	idx := pat.RE.FindStringIndex(text)
	if idx == nil {
		return Match{}, false
	}
	count := 1
	if s.mode == ModeFrequency {
		count = len(pat.RE.FindAllStringIndex(text, -1))
	}
	return Match{Kind: KindPattern, Marker: pat.Source, Offset: idx[0], Count: count}, true
}

// countTokenHits counts whole-word occurrences. The token regex consumes its
// trailing boundary rune, which would make FindAll miss adjacent occurrences
// ("hunger hunger"), so the scan restarts right after each captured token and
// the boundary rune stays available as the next leading boundary.
func countTokenHits(re *regexp.Regexp, text string) int {
	count := 0
	for off := 0; off < len(text); {
		idx := re.FindStringSubmatchIndex(text[off:])
		if idx == nil {
			break
		}
		count++
		off += idx[3]
	}
	return count
}

// intensifiers are words that raise the emotional intensity estimate.
var intensifiers = []string{"sehr", "extrem", "wahnsinnig", "unglaublich", "total", "komplett"}

// Intensity estimates emotional intensity of a text on a 0..5 scale from
// surface features: exclamation marks, shouted words, stretched characters
// ("jaaaa") and intensifier vocabulary.
func Intensity(text string) int {
	score := strings.Count(text, "!")

	for _, word := range strings.Fields(text) {
		if len([]rune(word)) > 2 && isShouted(word) {
			score++
		}
	}

	score += stretchedRuns(text)

	lower := strings.ToLower(text)
	for _, w := range intensifiers {
		if strings.Contains(lower, w) {
			score++
		}
	}

	if score > 5 {
		score = 5
	}
	return score
}

// isShouted reports whether a word is written in all caps and contains at
// least one letter.
func isShouted(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// stretchedRuns counts runs of three or more identical characters.
func stretchedRuns(text string) int {
	runs := 0
	var prev rune
	runLen := 0
	for _, r := range text {
		if r == prev {
			runLen++
			if runLen == 3 {
				runs++
			}
		} else {
			prev = r
			runLen = 1
		}
	}
	return runs
}
