// Package compile turns a loaded marker taxonomy into reusable matchers.
// Compilation happens exactly once per MarkerSet; the compiled artifacts are
// immutable and safe for concurrent use across scans. Go's RE2 engine has no
// backtracking, so malformed or adversarial patterns cannot blow up at match
// time; everything that can fail fails here.
package compile

import (
	"fmt"
	"regexp"

	"go.uber.org/multierr"

	"github.com/spiraldrift/spiraldrift/internal/marker"
)

// PatternError reports one pattern that failed to compile, with enough
// context to locate it in the marker file. Either Category/Polarity or Group
// is set, never both.
type PatternError struct {
	Category marker.Category
	Polarity marker.Polarity
	Group    string
	Pattern  string
	Err      error
}

func (e *PatternError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("compile %s pattern %q: %v", e.Group, e.Pattern, e.Err)
	}
	return fmt.Sprintf("compile %s.%s pattern %q: %v", e.Category, e.Polarity, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Pattern is a compiled regex together with its source string.
type Pattern struct {
	Source string
	RE     *regexp.Regexp
}

// Token is a literal marker compiled to a whole-word, case-insensitive
// matcher.
type Token struct {
	Source string
	RE     *regexp.Regexp
}

// Block mirrors marker.PolarityBlock with everything compiled.
type Block struct {
	Weight   float64
	Tokens   []Token
	Patterns []Pattern
}

// Category pairs the two compiled blocks of one value stage.
type Category struct {
	Positive Block
	Negative Block
}

// Block returns the compiled block for p.
func (c Category) Block(p marker.Polarity) Block {
	if p == marker.Negative {
		return c.Negative
	}
	return c.Positive
}

// Group is a compiled drift marker group.
type Group struct {
	Name     string
	Patterns []Pattern
}

// MarkerSet is the compiled counterpart of marker.MarkerSet. Order is carried
// over unchanged so scoring and aggregation stay deterministic.
type MarkerSet struct {
	Order      []marker.Category
	Categories map[marker.Category]Category
	Groups     []Group
}

// Compile builds a MarkerSet from ms. The source set is never mutated. Error
// policy is collect-all: every invalid pattern is reported in one combined
// error (unwrappable into individual *PatternError values), so a broken
// marker file can be fixed in a single pass.
func Compile(ms *marker.MarkerSet) (*MarkerSet, error) {
	out := &MarkerSet{
		Order:      append([]marker.Category(nil), ms.Order...),
		Categories: make(map[marker.Category]Category, len(ms.Order)),
	}

	var errs error
	for _, cat := range ms.Order {
		cm := ms.Categories[cat]
		compiled := Category{}
		for _, pol := range []marker.Polarity{marker.Positive, marker.Negative} {
			block, err := compileBlock(cat, pol, cm.Block(pol))
			errs = multierr.Append(errs, err)
			if pol == marker.Positive {
				compiled.Positive = block
			} else {
				compiled.Negative = block
			}
		}
		out.Categories[cat] = compiled
	}

	for _, g := range ms.Groups {
		cg := Group{Name: g.Name}
		for _, p := range g.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				errs = multierr.Append(errs, &PatternError{Group: g.Name, Pattern: p, Err: err})
				continue
			}
			cg.Patterns = append(cg.Patterns, Pattern{Source: p, RE: re})
		}
		out.Groups = append(out.Groups, cg)
	}

	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func compileBlock(cat marker.Category, pol marker.Polarity, b marker.PolarityBlock) (Block, error) {
	out := Block{Weight: b.Weight}

	var errs error
	for _, tok := range b.Tokens {
		// Tokens are already normalized by the loader; QuoteMeta means a
		// token can never fail to compile.
		out.Tokens = append(out.Tokens, Token{
			Source: tok,
			RE:     regexp.MustCompile(wholeWord(tok)),
		})
	}
	for _, p := range b.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			errs = multierr.Append(errs, &PatternError{Category: cat, Polarity: pol, Pattern: p, Err: err})
			continue
		}
		out.Patterns = append(out.Patterns, Pattern{Source: p, RE: re})
	}
	return out, errs
}

// wholeWord wraps a literal token in word boundaries. RE2's \b is ASCII-only,
// which silently breaks next to German letters, so the boundary is expressed
// with unicode letter/digit classes instead. The token itself is captured so
// match offsets point at the token, not the boundary character.
func wholeWord(token string) string {
	return `(?i)(?:\A|[^\p{L}\p{N}_])(` + regexp.QuoteMeta(token) + `)(?:[^\p{L}\p{N}_]|\z)`
}
