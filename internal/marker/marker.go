// Package marker holds the Spiral Dynamics marker taxonomy: value-stage
// categories with weighted positive/negative token and pattern blocks, plus
// the semantic drift marker groups. A MarkerSet is built once by Load and is
// read-only afterwards; every downstream component receives it explicitly.
package marker

// Category is one Spiral Dynamics value stage.
type Category string

const (
	Beige   Category = "Beige"
	Purpur  Category = "Purpur"
	Rot     Category = "Rot"
	Blau    Category = "Blau"
	Orange  Category = "Orange"
	Gruen   Category = "Gruen"
	Gelb    Category = "Gelb"
	Tuerkis Category = "Tuerkis"
	Koralle Category = "Koralle"
)

// knownCategories is the closed set of value stages a marker file may define.
var knownCategories = map[Category]bool{
	Beige:   true,
	Purpur:  true,
	Rot:     true,
	Blau:    true,
	Orange:  true,
	Gruen:   true,
	Gelb:    true,
	Tuerkis: true,
	Koralle: true,
}

// Polarity selects the positive or negative block of a category.
type Polarity string

const (
	Positive Polarity = "Positive"
	Negative Polarity = "Negative"
)

// PolarityBlock is one weighted token/pattern set. Weight is positive for
// Positive blocks and negative for Negative blocks by convention; the loader
// does not enforce the sign.
type PolarityBlock struct {
	Weight   float64
	Tokens   []string
	Patterns []string
}

// CategoryMarkers pairs the two polarity blocks of one category.
type CategoryMarkers struct {
	Positive PolarityBlock
	Negative PolarityBlock
}

// Block returns the polarity block for p.
func (c CategoryMarkers) Block(p Polarity) PolarityBlock {
	if p == Negative {
		return c.Negative
	}
	return c.Positive
}

// Group is a named drift marker group ("Transition_Markers",
// "Resistance_Markers"). Groups carry no weights and no category; a pattern
// either fires in a text unit or it does not.
type Group struct {
	Name     string
	Patterns []string
}

// MarkerSet is the loaded taxonomy. Order preserves the category order of the
// source document; aggregation tie-breaking depends on it. Treat a MarkerSet
// as read-only once Load returns.
type MarkerSet struct {
	Order      []Category
	Categories map[Category]CategoryMarkers
	Groups     []Group
}

// Markers returns the blocks for c and whether the taxonomy declares c.
func (m *MarkerSet) Markers(c Category) (CategoryMarkers, bool) {
	cm, ok := m.Categories[c]
	return cm, ok
}
