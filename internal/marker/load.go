package marker

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a structurally invalid marker file. Path is the
// dotted location of the offending node, e.g. "Beige.Positive.weight".
type ConfigError struct {
	Path string
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "marker config: " + e.Msg
	}
	return fmt.Sprintf("marker config: %s: %s", e.Path, e.Msg)
}

// Load parses a raw marker YAML document into a MarkerSet. The document is a
// mapping keyed by category name, each value holding Positive and Negative
// blocks, plus an optional Semantic_Drift section of named pattern groups.
// Category order follows the document. Trailing "# ..." comments riding
// inside pattern strings are stripped here so the compiler never sees them.
func Load(raw []byte) (*MarkerSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Msg: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ConfigError{Msg: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Msg: "top level must be a mapping"}
	}

	ms := &MarkerSet{Categories: make(map[Category]CategoryMarkers)}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := root.Content[i+1]

		if key == "Semantic_Drift" {
			groups, err := decodeGroups(val)
			if err != nil {
				return nil, err
			}
			ms.Groups = groups
			continue
		}

		cat := Category(key)
		if !knownCategories[cat] {
			return nil, &ConfigError{Path: key, Msg: "unknown category"}
		}
		if _, dup := ms.Categories[cat]; dup {
			return nil, &ConfigError{Path: key, Msg: "category declared twice"}
		}

		cm, err := decodeCategory(key, val)
		if err != nil {
			return nil, err
		}
		ms.Order = append(ms.Order, cat)
		ms.Categories[cat] = cm
	}

	if len(ms.Order) == 0 {
		return nil, &ConfigError{Msg: "no categories declared"}
	}
	return ms, nil
}

// LoadFile reads and parses a marker file from disk.
func LoadFile(path string) (*MarkerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func decodeCategory(path string, n *yaml.Node) (CategoryMarkers, error) {
	var cm CategoryMarkers
	if n.Kind != yaml.MappingNode {
		return cm, &ConfigError{Path: path, Msg: "category must be a mapping"}
	}

	var havePos, haveNeg bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		switch Polarity(key) {
		case Positive:
			block, err := decodeBlock(path+".Positive", val)
			if err != nil {
				return cm, err
			}
			cm.Positive = block
			havePos = true
		case Negative:
			block, err := decodeBlock(path+".Negative", val)
			if err != nil {
				return cm, err
			}
			cm.Negative = block
			haveNeg = true
		default:
			return cm, &ConfigError{Path: path + "." + key, Msg: "unknown polarity block"}
		}
	}

	if !havePos {
		return cm, &ConfigError{Path: path, Msg: "missing Positive block"}
	}
	if !haveNeg {
		return cm, &ConfigError{Path: path, Msg: "missing Negative block"}
	}
	return cm, nil
}

func decodeBlock(path string, n *yaml.Node) (PolarityBlock, error) {
	var block PolarityBlock
	if n.Kind != yaml.MappingNode {
		return block, &ConfigError{Path: path, Msg: "polarity block must be a mapping"}
	}

	var haveWeight bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		switch key {
		case "weight":
			var w float64
			if val.Kind != yaml.ScalarNode || val.Decode(&w) != nil {
				return block, &ConfigError{Path: path + ".weight", Msg: "weight must be numeric"}
			}
			block.Weight = w
			haveWeight = true
		case "tokens":
			tokens, err := decodeStringList(path+".tokens", val)
			if err != nil {
				return block, err
			}
			block.Tokens = normalizeTokens(tokens)
		case "patterns":
			patterns, err := decodeStringList(path+".patterns", val)
			if err != nil {
				return block, err
			}
			for j, p := range patterns {
				stripped := stripInlineComment(p)
				if stripped == "" {
					return block, &ConfigError{
						Path: fmt.Sprintf("%s.patterns[%d]", path, j),
						Msg:  "pattern is empty after comment stripping",
					}
				}
				block.Patterns = append(block.Patterns, stripped)
			}
		default:
			return block, &ConfigError{Path: path + "." + key, Msg: "unknown key"}
		}
	}

	if !haveWeight {
		return block, &ConfigError{Path: path + ".weight", Msg: "weight is required"}
	}
	return block, nil
}

func decodeGroups(n *yaml.Node) ([]Group, error) {
	if n.Kind != yaml.MappingNode {
		return nil, &ConfigError{Path: "Semantic_Drift", Msg: "must be a mapping of named groups"}
	}

	var groups []Group
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		val := n.Content[i+1]
		path := "Semantic_Drift." + name

		if val.Kind != yaml.SequenceNode {
			return nil, &ConfigError{Path: path, Msg: "group must be a list of pattern entries"}
		}

		g := Group{Name: name}
		for j, entry := range val.Content {
			entryPath := fmt.Sprintf("%s[%d]", path, j)
			if entry.Kind != yaml.MappingNode {
				return nil, &ConfigError{Path: entryPath, Msg: "entry must be a mapping with a patterns key"}
			}
			for k := 0; k+1 < len(entry.Content); k += 2 {
				if entry.Content[k].Value != "patterns" {
					return nil, &ConfigError{Path: entryPath + "." + entry.Content[k].Value, Msg: "unknown key"}
				}
				patterns, err := decodeStringList(entryPath+".patterns", entry.Content[k+1])
				if err != nil {
					return nil, err
				}
				for _, p := range patterns {
					if stripped := stripInlineComment(p); stripped != "" {
						g.Patterns = append(g.Patterns, stripped)
					}
				}
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func decodeStringList(path string, n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, &ConfigError{Path: path, Msg: "must be a list of strings"}
	}
	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.ScalarNode || item.Tag == "!!map" || item.Tag == "!!seq" {
			return nil, &ConfigError{Path: fmt.Sprintf("%s[%d]", path, i), Msg: "must be a string"}
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// stripInlineComment removes a trailing "  # human note" from a pattern
// string. The hash must be preceded by whitespace so character classes like
// [#x] survive.
func stripInlineComment(s string) string {
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}

// normalizeTokens lowercases, trims and dedupes token lists while keeping
// first-seen order.
func normalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		lt := strings.ToLower(strings.TrimSpace(t))
		if lt == "" {
			continue
		}
		if _, dup := seen[lt]; dup {
			continue
		}
		seen[lt] = struct{}{}
		out = append(out, lt)
	}
	return out
}
