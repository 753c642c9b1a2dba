// Package keywords loads the versioned keyword override table and matches
// lowercased raw comments against it. Lists are checked in ascending priority,
// the first list with any phrase contained in the text decides the category
package keywords

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed keywords.json
var embedded []byte

// SupportedVersion is the only table format version understood by Parse
const SupportedVersion = 1

type rawList struct {
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	Phrases  []string `json:"phrases"`
}

type rawTable struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta,omitempty"`
	Lists   []rawList      `json:"lists"`
}

// List is one forced category with its phrases in table order
type List struct {
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	Phrases  []string `json:"phrases"`
}

// Table is the parsed, validated keyword table. Lists are sorted by priority
type Table struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta,omitempty"`
	Lists   []List         `json:"lists"`
}

// Load returns the embedded default table
func Load() (*Table, error) { return Parse(embedded) }

// LoadFile parses a table from disk
func LoadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes and validates a table document
func Parse(b []byte) (*Table, error) {
	var rt rawTable
	if err := json.Unmarshal(b, &rt); err != nil {
		return nil, fmt.Errorf("keywords: parse table: %w", err)
	}
	if rt.Version != SupportedVersion {
		return nil, fmt.Errorf("keywords: unsupported table version %d (want %d)", rt.Version, SupportedVersion)
	}
	if len(rt.Lists) == 0 {
		return nil, fmt.Errorf("keywords: table has no lists")
	}

	t := &Table{Version: rt.Version, Meta: rt.Meta, Lists: make([]List, 0, len(rt.Lists))}
	seenPrio := make(map[int]string, len(rt.Lists))
	seenCat := make(map[string]struct{}, len(rt.Lists))
	for _, rl := range rt.Lists {
		cat := strings.ToLower(strings.TrimSpace(rl.Category))
		if cat == "" {
			return nil, fmt.Errorf("keywords: list with priority %d has no category", rl.Priority)
		}
		if other, dup := seenPrio[rl.Priority]; dup {
			return nil, fmt.Errorf("keywords: lists %q and %q share priority %d", other, cat, rl.Priority)
		}
		if _, dup := seenCat[cat]; dup {
			return nil, fmt.Errorf("keywords: category %q listed twice", cat)
		}
		seenPrio[rl.Priority] = cat
		seenCat[cat] = struct{}{}

		phrases := cleanPhrases(rl.Phrases)
		if len(phrases) == 0 {
			return nil, fmt.Errorf("keywords: list %q has no phrases", cat)
		}
		t.Lists = append(t.Lists, List{Category: cat, Priority: rl.Priority, Phrases: phrases})
	}

	sort.SliceStable(t.Lists, func(i, j int) bool { return t.Lists[i].Priority < t.Lists[j].Priority })
	return t, nil
}

// cleanPhrases lowercases and trims, dropping empties and repeats while keeping order
func cleanPhrases(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		p = strings.Join(strings.Fields(strings.ToLower(p)), " ")
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Categories lists the categories in priority order
func (t *Table) Categories() []string {
	out := make([]string, len(t.Lists))
	for i, l := range t.Lists {
		out[i] = l.Category
	}
	return out
}

// PhraseCount is the number of phrases across all lists
func (t *Table) PhraseCount() int {
	n := 0
	for _, l := range t.Lists {
		n += len(l.Phrases)
	}
	return n
}

// Marshal renders the table in its on-disk form
func (t *Table) Marshal() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
