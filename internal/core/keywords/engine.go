package keywords

import (
	"fmt"

	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/normalize"
)

// Fixed values reported for a forced category
const (
	ForcedProbability = 0.95
	ForcedConfidence  = ForcedProbability * 100
)

// Match describes the override decision
type Match struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Phrase   string `json:"phrase"`
}

type entry struct {
	index    int
	category string
	priority int
	phrase   string
}

// Engine checks comments against a table bound to an emotion scheme. Safe for concurrent use
type Engine struct {
	table   *Table
	scheme  *emotion.Scheme
	entries []entry // id order equals check order
	m       *matcher
}

// Bind resolves every list category against scheme and compiles the matcher.
// A category the scheme does not know is an error
func (t *Table) Bind(scheme *emotion.Scheme) (*Engine, error) {
	if scheme == nil {
		return nil, fmt.Errorf("keywords: nil scheme")
	}
	e := &Engine{table: t, scheme: scheme, m: newMatcher()}
	e.entries = make([]entry, 0, t.PhraseCount())
	for _, l := range t.Lists {
		idx, ok := scheme.Index(l.Category)
		if !ok {
			return nil, fmt.Errorf("keywords: category %q is not part of scheme %s", l.Category, scheme.Name)
		}
		for _, p := range l.Phrases {
			e.m.add(p, len(e.entries))
			e.entries = append(e.entries, entry{index: idx, category: l.Category, priority: l.Priority, phrase: p})
		}
	}
	e.m.compile()
	return e, nil
}

// Check lowercases raw and reports the winning list, if any
func (e *Engine) Check(raw string) (Match, bool) {
	return e.CheckLowered(normalize.Lower(raw))
}

// CheckLowered is Check for text already passed through normalize.Lower
func (e *Engine) CheckLowered(lowered string) (Match, bool) {
	if lowered == "" {
		return Match{}, false
	}
	best := -1
	e.m.scan(lowered, func(id int) bool {
		if best == -1 || id < best {
			best = id
		}
		return best != 0
	})
	if best == -1 {
		return Match{}, false
	}
	en := e.entries[best]
	return Match{Index: en.index, Category: en.category, Priority: en.priority, Phrase: en.phrase}, true
}

// Scheme returns the scheme the engine was bound to
func (e *Engine) Scheme() *emotion.Scheme { return e.scheme }

// Table returns the source table
func (e *Engine) Table() *Table { return e.table }

// Probabilities builds the synthetic distribution for a forced category:
// ForcedProbability on index, the remainder split evenly across the rest
func Probabilities(index, size int) []float64 {
	if size <= 0 {
		return nil
	}
	out := make([]float64, size)
	if size == 1 {
		out[0] = 1
		return out
	}
	rest := (1 - ForcedProbability) / float64(size-1)
	for i := range out {
		out[i] = rest
	}
	if index >= 0 && index < size {
		out[index] = ForcedProbability
	}
	return out
}
