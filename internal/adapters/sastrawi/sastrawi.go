// Package sastrawi adapts the Sastrawi Indonesian stop word list and stemmer
// to the normalize collaborator interfaces
package sastrawi

import (
	"strings"
	"sync"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"
)

// DefaultSpan is the longest stop phrase, in words, considered by Remove
const DefaultSpan = 3

// StopWords removes stop words and multi word stop phrases
type StopWords struct {
	dict sastrawi.Dictionary
	span int
}

// NewStopWords builds a remover from the default Sastrawi list plus extra entries.
// Extra entries may contain spaces to register phrases. span <= 0 selects DefaultSpan
func NewStopWords(extra []string, span int) *StopWords {
	if span <= 0 {
		span = DefaultSpan
	}
	dict := sastrawi.DefaultStopword()
	for _, e := range extra {
		e = strings.Join(strings.Fields(strings.ToLower(e)), " ")
		if e == "" {
			continue
		}
		dict.Add(e)
		if n := len(strings.Fields(e)); n > span {
			span = n
		}
	}
	return &StopWords{dict: dict, span: span}
}

// Remove drops, left to right, the longest run of up to span words found in the dictionary
func (s *StopWords) Remove(text string) string {
	words := strings.Fields(text)
	keep := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		n := s.match(words[i:])
		if n > 0 {
			i += n
			continue
		}
		keep = append(keep, words[i])
		i++
	}
	return strings.Join(keep, " ")
}

// match returns how many leading words of ws form a stop entry, 0 if none
func (s *StopWords) match(ws []string) int {
	limit := min(s.span, len(ws))
	for n := limit; n >= 1; n-- {
		if s.dict.Contains(strings.Join(ws[:n], " ")) {
			return n
		}
	}
	return 0
}

// Contains reports whether word or phrase is a stop entry
func (s *StopWords) Contains(w string) bool { return s.dict.Contains(w) }

// Stemmer stems word by word and memoizes results; comment vocabularies repeat heavily
type Stemmer struct {
	stemmer sastrawi.Stemmer
	cache   sync.Map // word -> root
}

// NewStemmer builds a stemmer over the default Sastrawi root dictionary
func NewStemmer() *Stemmer {
	return &Stemmer{stemmer: sastrawi.NewStemmer(sastrawi.DefaultDictionary())}
}

// Stem reduces every word of text to its root
func (s *Stemmer) Stem(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = s.word(w)
	}
	return strings.Join(words, " ")
}

func (s *Stemmer) word(w string) string {
	if v, ok := s.cache.Load(w); ok {
		return v.(string)
	}
	root := s.stemmer.Stem(w)
	if root == "" {
		root = w
	}
	s.cache.Store(w, root)
	return root
}
