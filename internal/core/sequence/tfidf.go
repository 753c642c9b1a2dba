package sequence

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// scikit-learn TfidfVectorizer export: vocabulary_ and idf_ plus the knobs that change weighting
type tfidfDoc struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	SublinearTF bool           `json:"sublinear_tf"`
	Norm        *string        `json:"norm"`
	NgramRange  []int          `json:"ngram_range"`
	MinTokenLen int            `json:"min_token_len"`
}

// TFIDF weights unigrams and n-grams of cleaned text against a fitted vocabulary
type TFIDF struct {
	vocab     map[string]int
	terms     []string // column -> term
	idf       []float64
	sublinear bool
	l2        bool
	minN      int
	maxN      int
	minLen    int
	hash      string
}

// LoadTFIDF reads a vectorizer export from disk
func LoadTFIDF(path string) (*TFIDF, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence: read vectorizer %s: %w", path, err)
	}
	return ParseTFIDF(b)
}

// ParseTFIDF decodes a vectorizer export
func ParseTFIDF(b []byte) (*TFIDF, error) {
	var doc tfidfDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("sequence: parse vectorizer: %w", err)
	}
	if len(doc.Vocabulary) == 0 {
		return nil, fmt.Errorf("sequence: vectorizer has an empty vocabulary")
	}
	if len(doc.IDF) != len(doc.Vocabulary) {
		return nil, fmt.Errorf("sequence: vectorizer idf has %d weights for %d terms", len(doc.IDF), len(doc.Vocabulary))
	}

	v := &TFIDF{
		vocab:     doc.Vocabulary,
		terms:     make([]string, len(doc.Vocabulary)),
		idf:       doc.IDF,
		sublinear: doc.SublinearTF,
		l2:        doc.Norm == nil || *doc.Norm == "l2",
		minN:      1,
		maxN:      1,
		minLen:    2,
		hash:      hashVocab(doc.Vocabulary),
	}
	if doc.Norm != nil && *doc.Norm != "" && *doc.Norm != "l2" {
		return nil, fmt.Errorf("sequence: vectorizer norm %q is not supported", *doc.Norm)
	}
	if len(doc.NgramRange) == 2 {
		v.minN, v.maxN = doc.NgramRange[0], doc.NgramRange[1]
		if v.minN < 1 || v.maxN < v.minN {
			return nil, fmt.Errorf("sequence: invalid ngram_range %v", doc.NgramRange)
		}
	}
	if doc.MinTokenLen > 0 {
		v.minLen = doc.MinTokenLen
	}
	for term, col := range doc.Vocabulary {
		if col < 0 || col >= len(v.terms) {
			return nil, fmt.Errorf("sequence: term %q has column %d outside 0..%d", term, col, len(v.terms)-1)
		}
		if v.terms[col] != "" {
			return nil, fmt.Errorf("sequence: column %d assigned to both %q and %q", col, v.terms[col], term)
		}
		v.terms[col] = term
	}
	return v, nil
}

// Kind implements Encoder
func (v *TFIDF) Kind() Kind { return KindTFIDF }

// Width implements Encoder
func (v *TFIDF) Width() int { return len(v.terms) }

// VocabHash implements Encoder
func (v *TFIDF) VocabHash() string { return v.hash }

// Encode implements Encoder
func (v *TFIDF) Encode(clean string) Input {
	dense := make([]float64, len(v.terms))
	for _, g := range v.grams(clean) {
		if col, ok := v.vocab[g]; ok {
			dense[col]++
		}
	}
	for col, tf := range dense {
		if tf == 0 {
			continue
		}
		if v.sublinear {
			tf = 1 + math.Log(tf)
		}
		dense[col] = tf * v.idf[col]
	}
	if v.l2 {
		if n := floats.Norm(dense, 2); n > 0 {
			floats.Scale(1/n, dense)
		}
	}

	var terms []Term
	for col, w := range dense {
		if w != 0 {
			terms = append(terms, Term{Index: col, Token: v.terms[col], Weight: w})
		}
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Weight > terms[j].Weight })
	return Input{Dense: dense, Terms: terms}
}

func (v *TFIDF) grams(text string) []string {
	var toks []string
	for _, w := range strings.Fields(text) {
		if len(w) >= v.minLen {
			toks = append(toks, w)
		}
	}
	var out []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(toks); i++ {
			out = append(out, strings.Join(toks[i:i+n], " "))
		}
	}
	return out
}
