package sequence

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Padding and truncation sides, as in keras pad_sequences
const (
	Pre  = "pre"
	Post = "post"
)

// DefaultMaxLen is the sequence length the LSTM was trained with
const DefaultMaxLen = 50

// keras Tokenizer.to_json() layout. Several fields are JSON documents
// embedded as strings, older exports inline them as objects
type kerasDoc struct {
	ClassName string      `json:"class_name"`
	Config    kerasConfig `json:"config"`
}

type kerasConfig struct {
	NumWords  *int            `json:"num_words"`
	Filters   *string         `json:"filters"`
	Lower     *bool           `json:"lower"`
	Split     *string         `json:"split"`
	CharLevel bool            `json:"char_level"`
	OOVToken  *string         `json:"oov_token"`
	WordIndex json.RawMessage `json:"word_index"`
}

// KerasOptions controls padding of the token sequence
type KerasOptions struct {
	MaxLen     int
	Padding    string
	Truncating string
}

// KerasTokenizer reproduces texts_to_sequences followed by pad_sequences
type KerasTokenizer struct {
	index    map[string]int
	numWords int // 0 means unlimited
	filters  string
	lower    bool
	split    string
	oovIndex int // 0 when the tokenizer has no oov token
	opts     KerasOptions
	hash     string
}

const kerasDefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// LoadKeras reads a tokenizer JSON export from disk
func LoadKeras(path string, opts KerasOptions) (*KerasTokenizer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence: read tokenizer %s: %w", path, err)
	}
	return ParseKeras(b, opts)
}

// ParseKeras decodes a tokenizer JSON export
func ParseKeras(b []byte, opts KerasOptions) (*KerasTokenizer, error) {
	var doc kerasDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("sequence: parse tokenizer: %w", err)
	}
	if doc.ClassName != "" && doc.ClassName != "Tokenizer" {
		return nil, fmt.Errorf("sequence: unexpected tokenizer class %q", doc.ClassName)
	}
	cfg := doc.Config
	if cfg.CharLevel {
		return nil, fmt.Errorf("sequence: char level tokenizers are not supported")
	}

	index, err := decodeWordIndex(cfg.WordIndex)
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("sequence: tokenizer has an empty word_index")
	}

	if opts.MaxLen <= 0 {
		opts.MaxLen = DefaultMaxLen
	}
	if opts.Padding == "" {
		opts.Padding = Pre
	}
	if opts.Truncating == "" {
		opts.Truncating = Pre
	}
	for _, side := range []string{opts.Padding, opts.Truncating} {
		if side != Pre && side != Post {
			return nil, fmt.Errorf("sequence: padding side %q must be pre or post", side)
		}
	}

	t := &KerasTokenizer{
		index:   index,
		filters: kerasDefaultFilters,
		lower:   true,
		split:   " ",
		opts:    opts,
		hash:    hashVocab(index),
	}
	if cfg.NumWords != nil {
		t.numWords = *cfg.NumWords
	}
	if cfg.Filters != nil {
		t.filters = *cfg.Filters
	}
	if cfg.Lower != nil {
		t.lower = *cfg.Lower
	}
	if cfg.Split != nil && *cfg.Split != "" {
		t.split = *cfg.Split
	}
	if cfg.OOVToken != nil && *cfg.OOVToken != "" {
		oov, ok := index[*cfg.OOVToken]
		if !ok {
			return nil, fmt.Errorf("sequence: oov token %q missing from word_index", *cfg.OOVToken)
		}
		t.oovIndex = oov
	}
	return t, nil
}

func decodeWordIndex(raw json.RawMessage) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("sequence: tokenizer has no word_index")
	}
	// string form holds a nested JSON document
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("sequence: decode word_index: %w", err)
		}
		raw = json.RawMessage(s)
	}
	var out map[string]int
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("sequence: decode word_index: %w", err)
	}
	return out, nil
}

// Kind implements Encoder
func (t *KerasTokenizer) Kind() Kind { return KindKeras }

// Width implements Encoder
func (t *KerasTokenizer) Width() int { return t.opts.MaxLen }

// VocabHash implements Encoder
func (t *KerasTokenizer) VocabHash() string { return t.hash }

// VocabSize is the number of distinct indexed words
func (t *KerasTokenizer) VocabSize() int { return len(t.index) }

// Sequence maps text to word ids without padding
func (t *KerasTokenizer) Sequence(text string) []int64 {
	words := t.words(text)
	out := make([]int64, 0, len(words))
	for _, w := range words {
		i, ok := t.index[w]
		switch {
		case ok && (t.numWords == 0 || i < t.numWords):
			out = append(out, int64(i))
		case t.oovIndex != 0:
			out = append(out, int64(t.oovIndex))
		}
	}
	return out
}

// Encode implements Encoder
func (t *KerasTokenizer) Encode(clean string) Input {
	return Input{IDs: Pad(t.Sequence(clean), t.opts)}
}

func (t *KerasTokenizer) words(text string) []string {
	if t.lower {
		text = strings.ToLower(text)
	}
	if t.filters != "" {
		sep := []rune(t.split)[0]
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(t.filters, r) {
				return sep
			}
			return r
		}, text)
	}
	parts := strings.Split(text, t.split)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Pad fits seq to opts.MaxLen with zeros, dropping or padding on the configured sides
func Pad(seq []int64, opts KerasOptions) []int64 {
	n := opts.MaxLen
	if len(seq) > n {
		if opts.Truncating == Post {
			seq = seq[:n]
		} else {
			seq = seq[len(seq)-n:]
		}
	}
	out := make([]int64, n)
	if opts.Padding == Post {
		copy(out, seq)
	} else {
		copy(out[n-len(seq):], seq)
	}
	return out
}
