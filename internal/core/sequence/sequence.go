// Package sequence turns cleaned text into the numeric input a classifier expects.
// Two encoders are provided: a Keras tokenizer export padded to a fixed length,
// and a TF-IDF vocabulary export producing a dense weighted vector
package sequence

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// Kind names an encoder family
type Kind string

// Known encoder kinds
const (
	KindKeras Kind = "keras"
	KindTFIDF Kind = "tfidf"
)

// Term is one non-zero entry of a weighted vector
type Term struct {
	Index  int     `json:"index"`
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
}

// Input is the encoded form of one cleaned text. Exactly one of IDs or Dense is set
type Input struct {
	IDs   []int64   `json:"ids,omitempty"`
	Dense []float64 `json:"-"`
	Terms []Term    `json:"terms,omitempty"`
}

// Len is the width of the populated vector
func (in Input) Len() int {
	if in.IDs != nil {
		return len(in.IDs)
	}
	return len(in.Dense)
}

// Empty reports whether the input carries no signal (all padding or all zero)
func (in Input) Empty() bool {
	for _, id := range in.IDs {
		if id != 0 {
			return false
		}
	}
	for _, v := range in.Dense {
		if v != 0 {
			return false
		}
	}
	return true
}

// Encoder converts cleaned text to classifier input
type Encoder interface {
	Kind() Kind
	Encode(clean string) Input
	// Width is the fixed vector length produced by Encode
	Width() int
	// VocabHash fingerprints the vocabulary so mismatched artifacts can be rejected
	VocabHash() string
}

// hashVocab hashes term/index pairs in a stable order
func hashVocab(vocab map[string]int) string {
	keys := make([]string, 0, len(vocab))
	for k := range vocab {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\t'})
		h.Write([]byte(strconv.Itoa(vocab[k])))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
