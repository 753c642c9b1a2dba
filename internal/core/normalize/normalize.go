// Package normalize turns raw public comments into the canonical cleaned text fed to the encoder
// Pipeline order
// 1 UTF-8 repair, NFKD, lowercase, strip combining and format marks, width fold
// 2 Drop @mentions, #hashtags and http links
// 3 Replace anything outside a-z and whitespace with a space
// 4 Collapse whitespace to single spaces and trim
// 5 Stop word removal (collaborator)
// 6 Stemming (collaborator)
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// StopWordRemover drops stop words from already cleaned text
type StopWordRemover interface {
	Remove(text string) string
}

// Stemmer reduces every word of already cleaned text to its root form
type Stemmer interface {
	Stem(text string) string
}

// Normalizer is concurrency safe as long as its collaborators are
type Normalizer struct {
	stop StopWordRemover
	stem Stemmer
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithStopWords sets the stop word collaborator
func WithStopWords(r StopWordRemover) Option { return func(n *Normalizer) { n.stop = r } }

// WithStemmer sets the stemming collaborator
func WithStemmer(s Stemmer) Option { return func(n *Normalizer) { n.stem = s } }

var (
	reMention = regexp.MustCompile(`@[a-z0-9_]+`)
	reHashtag = regexp.MustCompile(`#\w+`)
	reURL     = regexp.MustCompile(`http\S+`)
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD, // decompose so accents become separate marks
			cases.Lower(language.Indonesian),
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,
			norm.NFC,
		)
	},
}

// New constructs a Normalizer. Without options the stop word and stemming steps are skipped
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Lower is the lowercasing used both by the pipeline and by the keyword override check
func Lower(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return ns
}

// Clean runs the deterministic steps 1-4 without the collaborators
func (n *Normalizer) Clean(s string) string {
	if s == "" {
		return ""
	}
	s = Lower(s)
	s = reMention.ReplaceAllString(s, "")
	s = reHashtag.ReplaceAllString(s, "")
	s = reURL.ReplaceAllString(s, "")
	return collapseSpaces(lettersOnly(s))
}

// Normalize returns the cleaned text for s following the pipeline described above
func (n *Normalizer) Normalize(s string) string {
	out := n.Clean(s)
	if out == "" {
		return ""
	}
	if n.stop != nil {
		out = n.stop.Remove(out)
	}
	if n.stem != nil && out != "" {
		out = n.stem.Stem(out)
	}
	// collaborators may leave gaps or stray characters behind
	return collapseSpaces(lettersOnly(out))
}

// lettersOnly replaces every rune outside a-z and whitespace with a space
func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
