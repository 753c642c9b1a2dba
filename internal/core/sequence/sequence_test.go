package sequence

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	kit "mbgsense/internal/platform/testkit"
)

// word_index embedded as a string, the way Tokenizer.to_json() writes it
const kerasJSON = `{
  "class_name": "Tokenizer",
  "config": {
    "num_words": 6,
    "filters": "!\"#$%&()*+,-./:;<=>?@[\\]^_` + "`" + `{|}~\t\n",
    "lower": true,
    "split": " ",
    "char_level": false,
    "oov_token": "<OOV>",
    "document_count": 3,
    "word_index": "{\"<OOV>\": 1, \"program\": 2, \"makan\": 3, \"bantu\": 4, \"anak\": 5, \"gizi\": 6}"
  }
}`

func mustKeras(t *testing.T, opts KerasOptions) *KerasTokenizer {
	t.Helper()
	k, err := ParseKeras([]byte(kerasJSON), opts)
	if err != nil {
		t.Fatalf("ParseKeras: %v", err)
	}
	return k
}

func TestKerasSequence(t *testing.T) {
	k := mustKeras(t, KerasOptions{})
	// gizi has index 6 >= num_words so it maps to oov, like unknown words
	got := k.Sequence("program makan bantu anak gizi sekolah")
	want := []int64{2, 3, 4, 5, 1, 1}
	if len(got) != len(want) {
		t.Fatalf("Sequence=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sequence=%v want %v", got, want)
		}
	}
	if k.Width() != DefaultMaxLen || k.Kind() != KindKeras || k.VocabSize() != 6 {
		t.Fatalf("unexpected tokenizer shape width=%d kind=%s size=%d", k.Width(), k.Kind(), k.VocabSize())
	}
}

func TestKerasEncodePadsPre(t *testing.T) {
	k := mustKeras(t, KerasOptions{MaxLen: 5})
	in := k.Encode("program makan")
	want := []int64{0, 0, 0, 2, 3}
	for i := range want {
		if in.IDs[i] != want[i] {
			t.Fatalf("Encode=%v want %v", in.IDs, want)
		}
	}
	if in.Len() != 5 || in.Empty() {
		t.Fatalf("unexpected input %+v", in)
	}
	if !k.Encode("").Empty() {
		t.Fatalf("empty text should encode to all padding")
	}
}

func TestPad(t *testing.T) {
	seq := []int64{1, 2, 3, 4, 5, 6}
	tests := []struct {
		name string
		opts KerasOptions
		want []int64
	}{
		{name: "pre truncation keeps tail", opts: KerasOptions{MaxLen: 4, Padding: Pre, Truncating: Pre}, want: []int64{3, 4, 5, 6}},
		{name: "post truncation keeps head", opts: KerasOptions{MaxLen: 4, Padding: Pre, Truncating: Post}, want: []int64{1, 2, 3, 4}},
		{name: "pre padding", opts: KerasOptions{MaxLen: 8, Padding: Pre, Truncating: Pre}, want: []int64{0, 0, 1, 2, 3, 4, 5, 6}},
		{name: "post padding", opts: KerasOptions{MaxLen: 8, Padding: Post, Truncating: Pre}, want: []int64{1, 2, 3, 4, 5, 6, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Pad(seq, tc.opts)
			if len(got) != len(tc.want) {
				t.Fatalf("Pad=%v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Pad=%v want %v", got, tc.want)
				}
			}
		})
	}
}

func TestParseKerasObjectWordIndex(t *testing.T) {
	doc := `{"config":{"word_index":{"enak":1,"basi":2},"filters":"","lower":false}}`
	k, err := ParseKeras([]byte(doc), KerasOptions{MaxLen: 3})
	if err != nil {
		t.Fatalf("ParseKeras: %v", err)
	}
	// no oov token: unknown words are skipped, no lowercasing configured
	got := k.Encode("enak Basi basi")
	want := []int64{0, 1, 2}
	for i := range want {
		if got.IDs[i] != want[i] {
			t.Fatalf("Encode=%v want %v", got.IDs, want)
		}
	}
}

func TestParseKerasErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		opts KerasOptions
		want string
	}{
		{name: "bad json", doc: `{`, want: "parse tokenizer"},
		{name: "wrong class", doc: `{"class_name":"Vectorizer","config":{}}`, want: "unexpected tokenizer class"},
		{name: "missing index", doc: `{"config":{}}`, want: "no word_index"},
		{name: "empty index", doc: `{"config":{"word_index":"{}"}}`, want: "empty word_index"},
		{name: "oov missing", doc: `{"config":{"oov_token":"<UNK>","word_index":{"a":1}}}`, want: "oov token"},
		{name: "bad padding", doc: `{"config":{"word_index":{"a":1}}}`, opts: KerasOptions{Padding: "middle"}, want: "pre or post"},
		{name: "char level", doc: `{"config":{"char_level":true,"word_index":{"a":1}}}`, want: "char level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseKeras([]byte(tc.doc), tc.opts)
			if err == nil {
				t.Fatalf("expected error")
			}
			kit.MustContain(t, err.Error(), tc.want)
		})
	}
}

func TestVocabHashStable(t *testing.T) {
	a := mustKeras(t, KerasOptions{})
	b, err := ParseKeras([]byte(`{"config":{"word_index":{"gizi":6,"anak":5,"bantu":4,"makan":3,"program":2,"<OOV>":1}}}`), KerasOptions{})
	if err != nil {
		t.Fatalf("ParseKeras: %v", err)
	}
	if a.VocabHash() != b.VocabHash() {
		t.Fatalf("hash depends on key order")
	}
	c, _ := ParseKeras([]byte(`{"config":{"word_index":{"gizi":1}}}`), KerasOptions{})
	if c.VocabHash() == a.VocabHash() {
		t.Fatalf("different vocabularies hash equal")
	}
}

func TestLoadKerasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	if err := os.WriteFile(path, []byte(kerasJSON), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadKeras(path, KerasOptions{}); err != nil {
		t.Fatalf("LoadKeras: %v", err)
	}
	if _, err := LoadKeras(path+".missing", KerasOptions{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

const tfidfJSON = `{
  "vocabulary": {"makan": 0, "enak": 1, "makan enak": 2, "basi": 3},
  "idf": [1.0, 2.0, 3.0, 4.0],
  "sublinear_tf": false,
  "norm": "l2",
  "ngram_range": [1, 2]
}`

func TestTFIDFEncode(t *testing.T) {
	v, err := ParseTFIDF([]byte(tfidfJSON))
	if err != nil {
		t.Fatalf("ParseTFIDF: %v", err)
	}
	if v.Width() != 4 || v.Kind() != KindTFIDF {
		t.Fatalf("unexpected vectorizer width=%d kind=%s", v.Width(), v.Kind())
	}
	in := v.Encode("makan enak x")
	// raw weights 1, 2, 3, 0 -> l2 norm sqrt(14)
	n := math.Sqrt(14)
	want := []float64{1 / n, 2 / n, 3 / n, 0}
	for i := range want {
		if math.Abs(in.Dense[i]-want[i]) > 1e-12 {
			t.Fatalf("Dense=%v want %v", in.Dense, want)
		}
	}
	if len(in.Terms) != 3 || in.Terms[0].Token != "makan enak" {
		t.Fatalf("Terms=%+v", in.Terms)
	}
	if !v.Encode("").Empty() {
		t.Fatalf("empty text should encode to zeros")
	}
}

func TestTFIDFSublinearNoNorm(t *testing.T) {
	doc := `{"vocabulary":{"basi":0,"enak":1},"idf":[2,1],"sublinear_tf":true,"norm":""}`
	v, err := ParseTFIDF([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTFIDF: %v", err)
	}
	in := v.Encode("basi basi basi enak")
	if math.Abs(in.Dense[0]-2*(1+math.Log(3))) > 1e-12 || in.Dense[1] != 1 {
		t.Fatalf("Dense=%v", in.Dense)
	}
}

func TestParseTFIDFErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "bad json", doc: `[`, want: "parse vectorizer"},
		{name: "empty", doc: `{"vocabulary":{},"idf":[]}`, want: "empty vocabulary"},
		{name: "idf mismatch", doc: `{"vocabulary":{"a":0},"idf":[1,2]}`, want: "idf has"},
		{name: "column range", doc: `{"vocabulary":{"a":3},"idf":[1]}`, want: "outside"},
		{name: "column clash", doc: `{"vocabulary":{"a":0,"b":0},"idf":[1,1]}`, want: "assigned to both"},
		{name: "norm", doc: `{"vocabulary":{"a":0},"idf":[1],"norm":"l1"}`, want: "not supported"},
		{name: "ngram", doc: `{"vocabulary":{"a":0},"idf":[1],"ngram_range":[2,1]}`, want: "ngram_range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTFIDF([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			kit.MustContain(t, err.Error(), tc.want)
		})
	}
}
