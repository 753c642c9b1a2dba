package service

import (
	"context"
	"strings"
	"testing"

	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	"mbgsense/internal/core/sequence"
	perr "mbgsense/internal/platform/errors"
	kit "mbgsense/internal/platform/testkit"
	"mbgsense/internal/services/api/emotion/domain"
)

type countEncoder struct{}

func (countEncoder) Kind() sequence.Kind { return sequence.KindKeras }
func (countEncoder) Width() int          { return 4 }
func (countEncoder) VocabHash() string   { return "" }
func (countEncoder) Encode(clean string) sequence.Input {
	ids := make([]int64, 4)
	for i, w := range strings.Fields(clean) {
		if i < 4 {
			ids[i] = int64(len(w))
		}
	}
	return sequence.Input{IDs: ids}
}

type fixedClassifier struct{ probs []float64 }

func (f fixedClassifier) Predict(context.Context, sequence.Input) ([]float64, error) {
	return f.probs, nil
}
func (fixedClassifier) InputWidth() int { return 4 }
func (fixedClassifier) Classes() int    { return 4 }
func (fixedClassifier) Close() error    { return nil }

func engine(t *testing.T, scheme string) *keywords.Engine {
	t.Helper()
	e, err := predict.BindKeywords("", emotion.MustLookup(scheme))
	if err != nil {
		t.Fatalf("BindKeywords: %v", err)
	}
	return e
}

// port wraps a Loader so tests control the load outcome
type port struct{ *predict.Loader }

func (p port) Predictor() (*predict.Predictor, error) { return p.Load() }

func readyService(t *testing.T, probs []float64) *svc {
	t.Helper()
	p, err := predict.New(predict.Deps{
		Scheme:     emotion.MustLookup(emotion.Basic4),
		Keywords:   engine(t, emotion.Basic4),
		Encoder:    countEncoder{},
		Classifier: fixedClassifier{probs: probs},
	})
	if err != nil {
		t.Fatalf("predict.New: %v", err)
	}
	s := New(Options{Predictor: port{predict.Loaded(p)}, Normalizer: normalize.New()}).(*svc)
	s.newID = func() string { return "id-1" }
	return s
}

func failedService(t *testing.T, kw *keywords.Engine) *svc {
	t.Helper()
	l := predict.NewLoader(func() (*predict.Predictor, error) {
		return nil, perr.Artifactf("model manifest models/manifest.json not found")
	})
	_, _ = l.Load()
	return New(Options{Predictor: port{l}, Normalizer: normalize.New(), Keywords: kw}).(*svc)
}

func TestPredict_ModelInference(t *testing.T) {
	s := readyService(t, []float64{0.05, 0.10, 0.05, 0.80})
	out, err := s.Predict(t.Context(), domain.TextInput{Text: "program ini sangat membantu"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if out.ID != "id-1" || out.Key != "senang" || out.Method != string(predict.MethodModel) {
		t.Fatalf("unexpected %+v", out)
	}
	if out.ConfidenceText != "80.00%" || out.Scheme != "basic4" {
		t.Fatalf("confidence %q scheme %q", out.ConfidenceText, out.Scheme)
	}
	got := make([]string, len(out.Distribution))
	for i, sh := range out.Distribution {
		got[i] = sh.Key + "=" + sh.Percent
	}
	want := "senang=80.00% netral=10.00% marah=5.00% sedih=5.00%"
	if strings.Join(got, " ") != want {
		t.Fatalf("distribution %v want %s", got, want)
	}
}

func TestPredict_KeywordOverride(t *testing.T) {
	s := readyService(t, []float64{0.1, 0.1, 0.1, 0.7})
	cases := []struct {
		text, key string
	}{
		{"pelayanan sangat korupsi dan busuk", "marah"},
		{"saya takut dan cemas dengan program ini", "sedih"},
	}
	for _, tc := range cases {
		out, err := s.Predict(t.Context(), domain.TextInput{Text: tc.text})
		if err != nil {
			t.Fatalf("Predict(%q): %v", tc.text, err)
		}
		if out.Key != tc.key || out.Method != string(predict.MethodKeyword) || out.ConfidenceText != "95.00%" {
			t.Fatalf("Predict(%q) = %+v", tc.text, out)
		}
		if out.Distribution[0].Key != tc.key || out.Phrase == "" {
			t.Fatalf("distribution head %+v phrase %q", out.Distribution[0], out.Phrase)
		}
	}
}

func TestDebug(t *testing.T) {
	s := readyService(t, []float64{0.7, 0.1, 0.1, 0.1})
	v, err := s.Debug(t.Context(), domain.TextInput{Text: "Nasi-nya DINGIN!!"})
	if err != nil {
		t.Fatalf("Debug: %v", err)
	}
	if v.Debug.Lowered != "nasi-nya dingin!!" || v.Debug.Cleaned != "nasi nya dingin" {
		t.Fatalf("stages %+v", v.Debug)
	}
	if v.Debug.Input == nil || v.Prediction.Key != "marah" {
		t.Fatalf("debug %+v", v)
	}
}

func TestModelUnavailable(t *testing.T) {
	s := failedService(t, engine(t, emotion.Basic4))

	_, err := s.Predict(t.Context(), domain.TextInput{Text: "makanannya enak"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Predict err=%v", err)
	}
	_, err = s.Debug(t.Context(), domain.TextInput{Text: "makanannya enak"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Debug err=%v", err)
	}

	// these work without a model
	ov, err := s.Override(t.Context(), domain.TextInput{Text: "Dana BOCOR, anggaran bocor terus"})
	if err != nil || !ov.Matched || ov.Label.Key != "marah" {
		t.Fatalf("Override = %+v, %v", ov, err)
	}
	ov, err = s.Override(t.Context(), domain.TextInput{Text: "menunya bervariasi"})
	if err != nil || ov.Matched || ov.Match != nil {
		t.Fatalf("no match = %+v, %v", ov, err)
	}
	labels, err := s.Labels(t.Context())
	if err != nil || labels.Scheme != "basic4" || len(labels.Labels) != 4 {
		t.Fatalf("Labels = %+v, %v", labels, err)
	}
	n, err := s.Normalize(t.Context(), domain.TextInput{Text: "@gizi Makanannya   ENAK!! https://mbg.id"})
	if err != nil || n.Cleaned != "makanannya enak" || n.Words != 2 || n.Empty {
		t.Fatalf("Normalize = %+v, %v", n, err)
	}

	bare := failedService(t, nil)
	if _, err := bare.Labels(t.Context()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Labels without any table err=%v", err)
	}
}

func TestEmptyInputRejected(t *testing.T) {
	s := failedService(t, engine(t, emotion.Basic4))
	in := domain.TextInput{Text: " \t\n"}
	if _, err := s.Predict(t.Context(), in); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("Predict err=%v", err)
	}
	if _, err := s.Normalize(t.Context(), in); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("Normalize err=%v", err)
	}
	if _, err := s.Override(t.Context(), in); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("Override err=%v", err)
	}

	n, err := s.Normalize(t.Context(), domain.TextInput{Text: "!!! 123 ???"})
	if err != nil || !n.Empty || n.Cleaned != "" {
		t.Fatalf("symbols only = %+v, %v", n, err)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	kit.MustPanic(t, func() { New(Options{}) })
}

func TestPresentTiesKeepIndexOrder(t *testing.T) {
	sc := emotion.MustLookup(emotion.Basic4)
	res := predict.Result{Index: 0, Label: sc.Labels[0], Probabilities: []float64{0.25, 0.25, 0.25, 0.25}, Confidence: 25}
	out := Present(sc, res, "x")
	for i, sh := range out.Distribution {
		if sh.Key != sc.Labels[i].Key {
			t.Fatalf("tie order changed at %d: %s", i, sh.Key)
		}
	}
	if out.ConfidenceText != "25.00%" {
		t.Fatalf("confidence text %q", out.ConfidenceText)
	}
}
