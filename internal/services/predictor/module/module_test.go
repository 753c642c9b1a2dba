package module

import (
	"errors"
	"testing"

	"mbgsense/internal/core/predict"
	"mbgsense/internal/modkit"
	modreg "mbgsense/internal/modkit/module"
	"mbgsense/internal/platform/config"
	perr "mbgsense/internal/platform/errors"
	kit "mbgsense/internal/platform/testkit"
)

func deps(t *testing.T, env map[string]string) modkit.Deps {
	t.Helper()
	for k, v := range env {
		t.Setenv("PT_"+k, v)
	}
	return modkit.Deps{Cfg: config.New().Prefix("PT_")}
}

func TestFromConfig(t *testing.T) {
	kwFile := kit.WriteFile(t, "keywords.json", `{"version":1,"lists":[{"category":"marah","priority":1,"phrases":["basi"]}]}`)
	d := deps(t, map[string]string{
		"MODEL_MANIFEST":       "/srv/models/lstm.yaml",
		"MODEL_ORT_LIB":        "/usr/lib/libonnxruntime.so",
		"MODEL_EAGER":          "false",
		"KEYWORDS_FILE":        kwFile,
		"TEXT_EXTRA_STOPWORDS": "nya, sih ,deh",
		"TEXT_STOPWORD_SPAN":   "4",
		"TEXT_STEM":            "false",
	})
	o := FromConfig(d.Cfg)
	if o.ManifestPath != "/srv/models/lstm.yaml" || o.ORTLibrary != "/usr/lib/libonnxruntime.so" {
		t.Fatalf("model paths %+v", o)
	}
	if o.Eager || o.Stem {
		t.Fatalf("bools %+v", o)
	}
	if o.KeywordsFile != kwFile || o.StopWordSpan != 4 {
		t.Fatalf("%+v", o)
	}
	if len(o.ExtraStopWords) != 3 || o.ExtraStopWords[1] != "sih" {
		t.Fatalf("stop words %q", o.ExtraStopWords)
	}

	t.Setenv("PT_KEYWORDS_FILE", kwFile+".missing")
	kit.MustPanic(t, func() { FromConfig(d.Cfg) })
}

func TestNew_LazyLoadAndOverrides(t *testing.T) {
	kit.Serial(t)
	var got predict.OpenOptions
	calls := 0
	kit.Swap(t, &open, func(o predict.OpenOptions) (*predict.Predictor, error) {
		calls++
		got = o
		return nil, perr.Artifactf("model manifest %s not found", o.ManifestPath)
	})

	m := New(deps(t, map[string]string{"MODEL_EAGER": "false"}), Options{ManifestPath: "/override.json", KeywordsFile: "/kw.json"})
	if calls != 0 {
		t.Fatal("lazy module loaded at build time")
	}
	ports := m.Ports().(Ports)
	if st, _ := ports.Predictor.State(); st != predict.StatePending {
		t.Fatalf("state=%s", st)
	}

	_, err := ports.Predictor.Predict(t.Context(), "makanannya basi")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err=%v want unavailable", err)
	}
	if got.ManifestPath != "/override.json" || got.KeywordsFile != "/kw.json" || got.Normalizer == nil {
		t.Fatalf("open options %+v", got)
	}

	// the failure is cached
	_, _ = ports.Predictor.Predict(t.Context(), "lagi")
	if calls != 1 {
		t.Fatalf("open called %d times", calls)
	}
	st, err := ports.Predictor.State()
	if st != predict.StateFailed || err == nil {
		t.Fatalf("state=%s err=%v", st, err)
	}

	// empty input is rejected before the load state is consulted
	if _, err := ports.Predictor.Predict(t.Context(), "  "); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty input err=%v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNew_EagerLoad(t *testing.T) {
	kit.Serial(t)
	calls := 0
	kit.Swap(t, &open, func(predict.OpenOptions) (*predict.Predictor, error) {
		calls++
		return nil, errors.New("onnxruntime missing")
	})
	m := New(deps(t, nil), Options{})
	if calls != 1 {
		t.Fatalf("eager module did not load, calls=%d", calls)
	}
	if st, _ := m.Ports().(Ports).Predictor.State(); st != predict.StateFailed {
		t.Fatalf("state=%s", st)
	}
}

func TestPortsThroughRegistry(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &open, func(predict.OpenOptions) (*predict.Predictor, error) { return nil, errors.New("x") })
	m := New(deps(t, map[string]string{"MODEL_EAGER": "0", "TEXT_STEM": "false"}), Options{})

	if m.Name() != "predictor" {
		t.Fatalf("name=%q", m.Name())
	}
	p := modreg.MustPortsOf[PredictPort](m)
	if p == nil {
		t.Fatal("no PredictPort")
	}

	norm := m.Ports().(Ports).Normalizer
	if got := norm.Normalize("Makanannya ENAK dan murah!!! #MBG @gizi https://x.id"); got != "makanannya enak murah" {
		t.Fatalf("normalize=%q", got)
	}
}

func TestKeywordsWithoutModel(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &open, func(predict.OpenOptions) (*predict.Predictor, error) { return nil, errors.New("x") })

	m := New(deps(t, map[string]string{"MODEL_EAGER": "false", "MODEL_SCHEME": "extended6"}), Options{})
	kw := m.Ports().(Ports).Keywords
	if kw == nil {
		t.Fatal("keyword engine missing")
	}
	if kw.Scheme().Name != "extended6" {
		t.Fatalf("scheme=%s", kw.Scheme().Name)
	}
	match, ok := kw.Check("Pelayanan sangat KORUPSI dan busuk")
	if !ok || match.Category != "marah" {
		t.Fatalf("match=%+v ok=%v", match, ok)
	}

	bad := kit.WriteFile(t, "keywords.json", "{")
	m = New(deps(t, map[string]string{"MODEL_EAGER": "false"}), Options{KeywordsFile: bad})
	if m.Ports().(Ports).Keywords != nil {
		t.Fatal("broken table should leave Keywords nil")
	}
}
