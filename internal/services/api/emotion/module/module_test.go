package module

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	"mbgsense/internal/modkit"
	modreg "mbgsense/internal/modkit/module"
	perr "mbgsense/internal/platform/errors"
	phttp "mbgsense/internal/platform/net/http"
	kit "mbgsense/internal/platform/testkit"
	"mbgsense/internal/services/api/emotion/domain"
)

type downPort struct{ *predict.Loader }

func (d downPort) Predictor() (*predict.Predictor, error) { return d.Load() }

func ports(t *testing.T) Ports {
	t.Helper()
	l := predict.NewLoader(func() (*predict.Predictor, error) { return nil, perr.Artifactf("no model") })
	kw, err := predict.BindKeywords("", emotion.MustLookup(emotion.Basic4))
	if err != nil {
		t.Fatal(err)
	}
	return Ports{Predictor: downPort{l}, Normalizer: normalize.New(), Keywords: kw}
}

func TestNew_RequiresPorts(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{}) })
	kit.MustPanic(t, func() { New(modkit.Deps{}, modkit.WithPorts(Ports{})) })
}

func TestMountRoutes(t *testing.T) {
	m := New(modkit.Deps{}, modkit.WithPorts(ports(t)))
	if m.Name() != "emotion" {
		t.Fatalf("name=%q", m.Name())
	}
	if _, ok := modreg.PortsOf[domain.ServicePort](m); !ok {
		t.Fatal("service port not exposed")
	}

	r := phttp.NewRouter()
	m.MountRoutes(r)

	cases := []struct {
		method, path, body string
		status             int
	}{
		{stdhttp.MethodGet, "/emotion/labels", "", stdhttp.StatusOK},
		{stdhttp.MethodPost, "/emotion/override", `{"text":"Dapurnya KOTOR sekali"}`, stdhttp.StatusOK},
		{stdhttp.MethodPost, "/emotion/normalize", `{"text":"enak"}`, stdhttp.StatusOK},
		{stdhttp.MethodPost, "/emotion/predict", `{"text":"enak"}`, stdhttp.StatusServiceUnavailable},
		{stdhttp.MethodGet, "/predict", "", stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if rec.Code != tc.status {
			t.Fatalf("%s %s = %d want %d: %s", tc.method, tc.path, rec.Code, tc.status, rec.Body.String())
		}
	}
}

func TestWithPrefixOverride(t *testing.T) {
	m := New(modkit.Deps{}, modkit.WithPorts(ports(t)), modkit.WithPrefix("komentar"))
	r := phttp.NewRouter()
	m.MountRoutes(r)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/komentar/labels", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}
