package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "mbgsense/internal/platform/errors"
	phttp "mbgsense/internal/platform/net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type echoIn struct {
	Text string `json:"text" validate:"comment"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	chimw.RequestID(h).ServeHTTP(rec, req)
	return rec
}

func TestCall_SuccessAndErrors(t *testing.T) {
	cases := []struct {
		name   string
		fn     func(*http.Request) (any, error)
		status int
		code   perr.ErrorCode
	}{
		{
			name:   "data",
			fn:     func(*http.Request) (any, error) { return map[string]int{"n": 4}, nil },
			status: http.StatusOK,
		},
		{
			name:   "explicit response",
			fn:     func(*http.Request) (any, error) { return phttp.Response{Status: http.StatusAccepted, Body: "queued"}, nil },
			status: http.StatusAccepted,
		},
		{
			name:   "unavailable",
			fn:     func(*http.Request) (any, error) { return nil, perr.Unavailablef("model unavailable") },
			status: http.StatusServiceUnavailable,
			code:   perr.ErrorCodeUnavailable,
		},
		{
			name:   "foreign error",
			fn:     func(*http.Request) (any, error) { return nil, errors.New("disk on fire") },
			status: http.StatusInternalServerError,
			code:   perr.ErrorCodeUnknown,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(http.HandlerFunc(phttp.Call(tc.fn)), http.MethodGet, "/", "")
			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d", rec.Code, tc.status)
			}
			env := decode(t, rec)
			if env.StatusCode != tc.status || env.RequestID != "rid-1" || env.Code != tc.code {
				t.Fatalf("unexpected envelope %+v", env)
			}
			if tc.code == 0 && env.Data == nil {
				t.Fatal("data missing")
			}
		})
	}
}

func TestNoContent(t *testing.T) {
	h := phttp.Call(func(*http.Request) (any, error) { return phttp.Response{Status: http.StatusNoContent}, nil })
	rec := serve(http.HandlerFunc(h), http.MethodGet, "/", "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestJSONHandler(t *testing.T) {
	h := http.HandlerFunc(phttp.JSONHandler(func(_ *http.Request, in echoIn) (any, error) {
		return map[string]string{"text": in.Text}, nil
	}))

	cases := []struct {
		name   string
		body   string
		status int
		code   perr.ErrorCode
		field  string
	}{
		{name: "ok", body: `{"text":"makanannya enak"}`, status: http.StatusOK},
		{name: "empty body", body: "", status: http.StatusBadRequest, code: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"text":`, status: http.StatusBadRequest, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"text":"a","lang":"id"}`, status: http.StatusBadRequest, code: perr.ErrorCodeJSON},
		{name: "trailing data", body: `{"text":"a"} {}`, status: http.StatusBadRequest, code: perr.ErrorCodeJSON},
		{name: "missing text", body: `{}`, status: http.StatusBadRequest, code: perr.ErrorCodeValidation, field: "text"},
		{name: "blank text", body: `{"text":"   "}`, status: http.StatusBadRequest, code: perr.ErrorCodeValidation, field: "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			env := decode(t, rec)
			if env.Code != tc.code || env.Field != tc.field {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}
