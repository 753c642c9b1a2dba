package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	phttp "mbgsense/internal/platform/net/http"
	"mbgsense/internal/platform/net/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestRecoverJSON_WritesEnvelope(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := chain(boom, middleware.RequestID(), middleware.RecoverJSON)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/emotion/predict", nil)
	req.Header.Set("X-Request-ID", "rid-panic")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") != "rid-panic" {
		t.Fatalf("request id not mirrored: %q", rec.Header().Get("X-Request-ID"))
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RequestID != "rid-panic" || env.Error != "internal error" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := middleware.AccessLog(middleware.AccessLogOptions{Slow: time.Nanosecond})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = io.WriteString(w, "ok")
		}),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusAccepted || rec.Body.String() != "ok" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://mbg.example.id"}})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/emotion/predict", nil)
	req.Header.Set("Origin", "https://mbg.example.id")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://mbg.example.id" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/emotion/predict", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestStack_ServesThroughWholeChain(t *testing.T) {
	mws := middleware.Stack(middleware.StackOptions{Inflight: 2, QueueWait: time.Second})
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phttp.JSON(w, http.StatusOK, map[string]string{"request_id": phttp.RequestID(r)})
	}), mws...)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/labels/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "request_id") {
		t.Fatalf("body=%q", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatal("no-cache headers missing")
	}
}

func TestHeartbeat(t *testing.T) {
	h := middleware.Heartbeat("/ping")(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}
