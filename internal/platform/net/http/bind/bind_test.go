package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "mbgsense/internal/platform/errors"
)

type comment struct {
	Text   string `json:"text" validate:"comment"`
	Source string `json:"source,omitempty" validate:"omitempty,oneof=web cli"`
}

func post(body, lang string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if lang != "" {
		r.Header.Set("Accept-Language", lang)
	}
	return r
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[comment](post(`{"text":"programnya bagus","source":"web"}`, ""))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.Text != "programnya bagus" || got.Source != "web" {
		t.Fatalf("got %+v", got)
	}

	_, err = ParseJSON[comment](post(`{"text":"ok","source":"fax"}`, ""))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err=%v want validation", err)
	}
	if e, _ := perr.As(err); e.Field() != "source" {
		t.Fatalf("field=%q", e.Field())
	}

	big := `{"text":"` + strings.Repeat("a", MaxBody) + `"}`
	if _, err := ParseJSON[comment](post(big, "")); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("oversized body err=%v", err)
	}
}

func TestValidationMessagesFollowAcceptLanguage(t *testing.T) {
	cases := []struct {
		lang string
		want string
	}{
		{lang: "", want: "text is a required field"},
		{lang: "en-US,en;q=0.9", want: "text is a required field"},
		{lang: "id-ID,id;q=0.9,en;q=0.8", want: "text wajib diisi"},
		{lang: "fr-FR", want: "text is a required field"},
	}
	for _, tc := range cases {
		t.Run(tc.lang, func(t *testing.T) {
			_, err := ParseJSON[comment](post(`{}`, tc.lang))
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("err=%v", err)
			}
			if e, _ := perr.As(err); e.Error() != tc.want {
				t.Fatalf("message=%q want %q", e.Error(), tc.want)
			}
		})
	}

	_, err := ParseJSON[comment](post(`{"text":"  "}`, "id"))
	if e, _ := perr.As(err); e == nil || e.Error() != "text tidak boleh kosong" {
		t.Fatalf("blank message=%v", err)
	}
}
