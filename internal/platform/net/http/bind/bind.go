// Package bind decodes JSON request bodies and validates them with struct tags.
// Validation messages are translated to English or Indonesian following Accept-Language
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "mbgsense/internal/platform/errors"
	"mbgsense/internal/platform/logger"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	id_translations "github.com/go-playground/validator/v10/translations/id"
)

// MaxBody caps request bodies
const MaxBody = 1 << 20

// Validator bundles the validator with its translators
type Validator struct {
	V   *validator.Validate
	uni *ut.UniversalTranslator
}

var (
	once sync.Once
	svc  *Validator
)

// Get returns the process-wide validator, building it on first use
func Get() *Validator {
	once.Do(func() {
		english := en.New()
		uni := ut.New(english, english, id.New())

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
		v.RegisterAlias("comment", "required,notblank,max=5000")

		enT, _ := uni.GetTranslator("en")
		idT, _ := uni.GetTranslator("id")
		_ = en_translations.RegisterDefaultTranslations(v, enT)
		_ = id_translations.RegisterDefaultTranslations(v, idT)
		registerMessage(v, enT, "notblank", "{0} must not be blank")
		registerMessage(v, idT, "notblank", "{0} tidak boleh kosong")

		svc = &Validator{V: v, uni: uni}
	})
	return svc
}

// jsonName reports fields by their json name
func jsonName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

// Translator picks a translator from an Accept-Language header, English by default
func (s *Validator) Translator(acceptLanguage string) ut.Translator {
	var langs []string
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		base, _, _ := strings.Cut(tag, "-")
		langs = append(langs, base)
	}
	if len(langs) == 0 {
		return s.uni.GetFallback()
	}
	t, _ := s.uni.FindTranslator(langs...)
	return t
}

// Struct validates v and maps the first failure to a validation error carrying its field
func (s *Validator) Struct(v any, acceptLanguage string) error {
	err := s.V.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Named("bind").Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fe.Translate(s.Translator(acceptLanguage))
		return perr.WithField(perr.Validationf("%s", msg), fe.Field())
	}
	return perr.Validationf("%s", err.Error())
}

// ParseJSON decodes exactly one JSON value into T, rejecting unknown fields and
// trailing data, then validates it
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero T
	if r.Body == nil {
		return zero, perr.JSONErrf("empty body")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBody+1))
	if err != nil {
		return zero, perr.JSONErrf("read body: %v", err)
	}
	if len(body) > MaxBody {
		return zero, perr.JSONErrf("body larger than %d bytes", MaxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Get().Struct(dst, r.Header.Get("Accept-Language")); err != nil {
		return zero, err
	}
	return dst, nil
}
