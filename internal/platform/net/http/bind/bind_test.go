package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "filterdetect/internal/platform/errors"
	kit "filterdetect/internal/platform/testkit"
)

type detectBody struct {
	Query string `json:"query" validate:"partquery"`
}

type batchBody struct {
	Queries []string `json:"queries" validate:"required,min=1,max=3,dive,partquery"`
}

func post(body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	}
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		ok    bool
	}{
		{name: "valid", body: `{"query":"1R1808"}`, ok: true},
		{name: "empty body", body: "", code: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"query":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"query":"x","extra":1}`, code: perr.ErrorCodeJSON},
		{name: "trailing", body: `{"query":"x"}{"query":"y"}`, code: perr.ErrorCodeJSON},
		{name: "blank query", body: `{"query":"   "}`, code: perr.ErrorCodeValidation, field: "query"},
		{name: "too long", body: `{"query":"` + strings.Repeat("A", MaxQueryLen+1) + `"}`, code: perr.ErrorCodeValidation, field: "query"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseJSON[detectBody](post(c.body))
			if c.ok {
				if err != nil || got.Query != "1R1808" {
					t.Fatalf("got %+v, %v", got, err)
				}
				return
			}
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %v (%v), want %v", perr.CodeOf(err), err, c.code)
			}
			if c.field != "" {
				e, _ := perr.As(err)
				if e.Field() != c.field {
					t.Fatalf("field = %q, want %q", e.Field(), c.field)
				}
			}
		})
	}
}

func TestBatchValidationMessages(t *testing.T) {
	_, err := ParseJSON[batchBody](post(`{"queries":["a","b","c","d"]}`))
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	kit.MustContain(t, err.Error(), "queries must be at most 3")

	_, err = ParseJSON[batchBody](post(`{"queries":["ok"," "]}`))
	kit.MustContain(t, err.Error(), "must be a non-blank part number")

	if _, err := ParseJSON[batchBody](post(`{"queries":["P551808","PH8A"]}`)); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestMaxBytes(t *testing.T) {
	body := `{"query":"` + strings.Repeat("A", 40) + `"}`
	_, err := ParseJSON[detectBody](post(body), Options{MaxBytes: 10, DisallowUnknown: true})
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected truncated body to fail as JSON, got %v", err)
	}
}

func TestFieldAndMessageForeign(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
	if _, m := FieldAndMessage(perr.Internalf("x")); m != "x" {
		t.Fatalf("foreign message = %q", m)
	}
}
