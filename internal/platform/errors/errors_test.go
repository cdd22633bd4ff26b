package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapAndInspect(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("dial tcp: refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "finder %s", "donaldson")
	if err.Error() != "finder donaldson: dial tcp: refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("cause lost")
	}
	if !IsCode(err, ErrorCodeUnavailable) || HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("code lost: %v", CodeOf(err))
	}

	outer := fmt.Errorf("resolve: %w", err)
	if CodeOf(outer) != ErrorCodeUnavailable {
		t.Fatalf("CodeOf through fmt wrap = %v", CodeOf(outer))
	}
	if CodeOf(cause) != ErrorCodeUnknown {
		t.Fatalf("foreign error should be unknown")
	}
}

func TestFieldAndOpCopyOnWrite(t *testing.T) {
	base := InvalidArgf("bad query")
	tagged := WithOp(WithField(base, "query"), "detect")

	e, _ := As(tagged)
	if e.Field() != "query" || e.Op() != "detect" {
		t.Fatalf("tags missing: %+v", e)
	}
	b, _ := As(base)
	if b.Field() != "" || b.Op() != "" {
		t.Fatalf("original mutated")
	}

	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign || WithOp(foreign, "o") != foreign {
		t.Fatalf("foreign errors should pass through")
	}
}

func TestWire(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
	w := WireFrom(WithField(JSONErrf("broken"), "queries"))
	if w.Code != ErrorCodeJSON || w.Message != "broken" || w.Field != "queries" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(stderrs.New("plain")); w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("foreign wire = %+v", w)
	}
	st, w2 := HTTP(Timeoutf("registry"))
	if st != http.StatusGatewayTimeout || w2.Code != ErrorCodeTimeout {
		t.Fatalf("HTTP = %d %+v", st, w2)
	}
	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) = %d", st)
	}
}

func TestWrapIfAndRetryable(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if !Retryable(Timeoutf("slow")) || !Retryable(Unavailablef("down")) {
		t.Fatalf("timeout/unavailable should be retryable")
	}
	if Retryable(NotFoundf("nope")) {
		t.Fatalf("not found should not be retryable")
	}
	if ErrorCodeTimeout.String() != "timeout" || ErrorCode(77).String() != "unknown" {
		t.Fatalf("String() mismatch")
	}
}
