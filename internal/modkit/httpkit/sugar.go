package httpkit

import (
	"net/http"
	"net/url"

	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/net/http/bind"
)

// Get mounts a body-less handler on GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON mounts a handler on POST with a decoded and validated T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// URLParam returns a decoded route parameter
func URLParam(r *http.Request, key string) string {
	raw := phttp.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// Validate runs struct validation with the platform validator
func Validate(v any) error { return bind.Validate(v) }
