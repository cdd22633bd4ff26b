// Package httpkit re-exports the platform http surface for modules, so
// module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "filterdetect/internal/platform/net/http"
)

type (
	// Envelope is the wire envelope
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the platform handler shape
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK is a 200 with data
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to its status and error envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a body-less handler; a returned Response is passed through untouched
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
