package http

import (
	"context"
	stderrs "errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filterdetect/internal/modkit/swaggerkit"
	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps) *chi.Mux {
	t.Helper()
	swaggerkit.Reset()
	t.Cleanup(swaggerkit.Reset)
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/meta", func(r phttp.Router) { Register(r, d) })
	return m
}

func get(m *chi.Mux, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	return rr
}

func TestMetaEndpoints(t *testing.T) {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m := serve(t, Deps{
		ServiceName:  "filterdetect-api",
		StartedAt:    started,
		RulesVersion: 1,
		LocalTable:   12,
		PG:           pinger{},
		Now:          func() time.Time { return started.Add(90 * time.Second) },
	})

	cases := []struct {
		path string
		want []string
	}{
		{"/meta/health", []string{`"ok":true`, `"uptime":90`, `"service":"filterdetect-api"`}},
		{"/meta/ready", []string{`"status":"ok"`, `{"name":"pg","status":"ok"}`, `{"name":"redis","status":"skipped"}`}},
		{"/meta/version", []string{`"rules_version":1`, `"service":"filterdetect-api"`}},
		{"/meta/rules", []string{`"local_table":12`}},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			rr := get(m, c.path)
			if rr.Code != stdhttp.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			for _, w := range c.want {
				testkit.MustContain(t, rr.Body.String(), w)
			}
		})
	}
}

func TestReadyDegraded(t *testing.T) {
	m := serve(t, Deps{PG: pinger{err: stderrs.New("dial tcp: refused")}, Redis: struct{}{}})
	rr := get(m, "/meta/ready")
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	testkit.MustContain(t, rr.Body.String(), `"status":"degraded"`)
	testkit.MustContain(t, rr.Body.String(), `"error":"dial tcp: refused"`)
	testkit.MustContain(t, rr.Body.String(), `{"name":"redis","status":"unknown"}`)
}
