// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"filterdetect/internal/core/version"
	"filterdetect/internal/modkit/httpkit"
	"filterdetect/internal/modkit/swaggerkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	RulesVersion int
	LocalTable   int
	PG           any
	Redis        any
	Now          func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/rules", h.rules)

	swaggerkit.Register(docs)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
	Uptime  int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok degraded
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// RulesResponse describes the loaded rule pack
type RulesResponse struct {
	Version    int `json:"version"`
	LocalTable int `json:"local_table"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.deps.Now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     now.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready never fails the probe on a backend: the resolver degrades a failed
// tier to a miss, so a down backend only means degraded
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	checks := []ReadyCheck{check("pg", h.deps.PG), check("redis", h.deps.Redis)}
	overall := "ok"
	for _, c := range checks {
		if c.Status == "fail" {
			overall = "degraded"
		}
	}
	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName, h.deps.RulesVersion), nil
}

func (h *handlers) rules(_ *http.Request) (any, error) {
	return RulesResponse{Version: h.deps.RulesVersion, LocalTable: h.deps.LocalTable}, nil
}

func docs(spec map[string]any) {
	for path, summary := range map[string]string{
		"/meta/health":  "Liveness and uptime",
		"/meta/ready":   "Backend readiness; failures report degraded",
		"/meta/version": "Build and rule pack version",
		"/meta/rules":   "Loaded rule pack summary",
	} {
		swaggerkit.AddPath(spec, path, http.MethodGet, map[string]any{
			"tags":      []any{"Meta"},
			"summary":   summary,
			"responses": map[string]any{"200": map[string]any{"description": "ok"}},
		})
	}
}
