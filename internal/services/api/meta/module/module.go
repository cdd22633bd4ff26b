// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"filterdetect/internal/core/rulepack"
	modkit "filterdetect/internal/modkit"
	"filterdetect/internal/modkit/httpkit"

	metahttp "filterdetect/internal/services/api/meta/http"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "filterdetect-api"

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	b         modkit.Built
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{deps: deps, b: b, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	p := rulepack.MustDefault()
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName:  ServiceName,
			StartedAt:    m.startedAt,
			RulesVersion: p.Version,
			LocalTable:   p.Len(),
			PG:           m.deps.PG,
			Redis:        m.deps.KV,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
