// Package module wires the detect resolver into the API using modkit
package module

import (
	"filterdetect/internal/adapters/finder"
	"filterdetect/internal/core/rulepack"
	modkit "filterdetect/internal/modkit"
	"filterdetect/internal/modkit/httpkit"
	"filterdetect/internal/modkit/repokit"
	"filterdetect/internal/platform/logger"

	dom "filterdetect/internal/services/detect/domain"
	dhttp "filterdetect/internal/services/detect/http"
	drepo "filterdetect/internal/services/detect/repo"
	dsvc "filterdetect/internal/services/detect/service"
)

// Module implements the detect API module
type Module struct {
	b        modkit.Built
	opts     Options
	resolver *dsvc.Resolver
}

// New constructs the detect module. Collaborators come from injected
// domain.Ports when given, else from deps and CORE_DETECT_* config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("detect"),
		modkit.WithPrefix("/detect"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	return &Module{b: b, opts: cfg, resolver: NewResolver(deps, cfg, b.Ports)}
}

// NewResolver builds the resolver without any HTTP surface; the CLI uses it directly
func NewResolver(deps modkit.Deps, cfg Options, injected any) *dsvc.Resolver {
	log := logger.Named("detect")
	ports := collaborators(deps, cfg)
	if p, ok := injected.(dom.Ports); ok {
		ports = p
	}

	var ropts []dsvc.Option
	if ports.Registry != nil {
		ropts = append(ropts, dsvc.WithRegistry(ports.Registry))
	}
	if len(ports.Finders) > 0 {
		ropts = append(ropts, dsvc.WithFinders(ports.Finders))
	}

	p := rulepack.MustDefault()
	log.Info().
		Int("rules_version", p.Version).
		Int("local_table", p.Len()).
		Bool("registry", ports.Registry != nil).
		Int("finders", len(ports.Finders)).
		Msg("detect resolver ready")
	return dsvc.New(p, cfg.Resolver, ropts...)
}

// collaborators builds the registry from deps.PG and the finders from config,
// fronted by the KV cache when one is configured
func collaborators(deps modkit.Deps, cfg Options) dom.Ports {
	var ports dom.Ports
	if reg, ok := repokit.BindOptional(drepo.NewPG(), deps.PG); ok {
		ports.Registry = reg
	}

	add := func(brand, url string) {
		if url == "" {
			return
		}
		if ports.Finders == nil {
			ports.Finders = dom.Finders{}
		}
		c := finder.NewClient(finder.Options{
			Brand:     brand,
			BaseURL:   url,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Resolver.FinderTimeout,
		})
		ports.Finders[brand] = finder.NewCached(c, deps.KV, brand, cfg.CacheTTL)
	}
	add(rulepack.BrandDonaldson, cfg.DonaldsonURL)
	add(rulepack.BrandFram, cfg.FramURL)
	return ports
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		dhttp.Register(rr, dhttp.Deps{Resolver: m.resolver, BatchMax: m.opts.BatchMax})
	})
}

// Ports exposes the resolver to other modules
func (m *Module) Ports() any { return dom.ResolverPort(m.resolver) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }
