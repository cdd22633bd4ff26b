// Package api composes the HTTP API from its modules
package api

import (
	"filterdetect/internal/core/version"
	"filterdetect/internal/platform/config"
	"filterdetect/internal/platform/logger"
	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/net/middleware"
	"filterdetect/internal/platform/store"

	"filterdetect/internal/modkit"
	"filterdetect/internal/modkit/httpkit"
	"filterdetect/internal/modkit/module"
	"filterdetect/internal/modkit/swaggerkit"

	metamod "filterdetect/internal/services/api/meta/module"
	detectmod "filterdetect/internal/services/detect/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Extra options for the detect module, mainly injected ports in tests
	Detect []modkit.Option
}

// Mount mounts the API onto the given router
func Mount(r phttp.Router, opt Options) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.DepsFromStore(opt.Config, *log, opt.Store)

	mods := []module.Module{
		metamod.New(deps),
		detectmod.New(deps, opt.Detect...),
	}

	r.Use(middleware.Heartbeat("/health"))
	swaggerkit.Mount(r, version.Version(), opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackConfigFromEnv(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			// ports by module name, for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
