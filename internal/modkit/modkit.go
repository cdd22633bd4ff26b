package modkit

import "filterdetect/internal/modkit/module"

// Module is what the API composes
type Module = module.Module

// Builder is the constructor shape modules export
type Builder func(Deps, ...Option) Module
