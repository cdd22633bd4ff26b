// Package module holds the module contract and a bootstrap port registry
package module

import phttp "filterdetect/internal/platform/net/http"

// Module mounts routes and may expose ports to other modules.
// Kept apart from modkit so a module's own ports package can import it
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
