package module

import (
	"time"

	"filterdetect/internal/platform/config"
	dsvc "filterdetect/internal/services/detect/service"
)

// Options controls resolver behavior and finder client settings
type Options struct {
	Resolver dsvc.Config

	// Finder clients; a blank URL leaves that brand without a finder
	DonaldsonURL string
	FramURL      string
	UserAgent    string
	CacheTTL     time.Duration

	BatchMax int
}

// FromConfig reads CORE_DETECT_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("CORE_DETECT_")
	return Options{
		Resolver: dsvc.Config{
			FinderTimeout:   dc.MayDuration("FINDER_TIMEOUT", 30*time.Second),
			RegistryTimeout: dc.MayDuration("REGISTRY_TIMEOUT", 10*time.Second),
			EnrichDirect:    dc.MayBool("ENRICH_DIRECT", true),
			EnrichOnHit:     dc.MayBool("ENRICH_ON_HIT", true),
			BatchWorkers:    dc.MayInt("BATCH_WORKERS", 4),
		},
		DonaldsonURL: dc.MayString("DONALDSON_URL", ""),
		FramURL:      dc.MayString("FRAM_URL", ""),
		UserAgent:    dc.MayString("FINDER_UA", "filterdetect-finder"),
		CacheTTL:     dc.MayDuration("CACHE_TTL", 24*time.Hour),
		BatchMax:     dc.MayInt("BATCH_MAX", 50),
	}
}
