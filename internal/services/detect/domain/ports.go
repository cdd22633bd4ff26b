package domain

import (
	"context"

	"filterdetect/internal/core/rulepack"
)

// RegistryPort is the external keyed cross-reference lookup.
// A missing key is (nil, nil)
type RegistryPort interface {
	FindCrossReference(ctx context.Context, code string) (*CrossReference, error)
}

// FinderPort is one brand's equivalent finder
type FinderPort interface {
	GetBrandData(ctx context.Context, code string) (*BrandData, error)
}

// ResolverPort is what the resolver offers: never errors, never panics
type ResolverPort interface {
	Resolve(ctx context.Context, raw string) DetectionResult
	ResolveBatch(ctx context.Context, raws []string) []DetectionResult
}

// Finders routes brands to their finder; absent brands have none
type Finders map[string]FinderPort

// For returns the finder of brand, or nil
func (f Finders) For(brand string) FinderPort {
	if f == nil {
		return nil
	}
	return f[brand]
}

// ForDuty routes a duty to a finder brand: HD and UNKNOWN to Donaldson, LD to FRAM
func ForDuty(d rulepack.Duty) string {
	if d == rulepack.DutyLD {
		return rulepack.BrandFram
	}
	return rulepack.BrandDonaldson
}

// Ports are the collaborators injected into the detect module. Nil members
// disable their tier
type Ports struct {
	Registry RegistryPort
	Finders  Finders
}
