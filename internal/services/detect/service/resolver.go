// Package service implements the homologation resolver
package service

import (
	"context"
	"time"

	"filterdetect/internal/core/detector"
	"filterdetect/internal/core/normalize"
	"filterdetect/internal/core/record"
	"filterdetect/internal/core/rulepack"
	perr "filterdetect/internal/platform/errors"
	"filterdetect/internal/platform/logger"
	dom "filterdetect/internal/services/detect/domain"
	"filterdetect/internal/services/detect/guardrails"

	"golang.org/x/sync/errgroup"
)

// Config for the resolver
type Config struct {
	FinderTimeout   time.Duration
	RegistryTimeout time.Duration
	EnrichDirect    bool
	EnrichOnHit     bool
	BatchWorkers    int
}

// DefaultConfig matches the env defaults
func DefaultConfig() Config {
	return Config{
		FinderTimeout:   30 * time.Second,
		RegistryTimeout: 10 * time.Second,
		EnrichDirect:    true,
		EnrichOnHit:     true,
		BatchWorkers:    4,
	}
}

// Resolver implements domain.ResolverPort. It holds read-only state only
type Resolver struct {
	pack     *rulepack.Pack
	det      *detector.Detector
	norm     *normalize.Normalizer
	compiler *record.Compiler
	registry dom.RegistryPort
	finders  dom.Finders
	cfg      Config
}

// Option configures a Resolver
type Option func(*Resolver)

// WithRegistry enables the registry tier
func WithRegistry(r dom.RegistryPort) Option { return func(x *Resolver) { x.registry = r } }

// WithFinders enables the finder tier and enrichment for the given brands
func WithFinders(f dom.Finders) Option { return func(x *Resolver) { x.finders = f } }

// WithCompiler replaces the record compiler, typically to freeze clock and ids
func WithCompiler(c *record.Compiler) Option { return func(x *Resolver) { x.compiler = c } }

var _ dom.ResolverPort = (*Resolver)(nil)

// New builds a resolver over p
func New(p *rulepack.Pack, cfg Config, opts ...Option) *Resolver {
	def := DefaultConfig()
	if cfg.FinderTimeout <= 0 {
		cfg.FinderTimeout = def.FinderTimeout
	}
	if cfg.RegistryTimeout <= 0 {
		cfg.RegistryTimeout = def.RegistryTimeout
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = def.BatchWorkers
	}
	r := &Resolver{
		pack: p,
		det:  detector.New(p),
		norm: normalize.New(),
		cfg:  cfg,
	}
	for _, o := range opts {
		o(r)
	}
	if r.compiler == nil {
		r.compiler = record.New(p)
	}
	return r
}

// Resolve turns one raw query into a record. It never fails: unresolvable or
// panicking resolutions come back as the degraded record
func (r *Resolver) Resolve(ctx context.Context, raw string) (out dom.DetectionResult) {
	q := r.norm.Normalize(raw)
	ctx = logger.WithQuery(ctx, q)
	defer func() {
		if rec := recover(); rec != nil {
			err := perr.PanicErrf("resolve panicked: %v", rec)
			logger.C(ctx).Error().Err(err).Msg("resolve recovered")
			out = r.compiler.Degraded(q, err)
		}
	}()

	if q == "" {
		return r.compiler.Degraded(q, perr.InvalidArgf("empty query"))
	}

	c := r.det.Classify(q)
	if c.Direct != nil {
		return r.direct(ctx, c)
	}
	return r.oem(ctx, c)
}

// direct handles a query already written as a competitor part number
func (r *Resolver) direct(ctx context.Context, c detector.Classification) dom.DetectionResult {
	ref := c.Direct
	in := record.Input{
		Query:       c.Query,
		Family:      r.backfill(c.Family, nil, ref.PartNumber),
		Duty:        ref.Duty,
		SourceBrand: ref.Brand,
		OEMCode:     ref.PartNumber,
		SourceCode:  ref.PartNumber,
		Tier:        record.TierDirect,
	}
	if r.cfg.EnrichDirect {
		if bd := r.fetch(ctx, ref.Brand, ref.PartNumber); bd != nil {
			e := bd.Enrichment
			in.Enrichment, in.EnrichedBy = &e, ref.Brand
		}
	}
	return r.compiler.Compile(in)
}

// oem walks local table, registry, finder and fallback in order
func (r *Resolver) oem(ctx context.Context, c detector.Classification) dom.DetectionResult {
	code := c.Code
	local, found := r.pack.Lookup(code)
	if !found && rulepack.Key(code) != rulepack.Key(c.Query) {
		// the extracted code missed but the whole query is a table key; every
		// later tier and the fallback carry that key too
		if local, found = r.pack.Lookup(c.Query); found {
			code = c.Query
		}
	}
	in := record.Input{
		Query:       c.Query,
		Duty:        c.Duty,
		SourceBrand: c.Source,
		OEMCode:     code,
	}
	var tableFamily *rulepack.Family
	if found {
		tableFamily = &local.Family
	}

	brand, hit, tier := "", "", record.TierFallback
	if found {
		if b, h, ok := rulepack.Gate(c.Duty, local.Donaldson, local.Fram); ok {
			brand, hit, tier = b, h, record.TierLocal
		}
	}
	if hit == "" {
		if b, h, ok := r.fromRegistry(ctx, code, c.Duty); ok {
			brand, hit, tier = b, h, record.TierRegistry
		}
	}

	var enrich *dom.BrandData
	if hit == "" {
		b := dom.ForDuty(c.Duty)
		if bd := r.fetch(ctx, b, code); bd != nil {
			brand, hit, tier, enrich = b, normalize.Normalize(bd.Code), record.TierFinder, bd
		} else {
			logger.C(ctx).Debug().Str("tier", string(record.TierFinder)).Msg("miss")
		}
	} else if r.cfg.EnrichOnHit {
		enrich = r.fetch(ctx, brand, hit)
	}

	if hit == "" {
		hit = code
	} else if in.Duty == rulepack.DutyUnknown {
		in.Duty = rulepack.DutyOf(brand)
	}

	in.SourceCode, in.Tier = hit, tier
	in.Family = r.backfill(c.Family, tableFamily, hit)
	if enrich != nil {
		e := enrich.Enrichment
		in.Enrichment, in.EnrichedBy = &e, brand
	}
	return r.compiler.Compile(in)
}

// fromRegistry asks the registry, treating errors and timeouts as misses
func (r *Resolver) fromRegistry(ctx context.Context, code string, d rulepack.Duty) (string, string, bool) {
	if r.registry == nil {
		return "", "", false
	}
	ref, err := guardrails.Bounded(ctx, r.cfg.RegistryTimeout, func(cctx context.Context) (*dom.CrossReference, error) {
		return r.registry.FindCrossReference(cctx, rulepack.Key(code))
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("tier", string(record.TierRegistry)).Msg("registry lookup failed")
		return "", "", false
	}
	if ref == nil {
		logger.C(ctx).Debug().Str("tier", string(record.TierRegistry)).Msg("miss")
		return "", "", false
	}
	return rulepack.Gate(d, ref.Donaldson, ref.Fram)
}

// fetch calls brand's finder for code. Missing finders, errors, timeouts and
// not-found answers all come back nil
func (r *Resolver) fetch(ctx context.Context, brand, code string) *dom.BrandData {
	f := r.finders.For(brand)
	if f == nil {
		return nil
	}
	bd, err := guardrails.Bounded(ctx, r.cfg.FinderTimeout, func(cctx context.Context) (*dom.BrandData, error) {
		return f.GetBrandData(cctx, code)
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("tier", string(record.TierFinder)).Str("brand", brand).Msg("finder failed")
		return nil
	}
	if bd == nil || !bd.Found || normalize.Normalize(bd.Code) == "" {
		return nil
	}
	return bd
}

// backfill keeps a classified family, else takes the table's, else detects on the homologated code
func (r *Resolver) backfill(f rulepack.Family, table *rulepack.Family, code string) rulepack.Family {
	if f != rulepack.FamilyUnknown {
		return f
	}
	if table != nil && *table != rulepack.FamilyUnknown {
		return *table
	}
	return r.det.Family(normalize.Normalize(code))
}

// ResolveBatch resolves every query concurrently and keeps input order
func (r *Resolver) ResolveBatch(ctx context.Context, raws []string) []dom.DetectionResult {
	out := make([]dom.DetectionResult, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.BatchWorkers)
	for i, raw := range raws {
		g.Go(func() error {
			out[i] = r.Resolve(gctx, raw)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Pack exposes the rule pack for callers that report on it
func (r *Resolver) Pack() *rulepack.Pack { return r.pack }

