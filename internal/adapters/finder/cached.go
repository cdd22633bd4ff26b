package finder

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"time"

	"filterdetect/internal/core/rulepack"
	"filterdetect/internal/platform/logger"
	"filterdetect/internal/platform/store"
	dom "filterdetect/internal/services/detect/domain"
)

// DefaultTTL is how long a found answer stays cached
const DefaultTTL = 24 * time.Hour

// Cached is a read-through cache in front of a finder. Only found answers are
// stored so a later scrape can still succeed; cache failures never fail the call
type Cached struct {
	next  dom.FinderPort
	kv    store.KV
	brand string
	ttl   time.Duration
	log   logger.Logger
}

type entry struct {
	Code       string         `json:"code"`
	Enrichment dom.Enrichment `json:"enrichment"`
}

var _ dom.FinderPort = (*Cached)(nil)

// NewCached wraps next. A nil kv returns next unchanged
func NewCached(next dom.FinderPort, kv store.KV, brand string, ttl time.Duration) dom.FinderPort {
	if kv == nil {
		return next
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{
		next:  next,
		kv:    kv,
		brand: brand,
		ttl:   ttl,
		log:   logger.Named("finder_cache").With().Str("brand", brand).Logger(),
	}
}

func (c *Cached) key(code string) string { return "finder:" + c.brand + ":" + rulepack.Key(code) }

// GetBrandData serves from the cache, else asks next and stores found answers
func (c *Cached) GetBrandData(ctx context.Context, code string) (*dom.BrandData, error) {
	k := c.key(code)
	raw, err := c.kv.Get(ctx, k)
	switch {
	case err == nil:
		var e entry
		if jerr := json.Unmarshal(raw, &e); jerr == nil {
			return &dom.BrandData{Found: true, Code: e.Code, Enrichment: e.Enrichment}, nil
		}
		c.log.Warn().Str("key", k).Msg("dropping undecodable cache entry")
	case !stderrs.Is(err, store.ErrCacheMiss):
		c.log.Warn().Err(err).Str("key", k).Msg("cache read failed")
	}

	bd, err := c.next.GetBrandData(ctx, code)
	if err != nil || bd == nil || !bd.Found || bd.Code == "" {
		return bd, err
	}
	if b, jerr := json.Marshal(entry{Code: bd.Code, Enrichment: bd.Enrichment}); jerr == nil {
		if serr := c.kv.Set(ctx, k, b, c.ttl); serr != nil {
			c.log.Warn().Err(serr).Str("key", k).Msg("cache write failed")
		}
	}
	return bd, nil
}
