// Package record compiles resolution outcomes into the terminal detection record
package record

import (
	"fmt"
	"strings"
	"time"

	"filterdetect/internal/core/rulepack"
	"filterdetect/internal/core/sku"
	pstr "filterdetect/internal/platform/strings"
	ptime "filterdetect/internal/platform/time"

	"github.com/google/uuid"
)

// MaxList caps every enrichment list
const MaxList = 10

// Status of a record
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// SourceOEM is the provenance tag when no brand supplied enrichment
const SourceOEM = "oem"

// Tier names the homologation stage that produced the source code
type Tier string

// Tiers in the order they are tried; none marks a degraded record
const (
	TierDirect   Tier = "direct"
	TierLocal    Tier = "local"
	TierRegistry Tier = "registry"
	TierFinder   Tier = "finder"
	TierFallback Tier = "fallback"
	TierNone     Tier = "none"
)

// Enrichment is the optional data scraped from a finder
type Enrichment struct {
	CrossReferences       []string          `json:"cross_references"`
	OEMCodes              []string          `json:"oem_codes"`
	EngineApplications    []string          `json:"engine_applications"`
	EquipmentApplications []string          `json:"equipment_applications"`
	Specs                 map[string]string `json:"specs"`
	Description           string            `json:"description"`
}

// Record is the detection result. Every field is always populated
type Record struct {
	ID                    string            `json:"id"`
	Status                string            `json:"status"`
	QueryNorm             string            `json:"query_norm"`
	SKU                   string            `json:"sku"`
	FilterType            rulepack.Family   `json:"filter_type"`
	Duty                  rulepack.Duty     `json:"duty"`
	SourceBrand           string            `json:"source_brand"`
	OEMCode               string            `json:"oem_code"`
	SourceCode            string            `json:"source_code"`
	HomologationTier      Tier              `json:"homologation_tier"`
	Source                string            `json:"source"`
	CrossReferences       []string          `json:"cross_references"`
	OEMCodes              []string          `json:"oem_codes"`
	EngineApplications    []string          `json:"engine_applications"`
	EquipmentApplications []string          `json:"equipment_applications"`
	Specs                 map[string]string `json:"specs"`
	Description           string            `json:"description"`
	CreatedAt             time.Time         `json:"created_at"`
}

// Input is what the resolver hands the compiler
type Input struct {
	Query       string
	Family      rulepack.Family
	Duty        rulepack.Duty
	SourceBrand string
	OEMCode     string
	SourceCode  string
	Tier        Tier
	Enrichment  *Enrichment
	EnrichedBy  string
}

// Compiler assembles records; safe for concurrent use
type Compiler struct {
	p     *rulepack.Pack
	sku   sku.Synthesizer
	now   ptime.Clock
	newID func() string
}

// Option configures a Compiler
type Option func(*Compiler)

// WithClock stamps records from c
func WithClock(c ptime.Clock) Option { return func(x *Compiler) { x.now = c } }

// WithIDs mints record ids from fn
func WithIDs(fn func() string) Option { return func(x *Compiler) { x.newID = fn } }

// New returns a Compiler over p
func New(p *rulepack.Pack, opts ...Option) *Compiler {
	c := &Compiler{p: p, sku: sku.New(p), newID: uuid.NewString}
	for _, o := range opts {
		o(c)
	}
	c.now = c.now.OrUTC()
	return c
}

// Compile builds the OK record for in
func (c *Compiler) Compile(in Input) Record {
	e := in.Enrichment
	if e == nil {
		e = &Enrichment{}
	}
	code := c.sku.Synthesize(in.Family, in.SourceCode)

	source := SourceOEM
	if in.Enrichment != nil && in.EnrichedBy != "" {
		source = in.EnrichedBy
	}

	return Record{
		ID:                    c.newID(),
		Status:                StatusOK,
		QueryNorm:             in.Query,
		SKU:                   code,
		FilterType:            in.Family,
		Duty:                  in.Duty,
		SourceBrand:           pstr.FirstNonBlank(in.SourceBrand, rulepack.SourceGeneric),
		OEMCode:               in.OEMCode,
		SourceCode:            in.SourceCode,
		HomologationTier:      in.Tier,
		Source:                source,
		CrossReferences:       pstr.Compact(e.CrossReferences, MaxList),
		OEMCodes:              pstr.Compact(e.OEMCodes, MaxList),
		EngineApplications:    pstr.Compact(e.EngineApplications, MaxList),
		EquipmentApplications: pstr.Compact(e.EquipmentApplications, MaxList),
		Specs:                 c.specs(in.Family, in.Duty, e.Specs),
		Description:           pstr.FirstNonBlank(strings.TrimSpace(e.Description), c.describe(code, in.Family, in.Duty)),
		CreatedAt:             c.now(),
	}
}

// Degraded builds the ERROR record for a query that could not be resolved.
// err is for the caller's logs and never reaches the record
func (c *Compiler) Degraded(query string, _ error) Record {
	return Record{
		ID:                    c.newID(),
		Status:                StatusError,
		QueryNorm:             query,
		SKU:                   c.sku.Sentinel(),
		FilterType:            rulepack.FamilyUnknown,
		Duty:                  rulepack.DutyUnknown,
		SourceBrand:           rulepack.SourceGeneric,
		OEMCode:               query,
		SourceCode:            query,
		HomologationTier:      TierNone,
		Source:                SourceOEM,
		CrossReferences:       []string{},
		OEMCodes:              []string{},
		EngineApplications:    []string{},
		EquipmentApplications: []string{},
		Specs:                 map[string]string{},
		Description:           "No fue posible resolver la consulta / The query could not be resolved",
		CreatedAt:             c.now(),
	}
}

// specs overlays non-blank scraped values on the family and duty defaults
func (c *Compiler) specs(f rulepack.Family, d rulepack.Duty, scraped map[string]string) map[string]string {
	out := c.p.DefaultSpecs(f, d)
	for k, v := range scraped {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// describe is the bilingual fallback description
func (c *Compiler) describe(code string, f rulepack.Family, d rulepack.Duty) string {
	fl, dl := c.p.Label(f), c.p.DutyLabel(d)
	return fmt.Sprintf("Filtro %s para %s, SKU %s / %s filter for %s service, SKU %s",
		fl.ES, dl.ES, code, fl.EN, dl.EN, code)
}
