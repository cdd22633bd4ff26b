// Package rulepack loads the embedded rules.json: the ordered family table,
// manufacturer and brand lists, direct-reference signatures, extractor
// patterns, the local homologation table and the default specs
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"sync"

	"filterdetect/internal/core/normalize"
)

//go:embed rules.json
var embedded []byte

// Family is a product family tag
type Family string

// Families, in no particular order; detection order lives in rules.json
const (
	FamilyAir         Family = "AIR"
	FamilyOil         Family = "OIL"
	FamilyFuel        Family = "FUEL"
	FamilyCabin       Family = "CABIN"
	FamilyHydraulic   Family = "HYDRAULIC"
	FamilyCoolant     Family = "COOLANT"
	FamilyAirDryer    Family = "AIR_DRYER"
	FamilyTurbine     Family = "TURBINE"
	FamilyHousing     Family = "HOUSING"
	FamilyKitDiesel   Family = "KIT_DIESEL"
	FamilyKitGasoline Family = "KIT_GASOLINE"
	FamilyUnknown     Family = "UNKNOWN"
)

var knownFamilies = map[Family]struct{}{
	FamilyAir: {}, FamilyOil: {}, FamilyFuel: {}, FamilyCabin: {}, FamilyHydraulic: {},
	FamilyCoolant: {}, FamilyAirDryer: {}, FamilyTurbine: {}, FamilyHousing: {},
	FamilyKitDiesel: {}, FamilyKitGasoline: {},
}

// ParseFamily accepts any known family other than UNKNOWN
func ParseFamily(s string) (Family, bool) {
	f := Family(s)
	_, ok := knownFamilies[f]
	return f, ok
}

// Duty is the duty class
type Duty string

// Duty classes
const (
	DutyHD      Duty = "HD"
	DutyLD      Duty = "LD"
	DutyUnknown Duty = "UNKNOWN"
)

// Brands the resolver routes on, and the source tag when nothing names one
const (
	BrandDonaldson = "DONALDSON"
	BrandFram      = "FRAM"
	SourceGeneric  = "GENERIC"
)

// DutyOf returns the duty a homologation brand implies
func DutyOf(brand string) Duty {
	switch brand {
	case BrandDonaldson:
		return DutyHD
	case BrandFram:
		return DutyLD
	}
	return DutyUnknown
}

// FamilyRule is one row of the ordered family table
type FamilyRule struct {
	Family   Family
	Prefix   string
	Patterns []string
}

// Signature is a compiled direct-reference rule
type Signature struct {
	Brand string
	Duty  Duty
	Re    *regexp.Regexp
}

// Homologation is a local table row; nil or blank fields are misses
type Homologation struct {
	Donaldson *string
	Fram      *string
	Family    Family
}

// Label is a bilingual display name
type Label struct {
	ES string `json:"es"`
	EN string `json:"en"`
}

type rawFamily struct {
	Family   Family   `json:"family"`
	Prefix   string   `json:"sku_prefix"`
	Patterns []string `json:"patterns"`
}

type rawSignature struct {
	Brand   string `json:"brand"`
	Duty    Duty   `json:"duty"`
	Pattern string `json:"pattern"`
}

type rawHomologation struct {
	OEM       string  `json:"oem"`
	Donaldson *string `json:"donaldson"`
	Fram      *string `json:"fram"`
	Family    Family  `json:"family"`
}

type rawMakers struct {
	HD []string `json:"hd"`
	LD []string `json:"ld"`
}

type rawSpecs struct {
	Family map[Family]map[string]string `json:"family"`
	Duty   map[Duty]map[string]string   `json:"duty"`
}

type rawPack struct {
	Version        int               `json:"version"`
	Sentinel       string            `json:"sentinel_sku"`
	Families       []rawFamily       `json:"families"`
	HeavyFamilies  []Family          `json:"heavy_families"`
	Makers         rawMakers         `json:"makers"`
	Brands         []string          `json:"brands"`
	Signatures     []rawSignature    `json:"signatures"`
	SignatureStrip string            `json:"signature_strip"`
	Extractors     []string          `json:"extractors"`
	Fallback       string            `json:"extract_fallback"`
	FallbackMin    int               `json:"extract_fallback_min"`
	Homologations  []rawHomologation `json:"homologations"`
	Specs          rawSpecs          `json:"specs"`
	Labels         map[Family]Label  `json:"labels"`
	DutyLabels     map[Duty]Label    `json:"duty_labels"`
}

// Pack is the compiled, read-only rule set
type Pack struct {
	Version  int
	Sentinel string

	// Families keeps declaration order; first match wins
	Families []FamilyRule

	HDMakers []string
	LDMakers []string
	Brands   []string

	Signatures     []Signature
	SignatureStrip string

	Extractors  []*regexp.Regexp
	Fallback    *regexp.Regexp
	FallbackMin int

	heavy         map[Family]struct{}
	prefixes      map[Family]string
	homologations map[string]Homologation
	familySpecs   map[Family]map[string]string
	dutySpecs     map[Duty]map[string]string
	labels        map[Family]Label
	dutyLabels    map[Duty]Label
}

// Load compiles the embedded rules.json
func Load() (*Pack, error) { return Parse(embedded) }

var loadOnce = sync.OnceValues(Load)

// Default returns the process-wide pack, compiled on first use
func Default() (*Pack, error) { return loadOnce() }

// MustDefault is Default for main and tests
func MustDefault() *Pack {
	p, err := Default()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse compiles a rules document
func Parse(raw []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if len(rp.Sentinel) == 0 {
		return nil, fmt.Errorf("rulepack: sentinel_sku is required")
	}

	p := &Pack{
		Version:        rp.Version,
		Sentinel:       rp.Sentinel,
		HDMakers:       upperAll(rp.Makers.HD),
		LDMakers:       upperAll(rp.Makers.LD),
		Brands:         upperAll(rp.Brands),
		SignatureStrip: rp.SignatureStrip,
		FallbackMin:    rp.FallbackMin,
		heavy:          map[Family]struct{}{},
		prefixes:       map[Family]string{},
		homologations:  make(map[string]Homologation, len(rp.Homologations)),
		familySpecs:    rp.Specs.Family,
		dutySpecs:      rp.Specs.Duty,
		labels:         rp.Labels,
		dutyLabels:     rp.DutyLabels,
	}

	for _, f := range rp.Families {
		if _, ok := ParseFamily(string(f.Family)); !ok {
			return nil, fmt.Errorf("rulepack: unknown family %q", f.Family)
		}
		if len(f.Prefix) != 3 {
			return nil, fmt.Errorf("rulepack: family %s: sku_prefix %q must be 3 chars", f.Family, f.Prefix)
		}
		if _, dup := p.prefixes[f.Family]; dup {
			return nil, fmt.Errorf("rulepack: family %s declared twice", f.Family)
		}
		pats := upperAll(f.Patterns)
		if len(pats) == 0 {
			return nil, fmt.Errorf("rulepack: family %s has no patterns", f.Family)
		}
		p.prefixes[f.Family] = f.Prefix
		p.Families = append(p.Families, FamilyRule{Family: f.Family, Prefix: f.Prefix, Patterns: pats})
	}

	for _, f := range rp.HeavyFamilies {
		if _, ok := ParseFamily(string(f)); !ok {
			return nil, fmt.Errorf("rulepack: unknown heavy family %q", f)
		}
		p.heavy[f] = struct{}{}
	}

	for _, s := range rp.Signatures {
		if s.Duty != DutyHD && s.Duty != DutyLD {
			return nil, fmt.Errorf("rulepack: signature %s: duty %q", s.Brand, s.Duty)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rulepack: signature %s: %w", s.Brand, err)
		}
		p.Signatures = append(p.Signatures, Signature{Brand: s.Brand, Duty: s.Duty, Re: re})
	}

	for _, e := range rp.Extractors {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, fmt.Errorf("rulepack: extractor %q: %w", e, err)
		}
		p.Extractors = append(p.Extractors, re)
	}
	if rp.Fallback != "" {
		re, err := regexp.Compile(rp.Fallback)
		if err != nil {
			return nil, fmt.Errorf("rulepack: extract_fallback: %w", err)
		}
		p.Fallback = re
	}

	for _, h := range rp.Homologations {
		key := Key(h.OEM)
		if key == "" {
			return nil, fmt.Errorf("rulepack: homologation with empty oem")
		}
		if _, dup := p.homologations[key]; dup {
			return nil, fmt.Errorf("rulepack: homologation %s declared twice", key)
		}
		fam := h.Family
		if fam == "" {
			fam = FamilyUnknown
		} else if _, ok := ParseFamily(string(fam)); !ok {
			return nil, fmt.Errorf("rulepack: homologation %s: unknown family %q", key, fam)
		}
		p.homologations[key] = Homologation{Donaldson: h.Donaldson, Fram: h.Fram, Family: fam}
	}
	return p, nil
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := normalize.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Key is the local table and registry key form of an OEM code
func Key(code string) string { return normalize.Compact(normalize.Normalize(code)) }

// Prefix returns the SKU prefix of f
func (p *Pack) Prefix(f Family) (string, bool) {
	s, ok := p.prefixes[f]
	return s, ok
}

// IsHeavy reports whether f is inherently heavy duty
func (p *Pack) IsHeavy(f Family) bool {
	_, ok := p.heavy[f]
	return ok
}

// Lookup reads the local table by OEM code in any formatting
func (p *Pack) Lookup(code string) (Homologation, bool) {
	h, ok := p.homologations[Key(code)]
	return h, ok
}

// Len is the local table size
func (p *Pack) Len() int { return len(p.homologations) }

// DefaultSpecs merges the family defaults and then the duty defaults into a fresh map
func (p *Pack) DefaultSpecs(f Family, d Duty) map[string]string {
	out := make(map[string]string, 8)
	maps.Copy(out, p.familySpecs[f])
	maps.Copy(out, p.dutySpecs[d])
	return out
}

// Label returns the display names of f, falling back to UNKNOWN's
func (p *Pack) Label(f Family) Label {
	if l, ok := p.labels[f]; ok {
		return l
	}
	return p.labels[FamilyUnknown]
}

// DutyLabel returns the display names of d, falling back to UNKNOWN's
func (p *Pack) DutyLabel(d Duty) Label {
	if l, ok := p.dutyLabels[d]; ok {
		return l
	}
	return p.dutyLabels[DutyUnknown]
}

// Gate picks the code a duty may read from a Donaldson/FRAM pair.
// HD reads Donaldson, LD reads FRAM, UNKNOWN tries Donaldson then FRAM.
// Nil or blank fields are misses
func Gate(d Duty, donaldson, fram *string) (brand, code string, ok bool) {
	pick := func(b string, v *string) (string, string, bool) {
		if v == nil {
			return "", "", false
		}
		c := normalize.Normalize(*v)
		if c == "" {
			return "", "", false
		}
		return b, c, true
	}
	switch d {
	case DutyHD:
		return pick(BrandDonaldson, donaldson)
	case DutyLD:
		return pick(BrandFram, fram)
	}
	if b, c, ok := pick(BrandDonaldson, donaldson); ok {
		return b, c, true
	}
	return pick(BrandFram, fram)
}
