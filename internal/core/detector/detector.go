// Package detector classifies normalized part-number queries: family, duty,
// source brand, direct competitor references and the embedded part number
package detector

import (
	"strings"

	"filterdetect/internal/core/rulepack"
)

// DirectReference is a query already written in a competitor numbering scheme
type DirectReference struct {
	Brand      string        `json:"brand"`
	Duty       rulepack.Duty `json:"duty"`
	PartNumber string        `json:"part_number"`
}

// Classification is everything the detector derives from one query
type Classification struct {
	Query  string
	Family rulepack.Family
	Duty   rulepack.Duty
	Source string
	Direct *DirectReference
	Code   string
}

// Detector holds matchers compiled from a pack; safe for concurrent use
type Detector struct {
	p *rulepack.Pack

	families ranked
	hd       ranked
	ld       ranked
	brands   ranked
	strip    *strings.Replacer
}

// New compiles the pack's lists into matchers
func New(p *rulepack.Pack) *Detector {
	groups := make([][]string, len(p.Families))
	for i, f := range p.Families {
		groups[i] = f.Patterns
	}
	pairs := make([]string, 0, 2*len(p.SignatureStrip))
	for _, r := range p.SignatureStrip {
		pairs = append(pairs, string(r), "")
	}
	return &Detector{
		p:        p,
		families: newRanked(groups),
		hd:       newRanked(singles(p.HDMakers)),
		ld:       newRanked(singles(p.LDMakers)),
		brands:   newRanked(singles(p.Brands)),
		strip:    strings.NewReplacer(pairs...),
	}
}

// Classify runs every detector over q, which must already be normalized
func (d *Detector) Classify(q string) Classification {
	fam := d.Family(q)
	direct := d.DirectRef(q)
	return Classification{
		Query:  q,
		Family: fam,
		Duty:   d.dutyWith(direct, q, fam),
		Source: d.sourceWith(direct, q),
		Direct: direct,
		Code:   d.PartNumber(q),
	}
}

// Family returns the first declared family with a pattern inside q
func (d *Detector) Family(q string) rulepack.Family {
	if rank, ok := d.families.Lowest(q); ok {
		return d.p.Families[rank].Family
	}
	return rulepack.FamilyUnknown
}

// DirectRef matches q, stripped of separators, against the brand signatures in order
func (d *Detector) DirectRef(q string) *DirectReference {
	s := d.strip.Replace(q)
	if s == "" {
		return nil
	}
	for _, sig := range d.p.Signatures {
		if sig.Re.MatchString(s) {
			return &DirectReference{Brand: sig.Brand, Duty: sig.Duty, PartNumber: s}
		}
	}
	return nil
}

// Duty applies the precedence: direct reference, HD maker, LD maker, heavy family
func (d *Detector) Duty(q string, fam rulepack.Family) rulepack.Duty {
	return d.dutyWith(d.DirectRef(q), q, fam)
}

func (d *Detector) dutyWith(direct *DirectReference, q string, fam rulepack.Family) rulepack.Duty {
	switch {
	case direct != nil:
		return direct.Duty
	case d.hd.has(q):
		return rulepack.DutyHD
	case d.ld.has(q):
		return rulepack.DutyLD
	case d.p.IsHeavy(fam):
		return rulepack.DutyHD
	}
	return rulepack.DutyUnknown
}

// Source names the brand q refers to: direct reference, competitor, maker, else GENERIC
func (d *Detector) Source(q string) string {
	return d.sourceWith(d.DirectRef(q), q)
}

func (d *Detector) sourceWith(direct *DirectReference, q string) string {
	if direct != nil {
		return direct.Brand
	}
	if i, ok := d.brands.Lowest(q); ok {
		return d.p.Brands[i]
	}
	if i, ok := d.hd.Lowest(q); ok {
		return d.p.HDMakers[i]
	}
	if i, ok := d.ld.Lowest(q); ok {
		return d.p.LDMakers[i]
	}
	return rulepack.SourceGeneric
}

// PartNumber isolates the code in q: first structural pattern, else the
// longest separator-joined alphanumeric run long enough, else q itself.
// A pattern match glued to a preceding digit or hyphen is a fragment of a
// longer code (17801-0H050) and is skipped
func (d *Detector) PartNumber(q string) string {
	for _, re := range d.p.Extractors {
		for pos := 0; pos < len(q); {
			loc := re.FindStringIndex(q[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			if !fragment(q, start) {
				return q[start:end]
			}
			pos = start + 1
		}
	}
	if d.p.Fallback != nil {
		best := ""
		for _, m := range d.p.Fallback.FindAllString(q, -1) {
			if len(m) > len(best) {
				best = m
			}
		}
		if len(best) >= d.p.FallbackMin && best != "" {
			return best
		}
	}
	return q
}

// fragment reports whether the match at start continues a digit run or a hyphenated code
func fragment(q string, start int) bool {
	if start == 0 {
		return false
	}
	c := q[start-1]
	return c == '-' || (c >= '0' && c <= '9')
}

func (r ranked) has(q string) bool {
	_, ok := r.Lowest(q)
	return ok
}
