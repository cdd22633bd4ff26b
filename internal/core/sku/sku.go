// Package sku synthesizes internal SKUs from a family and a homologated code
package sku

import "filterdetect/internal/core/rulepack"

// Synthesizer builds SKUs from a pack's prefixes
type Synthesizer struct {
	p *rulepack.Pack
}

// New returns a Synthesizer over p
func New(p *rulepack.Pack) Synthesizer { return Synthesizer{p: p} }

// Synthesize returns prefix(family) followed by the last four digits of code,
// left padded with zeros. Families without a prefix get the sentinel
func (s Synthesizer) Synthesize(f rulepack.Family, code string) string {
	prefix, ok := s.p.Prefix(f)
	if !ok {
		return s.p.Sentinel
	}
	return prefix + Last4(code)
}

// Sentinel is the SKU used when no family is known
func (s Synthesizer) Sentinel() string { return s.p.Sentinel }

// Last4 keeps the trailing four ASCII digits of code, zero padded on the left
func Last4(code string) string {
	var d [4]byte
	n := 0
	for i := len(code) - 1; i >= 0 && n < 4; i-- {
		if c := code[i]; c >= '0' && c <= '9' {
			d[3-n] = c
			n++
		}
	}
	for i := 0; i < 4-n; i++ {
		d[i] = '0'
	}
	return string(d[:])
}
