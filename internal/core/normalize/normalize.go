// Package normalize canonicalizes raw part-number queries
// Pipeline order
// 1 drop invalid UTF-8 bytes
// 2 NFKD compatibility decomposition (ligatures, fullwidth digits, ª, ㎏)
// 3 remove combining marks, format chars, controls and every whitespace rune
// 4 width fold to ASCII
// 5 upper-case, after decomposition so compatibility forms cannot reintroduce lower case
// 6 NFC recomposition
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is safe for concurrent use
type Normalizer struct{}

// dropped runes: combining marks, format chars (ZWJ, ZWSP, BOM), controls, whitespace
var dropped = runes.Predicate(func(r rune) bool {
	return unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Cf, r) ||
		unicode.IsControl(r) ||
		unicode.IsSpace(r)
})

// chains are stateful, so each call borrows one
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(dropped),
			width.Fold,
			cases.Upper(language.Und),
			norm.NFC,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize upper-cases s and strips every whitespace rune. Empty in, empty out
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	if ascii(s) {
		return asciiFold(s)
	}

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain has no failure mode on valid UTF-8; keep the plain fold as a floor
		return asciiFold(s)
	}
	return out
}

// Normalize is the package-level shorthand
func Normalize(s string) string { return std.Normalize(s) }

var std = New()

// ascii reports whether s is pure 7-bit, the common case for part numbers
func ascii(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// asciiFold is the fast path: upper-case and drop whitespace and controls
func asciiFold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c <= ' ' || c == 0x7F:
			continue
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Compact keeps only ASCII letters and digits of an already normalized code.
// Table and registry keys use this form
func Compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
