// Package strings provides small string and list helpers
package strings

import std "strings"

// MustPrefix normalizes a route prefix to a single leading slash and no trailing slash.
// It panics on the root or an empty input
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// FirstNonBlank returns the first argument with non-whitespace content, or ""
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if std.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Compact trims each entry, drops blanks and exact duplicates keeping first
// occurrence order, and stops at limit entries when limit > 0.
// The result is never nil
func Compact(in []string, limit int) []string {
	out := make([]string, 0, min(len(in), max(limit, 0)+1))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = std.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Merge concatenates lists then applies Compact
func Merge(limit int, lists ...[]string) []string {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	all := make([]string, 0, n)
	for _, l := range lists {
		all = append(all, l...)
	}
	return Compact(all, limit)
}

// Ptr returns a pointer to s, or nil when s is blank
func Ptr(s string) *string {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns "" for nil
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}
