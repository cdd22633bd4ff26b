// Package repokit holds the seams repositories bind to
package repokit

import "filterdetect/internal/platform/store"

type (
	// Queryer is the SQL surface repos read through
	Queryer = store.Querier

	// KV is the byte cache surface
	KV = store.KV

	// Rows is a result set
	Rows = store.Rows

	// Row is a single result row
	Row = store.Row
)

// ErrNoRows is returned by Row.Scan when nothing matched
var ErrNoRows = store.ErrNoRows

// ErrCacheMiss is returned by KV.Get for an absent key
var ErrCacheMiss = store.ErrCacheMiss
