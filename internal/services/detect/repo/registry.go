// Package repo provides the Postgres cross-reference registry
package repo

import (
	"context"
	stderrs "errors"

	"filterdetect/internal/core/rulepack"
	"filterdetect/internal/modkit/repokit"
	perr "filterdetect/internal/platform/errors"
	pstr "filterdetect/internal/platform/strings"
	dom "filterdetect/internal/services/detect/domain"

	sq "github.com/Masterminds/squirrel"
)

// Table holds one row per compacted OEM code
const Table = "filter_cross_references"

const schema = `
	CREATE TABLE IF NOT EXISTS filter_cross_references (
		oem_code   TEXT PRIMARY KEY,
		donaldson  TEXT NULL,
		fram       TEXT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Registry is the persistence surface of the registry tier
type Registry interface {
	dom.RegistryPort
	Upsert(ctx context.Context, oem string, ref dom.CrossReference) error
	Migrate(ctx context.Context) error
}

type (
	// PG is the Postgres implementation of Registry
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Registry] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Registry { return &queries{q: q} }

// FindCrossReference reads the row for code. Unknown codes are (nil, nil)
func (r *queries) FindCrossReference(ctx context.Context, code string) (*dom.CrossReference, error) {
	key := rulepack.Key(code)
	if key == "" {
		return nil, nil
	}
	sql, args, err := psql.Select("donaldson", "fram").
		From(Table).
		Where(sq.Eq{"oem_code": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "build cross reference query")
	}

	var donaldson, fram *string
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&donaldson, &fram); err != nil {
		if stderrs.Is(err, repokit.ErrNoRows) {
			return nil, nil
		}
		return nil, perr.FromPostgres(err, "find cross reference")
	}
	return &dom.CrossReference{
		Donaldson: pstr.Ptr(pstr.Deref(donaldson)),
		Fram:      pstr.Ptr(pstr.Deref(fram)),
	}, nil
}

// Upsert writes the row for oem, replacing both brand columns
func (r *queries) Upsert(ctx context.Context, oem string, ref dom.CrossReference) error {
	key := rulepack.Key(oem)
	if key == "" {
		return perr.InvalidArgf("oem code is required")
	}
	sql, args, err := psql.Insert(Table).
		Columns("oem_code", "donaldson", "fram").
		Values(key, ref.Donaldson, ref.Fram).
		Suffix("ON CONFLICT (oem_code) DO UPDATE SET donaldson = EXCLUDED.donaldson, fram = EXCLUDED.fram, updated_at = now()").
		ToSql()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "build cross reference upsert")
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return perr.FromPostgres(err, "upsert cross reference")
	}
	return nil
}

// Migrate creates the table when missing
func (r *queries) Migrate(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schema); err != nil {
		return perr.FromPostgres(err, "migrate cross references")
	}
	return nil
}
