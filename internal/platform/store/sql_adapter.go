package store

import (
	"context"
	"errors"
	"time"

	"filterdetect/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the part of *pgxpool.Pool the adapter drives
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// pgAdapter implements Querier over a pool and reports each statement to the tracer
type pgAdapter struct {
	db     pool
	close  func()
	tracer pg.QueryTracer
	slowUS int64
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{db: p.Pool, close: p.Close, tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000}
}

func (a *pgAdapter) Ping(ctx context.Context) error { return a.db.Ping(ctx) }

func (a *pgAdapter) Close() error {
	if a.close != nil {
		a.close()
	}
	return nil
}

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	start := time.Now()
	ct, err := a.db.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.db.Query(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return row{
		r: a.db.QueryRow(ctx, sql, args...),
		after: func(err error) {
			if errors.Is(err, ErrNoRows) {
				err = nil
			}
			a.emit(ctx, sql, args, start, err)
		},
	}
}

func (a *pgAdapter) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if a.tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	a.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      a.slowUS > 0 && us >= a.slowUS,
	})
}

// row maps pgx.ErrNoRows onto ErrNoRows and reports completion after Scan
type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNoRows
	}
	if x.after != nil {
		x.after(err)
	}
	return err
}
