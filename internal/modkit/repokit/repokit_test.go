package repokit

import (
	"context"
	stderrs "errors"
	"testing"

	"filterdetect/internal/platform/testkit"
)

type nopQ struct{ Queryer }

type named struct{ q Queryer }

var bindNamed = BindFunc[named](func(q Queryer) named { return named{q: q} })

func TestBinders(t *testing.T) {
	q := nopQ{}
	if got := MustBind(bindNamed, q); got.q != q {
		t.Fatalf("MustBind lost the queryer")
	}
	testkit.MustPanic(t, func() { MustBind(bindNamed, nil) })

	if _, ok := BindOptional(bindNamed, nil); ok {
		t.Fatalf("nil queryer should not bind")
	}
	if got, ok := BindOptional(bindNamed, q); !ok || got.q != q {
		t.Fatalf("BindOptional = %+v/%v", got, ok)
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type guard struct{ err error }

func (g guard) Guard(context.Context) error { return g.err }

func TestMustPingAndGuard(t *testing.T) {
	ctx := context.Background()
	MustPing(ctx, "pg", pinger{})
	MustGuard(ctx, guard{})

	testkit.MustPanic(t, func() { MustPing(ctx, "pg", nil) })
	testkit.MustPanic(t, func() { MustPing(ctx, "pg", pinger{err: stderrs.New("down")}) })
	testkit.MustPanic(t, func() { MustGuard(ctx, guard{err: stderrs.New("down")}) })
}
