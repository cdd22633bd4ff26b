package repo

import (
	"context"
	stderrs "errors"
	"testing"

	"filterdetect/internal/modkit/repokit"
	perr "filterdetect/internal/platform/errors"
	pstr "filterdetect/internal/platform/strings"
	"filterdetect/internal/platform/testkit"
	dom "filterdetect/internal/services/detect/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type row struct {
	vals []*string
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(**string)) = r.vals[i]
	}
	return nil
}

type fakeQ struct {
	sql  string
	args []any
	row  row
	err  error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	f.sql, f.args = sql, args
	return 1, f.err
}

func (f *fakeQ) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, stderrs.New("unused")
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	f.sql, f.args = sql, args
	return f.row
}

func TestFindCrossReference(t *testing.T) {
	blank := "  "
	q := &fakeQ{row: row{vals: []*string{pstr.Ptr("P551808"), &blank}}}
	reg := NewPG().Bind(q)

	ref, err := reg.FindCrossReference(context.Background(), "1r-1808")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if pstr.Deref(ref.Donaldson) != "P551808" || ref.Fram != nil {
		t.Fatalf("ref = %+v", ref)
	}
	testkit.MustContain(t, q.sql, "SELECT donaldson, fram FROM filter_cross_references WHERE oem_code = $1")
	if len(q.args) != 1 || q.args[0] != "1R1808" {
		t.Fatalf("args = %v", q.args)
	}
}

func TestFindCrossReferenceMisses(t *testing.T) {
	reg := NewPG().Bind(&fakeQ{row: row{err: repokit.ErrNoRows}})
	ref, err := reg.FindCrossReference(context.Background(), "4N0015")
	if ref != nil || err != nil {
		t.Fatalf("no rows should be (nil, nil), got %v/%v", ref, err)
	}

	q := &fakeQ{}
	ref, err = NewPG().Bind(q).FindCrossReference(context.Background(), " - ")
	if ref != nil || err != nil || q.sql != "" {
		t.Fatalf("blank code should not query")
	}
}

func TestFindCrossReferenceMapsPGErrors(t *testing.T) {
	reg := NewPG().Bind(&fakeQ{row: row{err: &pgconn.PgError{Code: "57P03"}}})
	_, err := reg.FindCrossReference(context.Background(), "4N0015")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v (%v)", err, perr.CodeOf(err))
	}
}

func TestUpsertAndMigrate(t *testing.T) {
	q := &fakeQ{}
	reg := NewPG().Bind(q)

	if err := reg.Upsert(context.Background(), "re504836", dom.CrossReference{Donaldson: pstr.Ptr("P550779")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	testkit.MustContain(t, q.sql, "INSERT INTO filter_cross_references (oem_code,donaldson,fram) VALUES ($1,$2,$3)")
	testkit.MustContain(t, q.sql, "ON CONFLICT (oem_code) DO UPDATE")
	if q.args[0] != "RE504836" {
		t.Fatalf("key = %v", q.args[0])
	}

	if err := reg.Upsert(context.Background(), "", dom.CrossReference{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank oem err = %v", err)
	}

	if err := reg.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	testkit.MustContain(t, q.sql, "CREATE TABLE IF NOT EXISTS filter_cross_references")

	q.err = &pgconn.PgError{Code: "42501"}
	if err := reg.Migrate(context.Background()); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("migrate err = %v", err)
	}
}
