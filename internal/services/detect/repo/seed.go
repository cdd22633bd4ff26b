package repo

import (
	"context"
	"encoding/csv"
	stderrs "errors"
	"io"
	"strings"

	perr "filterdetect/internal/platform/errors"
	pstr "filterdetect/internal/platform/strings"
	dom "filterdetect/internal/services/detect/domain"
)

// Seed upserts "oem,donaldson,fram" CSV rows from r and returns how many were written.
// Blank brand cells are stored as NULL, '#' lines and an "oem" header row are skipped
func Seed(ctx context.Context, reg Registry, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	n := 0
	for {
		rec, err := cr.Read()
		if stderrs.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read seed csv")
		}
		if n == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "oem") {
			continue
		}
		ref := dom.CrossReference{
			Donaldson: pstr.Ptr(strings.ToUpper(strings.TrimSpace(rec[1]))),
			Fram:      pstr.Ptr(strings.ToUpper(strings.TrimSpace(rec[2]))),
		}
		if ref.Donaldson == nil && ref.Fram == nil {
			line, _ := cr.FieldPos(0)
			return n, perr.Newf(perr.ErrorCodeInvalidArgument, "seed line %d: %s has no brand code", line, rec[0])
		}
		if err := reg.Upsert(ctx, rec[0], ref); err != nil {
			return n, perr.WithOp(err, "seed")
		}
		n++
	}
}
