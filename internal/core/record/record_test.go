package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"filterdetect/internal/core/rulepack"
	"filterdetect/internal/platform/testkit"
	ptime "filterdetect/internal/platform/time"
)

var at = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func compiler() *Compiler {
	return New(rulepack.MustDefault(), WithClock(ptime.Frozen(at)), WithIDs(func() string { return "rec-1" }))
}

func TestCompileWithoutEnrichment(t *testing.T) {
	r := compiler().Compile(Input{
		Query:       "1R1808",
		Family:      rulepack.FamilyOil,
		Duty:        rulepack.DutyHD,
		SourceBrand: "",
		OEMCode:     "1R1808",
		SourceCode:  "P551808",
		Tier:        TierLocal,
	})

	if r.ID != "rec-1" || r.Status != StatusOK || !r.CreatedAt.Equal(at) {
		t.Fatalf("stamps = %+v", r)
	}
	if r.SKU != "EL81808" || r.SourceCode != "P551808" || r.HomologationTier != TierLocal {
		t.Fatalf("record = %+v", r)
	}
	if r.Source != SourceOEM || r.SourceBrand != rulepack.SourceGeneric {
		t.Fatalf("source = %q/%q", r.Source, r.SourceBrand)
	}
	for name, l := range map[string][]string{
		"cross": r.CrossReferences, "oem": r.OEMCodes, "engine": r.EngineApplications, "equipment": r.EquipmentApplications,
	} {
		if l == nil || len(l) != 0 {
			t.Fatalf("%s should be empty and non-nil: %#v", name, l)
		}
	}
	if r.Specs["service"] != "engine lubrication" || r.Specs["duty_class"] != "heavy duty" {
		t.Fatalf("default specs = %v", r.Specs)
	}
	testkit.MustContain(t, r.Description, "Filtro de aceite para servicio pesado, SKU EL81808")
	testkit.MustContain(t, r.Description, "Oil filter for heavy duty service, SKU EL81808")

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	testkit.MustContain(t, string(raw), `"cross_references":[]`)
	testkit.MustContain(t, string(raw), `"filter_type":"OIL"`)
}

func TestCompileBoundsAndOverlays(t *testing.T) {
	var many []string
	for i := range 15 {
		many = append(many, fmt.Sprintf("X%d", i%12))
	}
	many = append([]string{"  ", "Cat", "CAT", "Cat"}, many...)

	r := compiler().Compile(Input{
		Query:      "P550388",
		Family:     rulepack.FamilyOil,
		Duty:       rulepack.DutyHD,
		OEMCode:    "P550388",
		SourceCode: "P550388",
		Tier:       TierDirect,
		EnrichedBy: rulepack.BrandDonaldson,
		Enrichment: &Enrichment{
			CrossReferences: many,
			OEMCodes:        []string{"1R1808", "1R1808"},
			Specs:           map[string]string{"service": "lube", "height_mm": "260", "media": "  ", " ": "x"},
			Description:     "  Lube filter, spin-on  ",
		},
	})

	if len(r.CrossReferences) != MaxList {
		t.Fatalf("cross refs len = %d", len(r.CrossReferences))
	}
	if r.CrossReferences[0] != "Cat" || r.CrossReferences[1] != "CAT" || r.CrossReferences[2] != "X0" {
		t.Fatalf("order/case handling = %v", r.CrossReferences)
	}
	seen := map[string]bool{}
	for _, v := range r.CrossReferences {
		if seen[v] {
			t.Fatalf("duplicate %q", v)
		}
		seen[v] = true
	}
	if len(r.OEMCodes) != 1 {
		t.Fatalf("oem codes = %v", r.OEMCodes)
	}
	if r.Specs["service"] != "lube" || r.Specs["height_mm"] != "260" || r.Specs["media"] != "cellulose blend" {
		t.Fatalf("specs overlay = %v", r.Specs)
	}
	if _, ok := r.Specs[""]; ok {
		t.Fatalf("blank key leaked")
	}
	if r.Description != "Lube filter, spin-on" || r.Source != rulepack.BrandDonaldson {
		t.Fatalf("description/source = %q/%q", r.Description, r.Source)
	}
}

func TestCompileUnknownFamilyUsesSentinel(t *testing.T) {
	r := compiler().Compile(Input{Query: "ZZZ99", Family: rulepack.FamilyUnknown, Duty: rulepack.DutyUnknown,
		OEMCode: "ZZZ99", SourceCode: "ZZZ99", Tier: TierFallback})
	if r.SKU != "EXX0000" {
		t.Fatalf("sku = %q", r.SKU)
	}
	if !strings.Contains(r.Description, "general") {
		t.Fatalf("description = %q", r.Description)
	}
}

func TestDegraded(t *testing.T) {
	r := compiler().Degraded("BAD", fmt.Errorf("boom"))
	if r.Status != StatusError || r.SKU != "EXX0000" || r.HomologationTier != TierNone {
		t.Fatalf("degraded = %+v", r)
	}
	if r.FilterType != rulepack.FamilyUnknown || r.Duty != rulepack.DutyUnknown || r.Source != SourceOEM {
		t.Fatalf("degraded classification = %+v", r)
	}
	if r.CrossReferences == nil || r.Specs == nil || r.Description == "" || r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatalf("degraded record must be fully populated: %+v", r)
	}
	if strings.Contains(r.Description, "boom") {
		t.Fatalf("error text leaked into the record")
	}
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	c := New(rulepack.MustDefault())
	a, b := c.Degraded("", nil), c.Degraded("", nil)
	if len(a.ID) != 36 || a.ID == b.ID {
		t.Fatalf("ids = %q %q", a.ID, b.ID)
	}
	if a.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at not UTC")
	}
}
