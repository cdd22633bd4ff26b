package module

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filterdetect/internal/core/rulepack"
	modkit "filterdetect/internal/modkit"
	"filterdetect/internal/modkit/swaggerkit"
	"filterdetect/internal/platform/config"
	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/testkit"
	dom "filterdetect/internal/services/detect/domain"

	"github.com/go-chi/chi/v5"
)

type stubFinder struct{ calls int }

func (s *stubFinder) GetBrandData(context.Context, string) (*dom.BrandData, error) {
	s.calls++
	return &dom.BrandData{Found: true, Code: "P551234"}, nil
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_DETECT_FINDER_TIMEOUT", "5s")
	t.Setenv("CORE_DETECT_ENRICH_ON_HIT", "false")
	t.Setenv("CORE_DETECT_FRAM_URL", "http://fram.local/api")
	t.Setenv("CORE_DETECT_BATCH_MAX", "10")

	o := FromConfig(config.New())
	if o.Resolver.FinderTimeout != 5*time.Second || o.Resolver.RegistryTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v/%v", o.Resolver.FinderTimeout, o.Resolver.RegistryTimeout)
	}
	if o.Resolver.EnrichOnHit || !o.Resolver.EnrichDirect {
		t.Fatalf("enrich flags = %+v", o.Resolver)
	}
	if o.FramURL != "http://fram.local/api" || o.DonaldsonURL != "" || o.BatchMax != 10 {
		t.Fatalf("options = %+v", o)
	}
	if o.CacheTTL != 24*time.Hour || o.Resolver.BatchWorkers != 4 {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestCollaboratorsFromConfig(t *testing.T) {
	p := collaborators(modkit.Deps{}, Options{DonaldsonURL: "http://donaldson.local"})
	if p.Registry != nil {
		t.Fatalf("registry without PG")
	}
	if p.Finders.For(rulepack.BrandDonaldson) == nil || p.Finders.For(rulepack.BrandFram) != nil {
		t.Fatalf("finders = %v", p.Finders)
	}

	if p := collaborators(modkit.Deps{}, Options{}); p.Finders != nil || p.Registry != nil {
		t.Fatalf("no config should mean no collaborators: %+v", p)
	}
}

func TestModuleMountsAndUsesInjectedPorts(t *testing.T) {
	swaggerkit.Reset()
	t.Cleanup(swaggerkit.Reset)

	f := &stubFinder{}
	m := New(modkit.Deps{Cfg: config.New()}, modkit.WithPorts(dom.Ports{
		Finders: dom.Finders{rulepack.BrandDonaldson: f},
	}))
	if m.Name() != "detect" {
		t.Fatalf("name = %s", m.Name())
	}
	if _, ok := m.Ports().(dom.ResolverPort); !ok {
		t.Fatalf("ports = %T", m.Ports())
	}

	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/api/v1", func(r phttp.Router) { m.MountRoutes(r) })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/api/v1/detect/4N0015", nil))
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
	}
	testkit.MustContain(t, rr.Body.String(), `"homologation_tier":"finder"`)
	testkit.MustContain(t, rr.Body.String(), `"sku":"EL81234"`)
	if f.calls == 0 {
		t.Fatalf("injected finder not used")
	}
}
