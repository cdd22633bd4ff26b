package api

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filterdetect/internal/modkit"
	"filterdetect/internal/modkit/module"
	"filterdetect/internal/modkit/swaggerkit"
	"filterdetect/internal/platform/config"
	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/testkit"
	dom "filterdetect/internal/services/detect/domain"

	"github.com/go-chi/chi/v5"
)

func TestMountComposesModules(t *testing.T) {
	module.Reset()
	swaggerkit.Reset()
	t.Cleanup(func() {
		module.Reset()
		swaggerkit.Reset()
	})

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{
		Config:        config.New(),
		EnableSwagger: true,
		Detect:        []modkit.Option{modkit.WithPorts(dom.Ports{})},
	})

	cases := []struct {
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{stdhttp.MethodGet, "/health", "", 200, "."},
		{stdhttp.MethodGet, "/api/v1/meta/version", "", 200, `"rules_version":1`},
		{stdhttp.MethodGet, "/api/v1/detect/p550388", "", 200, `"source_brand":"DONALDSON"`},
		{stdhttp.MethodPost, "/api/v1/detect", `{"query":"1R1808"}`, 200, `"sku":"EL81808"`},
		{stdhttp.MethodPost, "/api/v1/detect", `{"query":""}`, 400, `"field":"query"`},
		{stdhttp.MethodGet, "/api/docs/doc.json", "", 200, `"/detect/batch"`},
	}
	for _, c := range cases {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
			mux.ServeHTTP(rr, req)
			if rr.Code != c.status {
				t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
			}
			testkit.MustContain(t, rr.Body.String(), c.want)
		})
	}

	if got := module.Names(); len(got) != 2 {
		t.Fatalf("registered modules = %v", got)
	}
	if _, ok := module.PortsAs[dom.ResolverPort]("detect"); !ok {
		t.Fatalf("detect ports not registered")
	}
}
