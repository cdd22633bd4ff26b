package swaggerkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "filterdetect/internal/platform/net/http"
	"filterdetect/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestBuildAppliesMutatorsAndDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")

	Register(func(spec map[string]any) {
		AddSchema(spec, "Record", map[string]any{"type": "object"})
		AddPath(spec, "/detect/{query}", "GET", map[string]any{
			"responses": map[string]any{"200": map[string]any{"description": "OK"}},
		})
	})
	Register(nil)

	spec, err := Build("1.2.3")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	info := spec["info"].(map[string]any)
	if info["version"] != "1.2.3" || info["title"] != "filterdetect API (staging)" {
		t.Fatalf("info = %v", info)
	}
	if spec["openapi"] != "3.0.3" || spec["servers"] == nil {
		t.Fatalf("servers/openapi not ensured: %v", spec)
	}
	sch := spec["components"].(map[string]any)["schemas"].(map[string]any)
	for _, name := range []string{"ErrorResponse", "Record"} {
		if _, ok := sch[name]; !ok {
			t.Fatalf("schema %s missing", name)
		}
	}
	get := spec["paths"].(map[string]any)["/detect/{query}"].(map[string]any)["get"].(map[string]any)
	resps := get["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("response %s missing", code)
		}
	}
}

func TestEnsureServersDowngrades(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("swagger 2 not lifted: %v", spec)
	}
	spec = map[string]any{"openapi": "3.1.0", "servers": []any{}}
	ensureServers(spec, "/x")
	if spec["openapi"] != "3.0.3" || len(spec["servers"].([]any)) != 0 {
		t.Fatalf("3.1 not downgraded or servers replaced: %v", spec)
	}
}

func TestMountServesDoc(t *testing.T) {
	Reset()
	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), "dev", true)

	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("doc.json = %d", rr.Code)
	}
	doc := testkit.DecodeJSON[map[string]any](t, rr.Body.Bytes())
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("doc = %v", doc)
	}

	testkit.Swap(t, &docReader, func() []byte { return []byte("{") })
	rr = httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("broken doc = %d", rr.Code)
	}
}

func TestMountDisabled(t *testing.T) {
	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), "dev", false)
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs = %d", rr.Code)
	}
}
