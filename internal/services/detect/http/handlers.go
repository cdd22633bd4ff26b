// Package http provides the detect endpoints
package http

import (
	"net/http"

	"filterdetect/internal/modkit/httpkit"
	"filterdetect/internal/modkit/swaggerkit"
	perr "filterdetect/internal/platform/errors"
	"filterdetect/internal/platform/logger"
	dom "filterdetect/internal/services/detect/domain"
)

// DefaultBatchMax is the largest batch the validator admits
const DefaultBatchMax = 50

// Deps are the handler dependencies
type Deps struct {
	Resolver dom.ResolverPort
	BatchMax int
}

type handlers struct {
	deps Deps
}

// Register mounts the detect routes and their docs
func Register(r httpkit.Router, d Deps) {
	if d.BatchMax <= 0 || d.BatchMax > DefaultBatchMax {
		d.BatchMax = DefaultBatchMax
	}
	h := &handlers{deps: d}

	httpkit.PostJSON(r, "/batch", h.batch)
	httpkit.Get(r, "/{query}", h.get)
	httpkit.PostJSON(r, "/", h.post)

	swaggerkit.Register(Docs)
}

// get resolves the path query
func (h *handlers) get(r *http.Request) (any, error) {
	in := dom.DetectRequest{Query: httpkit.URLParam(r, "query")}
	if err := httpkit.Validate(in); err != nil {
		return nil, err
	}
	return h.resolve(r, in.Query), nil
}

func (h *handlers) post(r *http.Request, in dom.DetectRequest) (any, error) {
	return h.resolve(r, in.Query), nil
}

func (h *handlers) resolve(r *http.Request, q string) dom.DetectionResult {
	ctx := r.Context()
	rec := h.deps.Resolver.Resolve(ctx, q)
	logger.C(ctx).Debug().
		Str("sku", rec.SKU).
		Str("tier", string(rec.HomologationTier)).
		Str("status", rec.Status).
		Msg("detect")
	return rec
}

func (h *handlers) batch(r *http.Request, in dom.BatchRequest) (any, error) {
	if len(in.Queries) > h.deps.BatchMax {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "queries must be at most %d", h.deps.BatchMax), "queries")
	}
	out := h.deps.Resolver.ResolveBatch(r.Context(), in.Queries)
	return dom.BatchResult{Count: len(out), Results: out}, nil
}

// Docs adds the detect operations to the OpenAPI document
func Docs(spec map[string]any) {
	swaggerkit.AddSchema(spec, "DetectionResult", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":                     str(),
			"status":                 map[string]any{"type": "string", "enum": []any{"OK", "ERROR"}},
			"query_norm":             str(),
			"sku":                    map[string]any{"type": "string", "example": "EL81808"},
			"filter_type":            str(),
			"duty":                   map[string]any{"type": "string", "enum": []any{"HD", "LD", "UNKNOWN"}},
			"source_brand":           str(),
			"oem_code":               str(),
			"source_code":            str(),
			"homologation_tier":      map[string]any{"type": "string", "enum": []any{"direct", "local", "registry", "finder", "fallback", "none"}},
			"source":                 str(),
			"cross_references":       list(),
			"oem_codes":              list(),
			"engine_applications":    list(),
			"equipment_applications": list(),
			"specs":                  map[string]any{"type": "object", "additionalProperties": str()},
			"description":            str(),
			"created_at":             map[string]any{"type": "string", "format": "date-time"},
		},
	})
	swaggerkit.AddSchema(spec, "BatchResult", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"count":   map[string]any{"type": "integer"},
			"results": map[string]any{"type": "array", "items": swaggerkit.Ref("DetectionResult")},
		},
	})

	ok := func(schema string) map[string]any {
		return map[string]any{"200": map[string]any{
			"description": "resolved",
			"content":     map[string]any{"application/json": map[string]any{"schema": swaggerkit.Ref(schema)}},
		}}
	}
	body := func(props map[string]any, required ...any) map[string]any {
		return map[string]any{
			"required": true,
			"content": map[string]any{"application/json": map[string]any{"schema": map[string]any{
				"type": "object", "required": required, "properties": props,
			}}},
		}
	}

	swaggerkit.AddPath(spec, "/detect/{query}", http.MethodGet, map[string]any{
		"tags":    []any{"Detect"},
		"summary": "Resolve one part-number query",
		"parameters": []any{map[string]any{
			"name": "query", "in": "path", "required": true, "schema": str(),
		}},
		"responses": ok("DetectionResult"),
	})
	swaggerkit.AddPath(spec, "/detect", http.MethodPost, map[string]any{
		"tags":        []any{"Detect"},
		"summary":     "Resolve one part-number query",
		"requestBody": body(map[string]any{"query": str()}, "query"),
		"responses":   ok("DetectionResult"),
	})
	swaggerkit.AddPath(spec, "/detect/batch", http.MethodPost, map[string]any{
		"tags":        []any{"Detect"},
		"summary":     "Resolve up to 50 queries, results in input order",
		"requestBody": body(map[string]any{"queries": list()}, "queries"),
		"responses":   ok("BatchResult"),
	})
}

func str() map[string]any  { return map[string]any{"type": "string"} }
func list() map[string]any { return map[string]any{"type": "array", "items": str()} }
