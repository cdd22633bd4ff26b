// Package domain defines the resolver's types and the ports it consumes and produces
package domain

import "filterdetect/internal/core/record"

type (
	// DetectionResult is the terminal record of one resolution
	DetectionResult = record.Record

	// Enrichment is the optional data a finder scrapes for a code
	Enrichment = record.Enrichment

	// Tier names the homologation stage that answered
	Tier = record.Tier
)

// CrossReference is a registry row; nil or blank fields are misses
type CrossReference struct {
	Donaldson *string `json:"donaldson"`
	Fram      *string `json:"fram"`
}

// BrandData is a finder answer. Code is the brand's equivalent part number
type BrandData struct {
	Found bool
	Code  string
	Enrichment
}

// DetectRequest is the single query body
type DetectRequest struct {
	Query string `json:"query" validate:"partquery"`
}

// BatchRequest is the batch body
type BatchRequest struct {
	Queries []string `json:"queries" validate:"required,min=1,max=50,dive,partquery"`
}

// BatchResult keeps input order
type BatchResult struct {
	Count   int               `json:"count"`
	Results []DetectionResult `json:"results"`
}
