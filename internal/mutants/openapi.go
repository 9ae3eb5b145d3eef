package mutants

import "github.com/JaimeStill/helix/pkg/openapi"

type spec struct {
	Analyze *openapi.Operation
	Stats   *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec documents the mutant routes and their request and response schemas.
var Spec = spec{
	Analyze: &openapi.Operation{
		Summary:     "Classify a DNA sample",
		Description: "A sample is mutant when its grid holds more than one run of four equal bases horizontally, vertically, or diagonally. Results are stored once per distinct sample.",
		Tags:        []string{"Mutants"},
		RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", true),
		Responses: map[int]*openapi.Response{
			200: {Description: "Mutant DNA"},
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: {Description: "Human DNA"},
			413: openapi.ResponseRef("PayloadTooLarge"),
			500: openapi.ResponseRef("InternalError"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Stats: &openapi.Operation{
		Summary:     "Classification statistics",
		Description: "Counts of stored mutant and human samples. ratio is mutants over humans, or 0 when no humans are stored.",
		Tags:        []string{"Mutants"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stored classification counts", "Stats"),
			401: openapi.ResponseRef("Unauthorized"),
			500: openapi.ResponseRef("InternalError"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"AnalyzeRequest": {
			Type:     "object",
			Required: []string{"dna"},
			Properties: map[string]*openapi.Schema{
				"dna": {
					Type:        "array",
					Description: "Rows of a square grid, at least 4x4, over the bases A, T, C, G (case-insensitive)",
					Items:       &openapi.Schema{Type: "string", Pattern: "^[ATCGatcg]+$"},
					Example:     []string{"ATGCGA", "CAGTGC", "TTATGT", "AGAAGG", "CCCCTA", "TCACTG"},
				},
			},
		},
		"Stats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"count_mutant_dna": {Type: "integer", Example: 40},
				"count_human_dna":  {Type: "integer", Example: 100},
				"ratio":            {Type: "number", Format: "double", Example: 0.4},
			},
		},
	},
}
