package llm

import (
	"google.golang.org/genai"

	"fbw-backend/internal/pipeline"
)

// predictionLabels are the only labels the model may emit. Keeping the enum
// in the schema rejects free-form labels at the boundary instead of after
// parsing.
var predictionLabels = []string{
	"Home Win", "Away Win", "Draw",
	"Double Chance 1X", "Double Chance X2", "Double Chance 12",
	"Over 1.5", "Over 2.5", "Under 2.5", "Under 3.5",
	"BTTS", "BTTS No",
}

// recordSchema declares one pick. Numeric ranges live in the schema so
// out-of-band odds or confidence never reach the caller as parsed output.
func recordSchema(spec pipeline.CategorySpec) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"match": {
				Type:        genai.TypeString,
				Description: "Human-readable match description, e.g. \"Arsenal vs Chelsea\"",
			},
			"home_team": {Type: genai.TypeString},
			"away_team": {Type: genai.TypeString},
			"league":    {Type: genai.TypeString},
			"kickoff": {
				Type:        genai.TypeString,
				Description: "Kickoff time exactly as given in the fixture list",
			},
			"prediction": {
				Type: genai.TypeString,
				Enum: predictionLabels,
			},
			"odds": {
				Type:    genai.TypeNumber,
				Minimum: genai.Ptr(1.01),
				Maximum: genai.Ptr(50.0),
			},
			"confidence": {
				Type:    genai.TypeInteger,
				Minimum: genai.Ptr(float64(spec.MinConfidence)),
				Maximum: genai.Ptr(float64(spec.MaxConfidence)),
			},
			"fixture_id": {
				Type:        genai.TypeInteger,
				Description: "The id field of the fixture this pick is for",
			},
		},
		Required: []string{
			"match", "home_team", "away_team", "league",
			"kickoff", "prediction", "odds", "confidence", "fixture_id",
		},
	}
}

// officialSchema constrains the combined five-category response of one
// official run.
func officialSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(pipeline.OfficialCategories))
	required := make([]string, 0, len(pipeline.OfficialCategories))
	for _, spec := range pipeline.OfficialCategories {
		props[spec.ID] = &genai.Schema{
			Type:  genai.TypeArray,
			Items: recordSchema(spec),
		}
		required = append(required, spec.ID)
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

// specialSchema constrains the elite response. MaxItems backs the hard cap;
// an empty array is legal output.
func specialSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"special_picks": {
				Type:     genai.TypeArray,
				Items:    recordSchema(pipeline.SpecialCategory),
				MaxItems: genai.Ptr(int64(pipeline.SpecialMaxPicks)),
			},
		},
		Required: []string{"special_picks"},
	}
}
