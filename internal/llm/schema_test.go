package llm

import (
	"testing"

	"google.golang.org/genai"

	"fbw-backend/internal/pipeline"
)

func TestOfficialSchemaCoversAllCategories(t *testing.T) {
	schema := officialSchema()

	if len(schema.Properties) != len(pipeline.OfficialCategories) {
		t.Fatalf("expected %d category arrays, got %d", len(pipeline.OfficialCategories), len(schema.Properties))
	}
	for _, spec := range pipeline.OfficialCategories {
		prop, ok := schema.Properties[spec.ID]
		if !ok {
			t.Errorf("schema missing category %s", spec.ID)
			continue
		}
		if prop.Type != genai.TypeArray {
			t.Errorf("%s should be an array, got %v", spec.ID, prop.Type)
		}
	}
	if len(schema.Required) != len(pipeline.OfficialCategories) {
		t.Errorf("every category must be required, got %v", schema.Required)
	}
}

func TestSpecialSchemaEnforcesCap(t *testing.T) {
	schema := specialSchema()

	picks, ok := schema.Properties["special_picks"]
	if !ok {
		t.Fatal("schema missing special_picks")
	}
	if picks.MaxItems == nil || *picks.MaxItems != int64(pipeline.SpecialMaxPicks) {
		t.Errorf("special_picks cap should be %d, got %v", pipeline.SpecialMaxPicks, picks.MaxItems)
	}
	// No MinItems: an empty list is a valid model answer.
	if picks.MinItems != nil {
		t.Error("special_picks must allow an empty list")
	}
}

func TestRecordSchemaBindsConfidenceBand(t *testing.T) {
	schema := recordSchema(pipeline.SpecialCategory)

	conf := schema.Properties["confidence"]
	if conf.Minimum == nil || *conf.Minimum != float64(pipeline.SpecialCategory.MinConfidence) {
		t.Errorf("confidence minimum should follow the category, got %v", conf.Minimum)
	}
	if conf.Maximum == nil || *conf.Maximum != float64(pipeline.SpecialCategory.MaxConfidence) {
		t.Errorf("confidence maximum should follow the category, got %v", conf.Maximum)
	}

	label := schema.Properties["prediction"]
	if len(label.Enum) == 0 {
		t.Error("prediction labels must be an enum")
	}
}
