// Package llm implements the prediction generator against Google's Gemini
// API with schema-constrained JSON output.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
)

const DefaultModel = "gemini-2.0-flash"

// GeminiGenerator generates prediction slates through one structured model
// call per run. When the API key is absent the generator still constructs,
// and every call reports the configuration problem instead.
type GeminiGenerator struct {
	client    *genai.Client
	model     string
	logger    *logrus.Logger
	configErr error
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *logrus.Logger) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	g := &GeminiGenerator{model: model, logger: logger}

	if apiKey == "" {
		g.configErr = &pipeline.ConfigurationError{Setting: "GEMINI_API_KEY"}
		return g
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		g.configErr = fmt.Errorf("failed to create Gemini client: %w", err)
		return g
	}

	g.client = client
	return g
}

// OfficialSlate produces the combined five-category slate in a single model
// call, so per-category results never need cross-call reconciliation.
func (g *GeminiGenerator) OfficialSlate(ctx context.Context, fixtures []models.Fixture) (*models.OfficialSlate, error) {
	prompt, err := pipeline.ComposeOfficial(fixtures)
	if err != nil {
		return nil, err
	}

	raw, err := g.generate(ctx, prompt, officialSchema())
	if err != nil {
		return nil, err
	}

	var slate models.OfficialSlate
	if err := json.Unmarshal(raw, &slate); err != nil {
		return nil, &pipeline.GenerationError{Reason: fmt.Sprintf("official slate is not valid JSON: %v", err)}
	}

	return &slate, nil
}

// SpecialSlate produces the elite slate. An empty picks array is a valid
// model answer when the eligibility gates exclude every fixture.
func (g *GeminiGenerator) SpecialSlate(ctx context.Context, fixtures []models.Fixture) (*models.SpecialSlate, error) {
	prompt, err := pipeline.ComposeSpecial(fixtures)
	if err != nil {
		return nil, err
	}

	raw, err := g.generate(ctx, prompt, specialSchema())
	if err != nil {
		return nil, err
	}

	var slate models.SpecialSlate
	if err := json.Unmarshal(raw, &slate); err != nil {
		return nil, &pipeline.GenerationError{Reason: fmt.Sprintf("special slate is not valid JSON: %v", err)}
	}

	return &slate, nil
}

// generate performs one schema-constrained call and returns the raw JSON
// payload.
func (g *GeminiGenerator) generate(ctx context.Context, prompt pipeline.Prompt, schema *genai.Schema) ([]byte, error) {
	if g.configErr != nil {
		return nil, g.configErr
	}

	g.logger.Infof("[llm] calling %s (prompt: %d bytes)", g.model, len(prompt.User))

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt.User),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
			Temperature:       genai.Ptr(float32(0.7)),
		},
	)
	if err != nil {
		return nil, &pipeline.GenerationError{Reason: fmt.Sprintf("model call failed: %v", err)}
	}

	text := result.Text()
	if text == "" {
		return nil, &pipeline.GenerationError{Reason: "model returned no parseable output"}
	}

	return []byte(text), nil
}
