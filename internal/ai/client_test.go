// ABOUTME: Tests for the Gemini client using a fake content generator.
// ABOUTME: Checks model routing, response schemas, prompts, and ServiceError wrapping.
package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/harperreed/nexusfit/internal/models"
)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeneratePlanUsesPlanModelAndSchema(t *testing.T) {
	gen := &fakeGenerator{text: `{"weeklyPlan": []}`}
	c := newClient(gen, Config{})

	p := models.NewProfile("Ana")
	p.Availability.MaxSessionTime = 50
	out, err := c.GeneratePlan(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, `{"weeklyPlan": []}`, string(out))
	assert.Equal(t, DefaultPlanModel, gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.ElementsMatch(t, []string{"weeklyPlan", "summary", "motivation", "references"}, gen.config.ResponseSchema.Required)

	assert.Contains(t, gen.prompt, `"name": "Ana"`)
	assert.Contains(t, gen.prompt, "maximum session time of 50 minutes")
	assert.Contains(t, gen.prompt, "4 meals per day with 4 options each")
}

func TestCalculateNutritionUsesFastModel(t *testing.T) {
	gen := &fakeGenerator{text: `{"calories": 100}`}
	c := newClient(gen, Config{FastModel: "custom-flash"})

	_, err := c.CalculateNutrition(context.Background(), "Rice", "100g", &NutritionContext{Objective: "mass_gain", TargetWeight: 80})
	require.NoError(t, err)

	assert.Equal(t, "custom-flash", gen.model)
	assert.Contains(t, gen.prompt, "Food: Rice")
	assert.Contains(t, gen.prompt, "Portion: 100g")
	assert.Contains(t, gen.prompt, "target weight of 80kg")
	assert.ElementsMatch(t, []string{"calories", "protein", "carbs", "fats", "source"}, gen.config.ResponseSchema.Required)
}

func TestFetchLibraryHasNoSchema(t *testing.T) {
	gen := &fakeGenerator{text: `[]`}
	c := newClient(gen, Config{})

	_, err := c.FetchLibrary(context.Background(), models.CategoryKettlebell)
	require.NoError(t, err)
	assert.Nil(t, gen.config.ResponseSchema)
	assert.Contains(t, gen.prompt, `"Kettlebell"`)
	assert.Contains(t, gen.prompt, "Chest, Back, Legs")
	assert.NotContains(t, gen.prompt, "Other")
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"transport", &fakeGenerator{err: errors.New("connection reset")}},
		{"empty", &fakeGenerator{text: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(tt.gen, Config{})
			_, err := c.CalculateNutrition(context.Background(), "Egg", "1 unit", nil)

			var serr *ServiceError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "calculate nutrition", serr.Op)
		})
	}
}

func TestGeneratePlanNilProfile(t *testing.T) {
	c := newClient(&fakeGenerator{text: "{}"}, Config{})
	_, err := c.GeneratePlan(context.Background(), nil)
	var serr *ServiceError
	assert.ErrorAs(t, err, &serr)
}

func TestPlanSchemaMirrorsExercise(t *testing.T) {
	s := PlanSchema()
	day := s.Properties["weeklyPlan"].Items
	ex := day.Properties["workout"].Items
	assert.Len(t, ex.Required, 10)
	assert.Equal(t, genai.TypeNumber, ex.Properties["kcalEstimate"].Type)

	opt := day.Properties["nutrition"].Items.Properties["options"].Items
	assert.Equal(t, genai.TypeString, opt.Properties["source"].Type)
}

func TestNutritionPromptWithoutContext(t *testing.T) {
	p := NutritionPrompt("Oats", "40g", nil)
	assert.NotContains(t, p, "objective")
}
