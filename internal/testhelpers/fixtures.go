package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mealscribe/backend/internal/schema"
)

// ValidRecipe returns a minimal schema-valid recipe rooted in the given
// source text. Tests mutate the result to produce the shape they need.
func ValidRecipe(sourceText string) *schema.Recipe {
	servings := 4
	return &schema.Recipe{
		Title:             "Soy Honey Chicken",
		Description:       "Chicken thighs glazed with soy and honey.",
		Servings:          &servings,
		MeasurementSystem: schema.MeasurementUS,
		Ingredients: []schema.Ingredient{
			{Name: "chicken thighs", SourceSpans: []schema.SourceSpan{}},
		},
		Steps: []schema.Step{
			{Order: 1, Text: "Bake until cooked through.", SourceSpans: []schema.SourceSpan{}},
		},
		Notes:      []string{},
		Tags:       []string{},
		Questions:  []string{},
		SourceText: sourceText,
	}
}

// MarshalRecipe renders a recipe the way the engine would return it.
func MarshalRecipe(t *testing.T, recipe *schema.Recipe) string {
	t.Helper()
	data, err := json.Marshal(recipe)
	require.NoError(t, err)
	return string(data)
}
