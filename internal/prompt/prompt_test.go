package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealscribe/backend/internal/schema"
)

func TestNormalize(t *testing.T) {
	notes := "chicken thighs\nsoy sauce\nhoney\ngarlic\n350 for ~25 min\nserve over rice"

	messages := Normalize(notes, schema.MeasurementUS)
	require.Len(t, messages, 2)

	t.Run("should encode the hard rules in the system message", func(t *testing.T) {
		system := messages[0]
		assert.Equal(t, "system", system.Role)
		assert.Contains(t, system.Content, "Measurement system to output: US.")
		assert.Contains(t, system.Content, "Do NOT invent critical details")
		assert.Contains(t, system.Content, "ask the smallest set of questions")
		assert.Contains(t, system.Content, "Do not guess spans")
	})

	t.Run("should pass the notes verbatim so span offsets stay valid", func(t *testing.T) {
		user := messages[1]
		assert.Equal(t, "user", user.Role)
		assert.Contains(t, user.Content, notes)
	})

	t.Run("should be pure", func(t *testing.T) {
		again := Normalize(notes, schema.MeasurementUS)
		assert.Equal(t, messages, again)
	})
}

func TestUpdate(t *testing.T) {
	question := "What size pan?"
	recipe := &schema.Recipe{
		Title:             "Brownies",
		Description:       "Fudgy brownies.",
		MeasurementSystem: schema.MeasurementUS,
		Ingredients:       []schema.Ingredient{{Name: "cocoa"}},
		Steps:             []schema.Step{{Order: 1, Text: "Mix and bake."}},
		Questions:         []string{question},
		SourceText:        "cocoa, sugar, bake",
	}

	t.Run("should serialize the full current recipe and the resolved answers", func(t *testing.T) {
		messages, err := Update(recipe, []ResolvedAnswer{
			{Index: 0, Question: &question, Answer: "9x13 inch"},
		})
		require.NoError(t, err)
		require.Len(t, messages, 2)

		assert.Contains(t, messages[0].Content, "using ONLY those answers")
		assert.Contains(t, messages[0].Content, "Remove questions that are fully answered")
		assert.Contains(t, messages[1].Content, `"title":"Brownies"`)
		assert.Contains(t, messages[1].Content, "What size pan?")
		assert.Contains(t, messages[1].Content, "9x13 inch")
	})

	t.Run("should render a stale answer with a null question reference", func(t *testing.T) {
		messages, err := Update(recipe, []ResolvedAnswer{
			{Index: 7, Question: nil, Answer: "whatever"},
		})
		require.NoError(t, err)

		assert.Contains(t, messages[1].Content, `"question": null`)
		assert.Contains(t, messages[1].Content, "whatever")
	})
}
