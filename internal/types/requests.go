package types

import (
	"github.com/mealscribe/backend/internal/models"
	"github.com/mealscribe/backend/internal/schema"
)

// NormalizeRequest is the request body for turning raw notes into a recipe.
type NormalizeRequest struct {
	Notes             string `json:"notes" binding:"required,min=1"`
	MeasurementSystem string `json:"measurementSystem" binding:"omitempty,oneof=US METRIC"`
}

// QuestionAnswer pairs a zero-based index into the current recipe's
// questions list with the user's free-text answer. Answers are ephemeral
// request payloads; they are never stored.
type QuestionAnswer struct {
	Index  int    `json:"index" binding:"gte=0"`
	Answer string `json:"answer"`
}

// UpdateRequest is the request body for reconciling answers into a recipe.
// The full current recipe is round-tripped by the client; the server keeps
// no session state between calls.
type UpdateRequest struct {
	Recipe          schema.Recipe    `json:"recipe" binding:"required"`
	QuestionAnswers []QuestionAnswer `json:"questionAnswers" binding:"omitempty,dive"`
}

// ScaleRequest is the request body for deterministic servings scaling.
type ScaleRequest struct {
	Recipe   schema.Recipe `json:"recipe" binding:"required"`
	Servings int           `json:"servings" binding:"required,gt=0"`
}

// PreferencesUpdate is a partial preferences payload: an absent category
// leaves the stored one untouched, a present category is shallow-merged
// over it.
type PreferencesUpdate struct {
	Scribe    *models.ScribePreferences    `json:"scribe"`
	Dietary   *models.DietaryPreferences   `json:"dietary"`
	Discovery *models.DiscoveryPreferences `json:"discovery"`
	Social    *models.SocialPreferences    `json:"social"`
}
