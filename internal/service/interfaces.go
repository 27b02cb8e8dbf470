package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/mealscribe/backend/internal/models"
	"github.com/mealscribe/backend/internal/prompt"
	"github.com/mealscribe/backend/internal/schema"
	"github.com/mealscribe/backend/internal/types"
)

// InferenceEngine is the one capability this subsystem consumes from its
// environment: given a prompt and a target shape descriptor, return text
// that should satisfy that shape, or fail.
type InferenceEngine interface {
	Infer(ctx context.Context, messages []prompt.Message, descriptor *jsonschema.Schema) (string, error)
}

// IScribeService defines the two operations the HTTP layer drives.
type IScribeService interface {
	Normalize(ctx context.Context, notes string, system schema.MeasurementSystem) (*schema.Recipe, error)
	Update(ctx context.Context, recipe *schema.Recipe, answers []types.QuestionAnswer) (*schema.Recipe, error)
}

// IPreferencesService defines user-preference storage operations.
type IPreferencesService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	Update(ctx context.Context, userID uuid.UUID, updates *types.PreferencesUpdate) (*models.UserPreferences, error)
}
