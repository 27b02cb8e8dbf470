package service

import (
	"errors"
	"fmt"
)

// ErrEmptyNotes is returned when normalization is asked to run on empty input.
var ErrEmptyNotes = errors.New("notes must not be empty")

// ErrMissingRecipe is returned when an update is attempted without a recipe.
var ErrMissingRecipe = errors.New("recipe is required")

// ErrRecipeServingsUnknown is returned when scaling a recipe that has no
// servings count to scale from.
var ErrRecipeServingsUnknown = errors.New("recipe has no servings to scale from")

// EngineUnavailableError means the inference engine could not be reached,
// timed out, or refused the request. The call is not retried here; the
// caller owns retry policy.
type EngineUnavailableError struct {
	Err error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("inference engine unavailable: %v", e.Err)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Err }
