package service

import (
	"context"
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealscribe/backend/internal/models"
	"github.com/mealscribe/backend/internal/types"
)

// PreferencesService stores and merges per-user preference categories.
type PreferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new PreferencesService instance
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// Get returns the stored preferences for a user, or an empty preferences
// row when nothing has been stored yet.
func (s *PreferencesService) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserPreferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &prefs, nil
}

// Update applies a partial update and upserts the result. Each category is
// a tagged union: absent keeps the stored value, present shallow-merges
// over it.
func (s *PreferencesService) Update(ctx context.Context, userID uuid.UUID, updates *types.PreferencesUpdate) (*models.UserPreferences, error) {
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing.Scribe, err = mergeCategory(existing.Scribe, updates.Scribe); err != nil {
		return nil, err
	}
	if existing.Dietary, err = mergeCategory(existing.Dietary, updates.Dietary); err != nil {
		return nil, err
	}
	if existing.Discovery, err = mergeCategory(existing.Discovery, updates.Discovery); err != nil {
		return nil, err
	}
	if existing.Social, err = mergeCategory(existing.Social, updates.Social); err != nil {
		return nil, err
	}

	existing.UserID = userID
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return existing, nil
}

// mergeCategory merges an update category over the stored one. A nil
// update keeps the existing value as-is.
func mergeCategory[T any](existing *T, update *T) (*T, error) {
	if update == nil {
		return existing, nil
	}
	if existing == nil {
		merged := *update
		return &merged, nil
	}
	merged := *existing
	if err := mergo.Merge(&merged, *update, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge preferences: %w", err)
	}
	return &merged, nil
}
