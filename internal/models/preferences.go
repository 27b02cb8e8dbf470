package models

import (
	"time"

	"github.com/google/uuid"
)

// ScribePreferences controls how recipe extraction output reads.
type ScribePreferences struct {
	Verbosity          string `json:"verbosity,omitempty"`
	Tone               string `json:"tone,omitempty"`
	Creativity         int    `json:"creativity,omitempty"`
	CuisineBias        string `json:"cuisineBias,omitempty"`
	UseOnlyListed      bool   `json:"useOnlyListed,omitempty"`
	AllowPantryStaples bool   `json:"allowPantryStaples,omitempty"`
	Units              string `json:"units,omitempty"`
	StepFormat         string `json:"stepFormat,omitempty"`
	IncludePrepTimes   bool   `json:"includePrepTimes,omitempty"`
}

// DietaryPreferences captures dietary patterns and constraints.
type DietaryPreferences struct {
	Patterns        []string `json:"patterns,omitempty"`
	Allergies       []string `json:"allergies,omitempty"`
	NutritionGoals  []string `json:"nutritionGoals,omitempty"`
	DefaultServings int      `json:"defaultServings,omitempty"`
	ConstraintType  string   `json:"constraintType,omitempty"`
}

// DiscoveryPreferences tunes what the discovery feed surfaces.
type DiscoveryPreferences struct {
	PreferredCuisines []string `json:"preferredCuisines,omitempty"`
	CookingTime       string   `json:"cookingTime,omitempty"`
	SkillLevel        string   `json:"skillLevel,omitempty"`
	ShowTrending      bool     `json:"showTrending,omitempty"`
	ShowNewCreations  bool     `json:"showNewCreations,omitempty"`
	ShowHighlyRated   bool     `json:"showHighlyRated,omitempty"`
}

// SocialPreferences controls sharing and visibility defaults.
type SocialPreferences struct {
	RecipeVisibility string `json:"recipeVisibility,omitempty"`
	AllowSave        bool   `json:"allowSave,omitempty"`
	AllowRemix       bool   `json:"allowRemix,omitempty"`
	AllowComments    bool   `json:"allowComments,omitempty"`
	RequireCredit    bool   `json:"requireCredit,omitempty"`
	FeaturedOptIn    bool   `json:"featuredOptIn,omitempty"`
}

// UserPreferences is one row per user; each category is stored as its own
// JSON column so categories can be merged independently.
type UserPreferences struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Scribe    *ScribePreferences    `gorm:"serializer:json" json:"scribe,omitempty"`
	Dietary   *DietaryPreferences   `gorm:"serializer:json" json:"dietary,omitempty"`
	Discovery *DiscoveryPreferences `gorm:"serializer:json" json:"discovery,omitempty"`
	Social    *SocialPreferences    `gorm:"serializer:json" json:"social,omitempty"`
}

// TableName specifies the table name for the UserPreferences model
func (UserPreferences) TableName() string {
	return "user_preferences"
}
