package schema

import (
	"github.com/invopop/jsonschema"
)

// MeasurementSystem selects which unit convention a recipe uses.
type MeasurementSystem string

const (
	MeasurementUS     MeasurementSystem = "US"
	MeasurementMetric MeasurementSystem = "METRIC"
)

// SourceSpan is a character-offset range into the recipe's sourceText that
// substantiates where a field came from.
type SourceSpan struct {
	Start int `json:"start" validate:"gte=0" jsonschema:"description=Start character offset into sourceText."`
	End   int `json:"end" validate:"gte=0,gtefield=Start" jsonschema:"description=End character offset into sourceText."`
}

// Ingredient is a single recipe ingredient as extracted from the notes.
type Ingredient struct {
	Name        string       `json:"name" validate:"required" jsonschema:"description=The name for the ingredient."`
	Quantity    *float64     `json:"quantity,omitempty" jsonschema:"description=The quantity for this ingredient."`
	Unit        *string      `json:"unit,omitempty" jsonschema:"description=Unit of measurement for this ingredient."`
	Preparation *string      `json:"preparation,omitempty" jsonschema:"description=Any preparation this ingredient needs."`
	Optional    bool         `json:"optional" jsonschema:"description=Whether or not this ingredient is optional."`
	Inferred    bool         `json:"inferred" jsonschema:"description=Whether or not this ingredient was inferred/implied rather than stated in the notes."`
	SourceSpans []SourceSpan `json:"sourceSpans" validate:"dive" jsonschema:"description=Character ranges in the original notes that this ingredient references. Empty when there is no confident textual grounding."`
}

// Step is a single instruction in the recipe. Order is a sort key only;
// gaps and duplicates are tolerated.
type Step struct {
	Order           int          `json:"order" validate:"gte=1" jsonschema:"description=The order number for this step in the recipe."`
	Text            string       `json:"text" validate:"required" jsonschema:"description=The imperative instruction text for this step."`
	DurationMinutes *int         `json:"durationMinutes,omitempty" jsonschema:"description=The duration in minutes for this step."`
	TemperatureC    *float64     `json:"temperatureC,omitempty" jsonschema:"description=The temperature in celsius for this step."`
	Inferred        bool         `json:"inferred" jsonschema:"description=Whether or not this step was inferred/implied rather than stated in the notes."`
	SourceSpans     []SourceSpan `json:"sourceSpans" validate:"dive" jsonschema:"description=Character ranges in the original notes that this step references. Empty when there is no confident textual grounding."`
}

// Recipe is the root structured object produced by extraction: the
// standardized recipe plus its open clarification questions and the
// original notes the offsets refer to.
type Recipe struct {
	Title             string            `json:"title" validate:"required" jsonschema:"description=The title of the recipe."`
	Description       string            `json:"description" validate:"required" jsonschema:"description=The description of the recipe."`
	Servings          *int              `json:"servings,omitempty" validate:"omitempty,gt=0" jsonschema:"description=The number of servings the recipe creates."`
	MeasurementSystem MeasurementSystem `json:"measurementSystem" validate:"required,oneof=US METRIC" jsonschema:"enum=US,enum=METRIC,description=Which measurement system this recipe references."`
	PrepTimeMinutes   *int              `json:"prepTimeMinutes,omitempty" validate:"omitempty,gte=0" jsonschema:"description=The number of minutes to prepare the dish."`
	CookTimeMinutes   *int              `json:"cookTimeMinutes,omitempty" validate:"omitempty,gte=0" jsonschema:"description=The number of minutes to cook the dish."`
	TotalTimeMinutes  *int              `json:"totalTimeMinutes,omitempty" validate:"omitempty,gte=0" jsonschema:"description=The total number of minutes to complete the recipe."`
	Ingredients       []Ingredient      `json:"ingredients" validate:"required,min=1,dive" jsonschema:"description=The ingredients used in the recipe."`
	Steps             []Step            `json:"steps" validate:"required,min=1,dive" jsonschema:"description=The ordered steps to make the recipe."`
	Notes             []string          `json:"notes" jsonschema:"description=Additional notes about the dish."`
	Tags              []string          `json:"tags" jsonschema:"description=Tags relevant to the recipe."`
	Questions         []string          `json:"questions" jsonschema:"description=Short direct questions to ask the user when more information is needed to complete the recipe."`
	SourceText        string            `json:"sourceText" validate:"required" jsonschema:"description=The original recipe notes/text submitted by the user."`
}

// Descriptor returns the JSON Schema for Recipe, used both as the
// structured-output format sent to the inference engine and as the shape
// the Validator checks raw output against.
func Descriptor() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	return reflector.Reflect(&Recipe{})
}
