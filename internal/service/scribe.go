package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/mealscribe/backend/internal/prompt"
	"github.com/mealscribe/backend/internal/schema"
	"github.com/mealscribe/backend/internal/types"
	"github.com/mealscribe/backend/internal/units"
)

// ScribeService turns free-text cooking notes into schema-valid recipes
// and reconciles clarification answers back into them. It holds no state
// between calls: the evolving recipe, including its open questions, is
// carried by the caller.
type ScribeService struct {
	engine     InferenceEngine
	descriptor *jsonschema.Schema
}

// NewScribeService creates a ScribeService backed by the given engine.
func NewScribeService(engine InferenceEngine) *ScribeService {
	return &ScribeService{
		engine:     engine,
		descriptor: schema.Descriptor(),
	}
}

// Normalize drives the first pass: raw notes in, a complete schema-valid
// Recipe (or an error) out. Content is not deterministic between calls;
// only the shape is. No retries happen at this layer.
func (s *ScribeService) Normalize(ctx context.Context, notes string, system schema.MeasurementSystem) (*schema.Recipe, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, ErrEmptyNotes
	}
	if system == "" {
		system = schema.MeasurementUS
	}

	messages := prompt.Normalize(notes, system)
	raw, err := s.engine.Infer(ctx, messages, s.descriptor)
	if err != nil {
		return nil, err
	}

	recipe, err := schema.Parse(raw)
	if err != nil {
		return nil, err
	}

	sortSteps(recipe)
	return recipe, nil
}

// Update drives a reconciliation pass: the current recipe plus a set of
// answers in, a revised recipe out. Fully-answered questions disappear
// from the returned questions list; unanswered ones survive.
func (s *ScribeService) Update(ctx context.Context, recipe *schema.Recipe, answers []types.QuestionAnswer) (*schema.Recipe, error) {
	if recipe == nil {
		return nil, ErrMissingRecipe
	}

	resolved := resolveAnswers(recipe, answers)
	messages, err := prompt.Update(recipe, resolved)
	if err != nil {
		return nil, err
	}

	raw, err := s.engine.Infer(ctx, messages, s.descriptor)
	if err != nil {
		return nil, err
	}

	updated, err := schema.Parse(raw)
	if err != nil {
		return nil, err
	}

	sortSteps(updated)
	return updated, nil
}

// resolveAnswers prepares the answer set for the update prompt: sorted by
// index so client submission order never matters, empty answers dropped as
// not actually answered, and stale indexes resolved to a nil question
// reference instead of failing. Stale indexes are flagged for
// observability but still forwarded; the update rules decide relevance.
func resolveAnswers(recipe *schema.Recipe, answers []types.QuestionAnswer) []prompt.ResolvedAnswer {
	sorted := make([]types.QuestionAnswer, len(answers))
	copy(sorted, answers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	resolved := make([]prompt.ResolvedAnswer, 0, len(sorted))
	for _, qa := range sorted {
		if strings.TrimSpace(qa.Answer) == "" {
			continue
		}
		var question *string
		if qa.Index >= 0 && qa.Index < len(recipe.Questions) {
			q := recipe.Questions[qa.Index]
			question = &q
		} else {
			log.Printf("stale answer index %d (recipe has %d questions)", qa.Index, len(recipe.Questions))
		}
		resolved = append(resolved, prompt.ResolvedAnswer{
			Index:    qa.Index,
			Question: question,
			Answer:   qa.Answer,
		})
	}
	return resolved
}

// sortSteps orders steps by their sort key. The engine is not assumed to
// return them pre-sorted. The sort is stable, so duplicate order values
// keep their returned order.
func sortSteps(recipe *schema.Recipe) {
	sort.SliceStable(recipe.Steps, func(i, j int) bool {
		return recipe.Steps[i].Order < recipe.Steps[j].Order
	})
}

// ScaleRecipe deterministically rescales ingredient quantities to a new
// servings count. No inference round trip is involved.
func ScaleRecipe(recipe *schema.Recipe, toServings int) (*schema.Recipe, error) {
	if recipe == nil {
		return nil, ErrMissingRecipe
	}
	if recipe.Servings == nil || *recipe.Servings <= 0 {
		return nil, ErrRecipeServingsUnknown
	}

	scaled := *recipe
	scaled.Ingredients = make([]schema.Ingredient, len(recipe.Ingredients))
	copy(scaled.Ingredients, recipe.Ingredients)

	for i := range scaled.Ingredients {
		if scaled.Ingredients[i].Quantity == nil {
			continue
		}
		qty := units.ScaleQuantity(*scaled.Ingredients[i].Quantity, *recipe.Servings, toServings)
		scaled.Ingredients[i].Quantity = &qty
	}

	servings := toServings
	scaled.Servings = &servings
	return &scaled, nil
}
