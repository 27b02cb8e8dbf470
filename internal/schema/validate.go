package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldViolation describes a single schema rule the value failed.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// MalformedOutputError means the raw engine output was not parseable as
// JSON at all, before structural validation could even run.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("engine output is not valid JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// SchemaViolationError means the output parsed but does not conform to the
// Recipe shape. Violations always carries every failure, not just the first.
type SchemaViolationError struct {
	Violations []FieldViolation
}

func (e *SchemaViolationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("recipe failed schema validation: %s", strings.Join(msgs, "; "))
}

var validate = validator.New()

// Parse decodes raw engine output and validates it against the Recipe
// shape. It returns *MalformedOutputError when the text is not JSON and
// *SchemaViolationError listing every violation when the structure is
// invalid. It never repairs or coerces a non-conforming value.
func Parse(raw string) (*Recipe, error) {
	var recipe Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, &MalformedOutputError{Err: err}
	}
	if violations := Validate(&recipe); len(violations) > 0 {
		return nil, &SchemaViolationError{Violations: violations}
	}
	return &recipe, nil
}

// Validate checks an already-typed Recipe and returns every violation
// found, or nil when the recipe conforms.
func Validate(recipe *Recipe) []FieldViolation {
	var violations []FieldViolation

	if err := validate.Struct(recipe); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			violations = append(violations, FieldViolation{
				Field:   "recipe",
				Rule:    "invalid",
				Message: err.Error(),
			})
			return violations
		}
		for _, fe := range validationErrs {
			violations = append(violations, FieldViolation{
				Field:   fieldPath(fe.Namespace()),
				Rule:    fe.Tag(),
				Message: fmt.Sprintf("%s failed rule %q", fieldPath(fe.Namespace()), fe.Tag()),
			})
		}
	}

	violations = append(violations, spanBoundViolations(recipe)...)
	return violations
}

// spanBoundViolations checks every source span against the length of
// sourceText. The offsets come straight from the engine and downstream
// renderers index into sourceText with them, so out-of-range spans are
// rejected here rather than at render time.
func spanBoundViolations(recipe *Recipe) []FieldViolation {
	limit := len(recipe.SourceText)
	var violations []FieldViolation

	check := func(field string, span SourceSpan) {
		if span.End > limit {
			violations = append(violations, FieldViolation{
				Field:   field,
				Rule:    "span_bounds",
				Message: fmt.Sprintf("%s end %d exceeds sourceText length %d", field, span.End, limit),
			})
		}
	}

	for i, ing := range recipe.Ingredients {
		for j, span := range ing.SourceSpans {
			check(fmt.Sprintf("ingredients[%d].sourceSpans[%d]", i, j), span)
		}
	}
	for i, step := range recipe.Steps {
		for j, span := range step.SourceSpans {
			check(fmt.Sprintf("steps[%d].sourceSpans[%d]", i, j), span)
		}
	}
	return violations
}

// fieldPath strips the root struct name from a validator namespace so
// violations read as recipe-relative paths.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
