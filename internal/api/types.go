package api

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/mealscribe/backend/internal/schema"
)

// ErrorResponse is the generic error body for non-validation failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries the full tree of request violations, one
// entry per failing field. Nothing is partially processed on a 400.
type ValidationErrorResponse struct {
	Error map[string][]string `json:"error"`
}

// violationTree renders a binding error as field path → messages. Falls
// back to a single "request" entry for non-field errors such as JSON
// syntax problems.
func violationTree(err error) ValidationErrorResponse {
	tree := make(map[string][]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			field := fe.Namespace()
			tree[field] = append(tree[field], "failed rule \""+fe.Tag()+"\"")
		}
		return ValidationErrorResponse{Error: tree}
	}

	tree["request"] = append(tree["request"], err.Error())
	return ValidationErrorResponse{Error: tree}
}

// schemaViolationTree renders Validator violations in the same shape as
// binding failures so clients see one error format.
func schemaViolationTree(violations []schema.FieldViolation) ValidationErrorResponse {
	tree := make(map[string][]string)
	for _, v := range violations {
		tree[v.Field] = append(tree[v.Field], v.Message)
	}
	return ValidationErrorResponse{Error: tree}
}
