package testhelpers

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/mock"

	"github.com/mealscribe/backend/internal/prompt"
)

// MockInferenceEngine is a mock implementation of the InferenceEngine interface
type MockInferenceEngine struct {
	mock.Mock
}

func (m *MockInferenceEngine) Infer(ctx context.Context, messages []prompt.Message, descriptor *jsonschema.Schema) (string, error) {
	args := m.Called(ctx, messages, descriptor)
	return args.String(0), args.Error(1)
}
