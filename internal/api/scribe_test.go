package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mealscribe/backend/internal/schema"
	"github.com/mealscribe/backend/internal/service"
	"github.com/mealscribe/backend/internal/testhelpers"
)

func setupScribeRouter(engine service.InferenceEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewScribeHandler(service.NewScribeService(engine))
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScribeHandler_Normalize(t *testing.T) {
	notes := "chicken thighs\nsoy sauce\nhoney\ngarlic\n350 for ~25 min\nserve over rice"

	t.Run("should return the extracted recipe", func(t *testing.T) {
		recipe := testhelpers.ValidRecipe(notes)
		recipe.Questions = []string{"How many servings?"}

		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return(testhelpers.MarshalRecipe(t, recipe), nil)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{
			"notes":             notes,
			"measurementSystem": "US",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var got schema.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.GreaterOrEqual(t, len(got.Ingredients), 1)
		assert.GreaterOrEqual(t, len(got.Steps), 1)
		assert.NotEmpty(t, got.Questions)
	})

	t.Run("should reject missing notes with a violation tree", func(t *testing.T) {
		engine := new(testhelpers.MockInferenceEngine)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{})

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
		engine.AssertNotCalled(t, "Infer")
	})

	t.Run("should reject an unknown measurement system", func(t *testing.T) {
		engine := new(testhelpers.MockInferenceEngine)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{
			"notes":             notes,
			"measurementSystem": "IMPERIAL",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should answer 503 when the engine is unavailable", func(t *testing.T) {
		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return("", &service.EngineUnavailableError{Err: errors.New("timeout")})

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{"notes": notes})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("should answer 502 when the engine returns garbage", func(t *testing.T) {
		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return("I am not JSON", nil)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{"notes": notes})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("should answer 502 with the violations when output fails validation", func(t *testing.T) {
		broken := testhelpers.ValidRecipe(notes)
		broken.Ingredients = []schema.Ingredient{}

		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return(testhelpers.MarshalRecipe(t, broken), nil)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/normalize", gin.H{"notes": notes})

		require.Equal(t, http.StatusBadGateway, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error["Ingredients"])
	})
}

func TestScribeHandler_Update(t *testing.T) {
	notes := "cocoa, sugar, bake"

	t.Run("should reconcile answers into the recipe", func(t *testing.T) {
		current := testhelpers.ValidRecipe(notes)
		current.Questions = []string{"What size pan?"}

		resolved := testhelpers.ValidRecipe(notes)
		resolved.Questions = []string{}

		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return(testhelpers.MarshalRecipe(t, resolved), nil)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/update", gin.H{
			"recipe": current,
			"questionAnswers": []gin.H{
				{"index": 0, "answer": "9x13 inch"},
			},
		})

		require.Equal(t, http.StatusOK, w.Code)

		var got schema.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Empty(t, got.Questions)
	})

	t.Run("should reject a schema-invalid recipe in the request", func(t *testing.T) {
		current := testhelpers.ValidRecipe(notes)
		current.Steps = nil

		engine := new(testhelpers.MockInferenceEngine)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/update", gin.H{
			"recipe":          current,
			"questionAnswers": []gin.H{},
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		engine.AssertNotCalled(t, "Infer")
	})

	t.Run("should reject negative answer indexes", func(t *testing.T) {
		current := testhelpers.ValidRecipe(notes)

		engine := new(testhelpers.MockInferenceEngine)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/update", gin.H{
			"recipe": current,
			"questionAnswers": []gin.H{
				{"index": -1, "answer": "nope"},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should tolerate stale answer indexes", func(t *testing.T) {
		current := testhelpers.ValidRecipe(notes)
		current.Questions = []string{"What size pan?"}

		engine := new(testhelpers.MockInferenceEngine)
		engine.On("Infer", mock.Anything, mock.Anything, mock.Anything).
			Return(testhelpers.MarshalRecipe(t, current), nil)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/update", gin.H{
			"recipe": current,
			"questionAnswers": []gin.H{
				{"index": 12, "answer": "from an old snapshot"},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestScribeHandler_Scale(t *testing.T) {
	t.Run("should scale without touching the engine", func(t *testing.T) {
		recipe := testhelpers.ValidRecipe("flour and water")
		qty := 2.0
		recipe.Ingredients[0].Quantity = &qty

		engine := new(testhelpers.MockInferenceEngine)

		w := postJSON(t, setupScribeRouter(engine), "/api/v1/scribe/scale", gin.H{
			"recipe":   recipe,
			"servings": 8,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var got schema.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 8, *got.Servings)
		assert.Equal(t, 4.0, *got.Ingredients[0].Quantity)
		engine.AssertNotCalled(t, "Infer")
	})

	t.Run("should reject scaling when servings are unknown", func(t *testing.T) {
		recipe := testhelpers.ValidRecipe("flour and water")
		recipe.Servings = nil

		w := postJSON(t, setupScribeRouter(new(testhelpers.MockInferenceEngine)), "/api/v1/scribe/scale", gin.H{
			"recipe":   recipe,
			"servings": 8,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
