package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealscribe/backend/internal/prompt"
	"github.com/mealscribe/backend/internal/schema"
)

func TestNewInferenceClient(t *testing.T) {
	originalKey := os.Getenv("OPENAI_API_KEY")
	originalKeyFile := os.Getenv("OPENAI_API_KEY_FILE")
	defer func() {
		os.Setenv("OPENAI_API_KEY", originalKey)
		os.Setenv("OPENAI_API_KEY_FILE", originalKeyFile)
	}()

	t.Run("should create client with API key", func(t *testing.T) {
		os.Setenv("OPENAI_API_KEY", "test-api-key")

		client, err := NewInferenceClient()

		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("should fail without API key", func(t *testing.T) {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("OPENAI_API_KEY_FILE")

		client, err := NewInferenceClient()

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
	})
}

func testClient(apiURL string) *InferenceClient {
	return &InferenceClient{
		apiKey: "test-api-key",
		apiURL: apiURL,
		model:  "gpt-5.2",
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func chatEnvelope(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestInferenceClient_Infer(t *testing.T) {
	messages := prompt.Normalize("flour, water, salt", schema.MeasurementUS)
	descriptor := schema.Descriptor()

	t.Run("should return raw content and request schema-constrained output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			format, ok := req["response_format"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "json_schema", format["type"])

			w.Write([]byte(chatEnvelope(`{"title":"Bread"}`)))
		}))
		defer srv.Close()

		raw, err := testClient(srv.URL).Infer(context.Background(), messages, descriptor)

		require.NoError(t, err)
		assert.Equal(t, `{"title":"Bread"}`, raw)
	})

	t.Run("should fail as unavailable on non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).Infer(context.Background(), messages, descriptor)

		var unavailable *EngineUnavailableError
		assert.True(t, errors.As(err, &unavailable))
	})

	t.Run("should fail as unavailable when the engine is unreachable", func(t *testing.T) {
		_, err := testClient("http://127.0.0.1:1").Infer(context.Background(), messages, descriptor)

		var unavailable *EngineUnavailableError
		assert.True(t, errors.As(err, &unavailable))
	})

	t.Run("should respect caller cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testClient(srv.URL).Infer(ctx, messages, descriptor)

		assert.Error(t, err)
	})

	t.Run("should fail as malformed output when the model returns no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).Infer(context.Background(), messages, descriptor)

		var malformed *schema.MalformedOutputError
		var unavailable *EngineUnavailableError
		require.True(t, errors.As(err, &malformed))
		assert.False(t, errors.As(err, &unavailable))
		assert.Contains(t, err.Error(), "no output returned from model")
	})

	t.Run("should fail as malformed output on an undecodable envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).Infer(context.Background(), messages, descriptor)

		var malformed *schema.MalformedOutputError
		require.True(t, errors.As(err, &malformed))
	})
}
