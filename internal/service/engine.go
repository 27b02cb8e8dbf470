package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/mealscribe/backend/internal/prompt"
	"github.com/mealscribe/backend/internal/schema"
)

// InferenceClient talks to an OpenAI-compatible chat-completions API and
// requests schema-constrained output. It is the only component that
// touches the inference engine; everything it returns is untrusted text
// until the Validator has accepted it.
type InferenceClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewInferenceClient creates an InferenceClient configured from the
// environment. The API key may come from OPENAI_API_KEY directly or from a
// file named by OPENAI_API_KEY_FILE.
func NewInferenceClient() (*InferenceClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("OPENAI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("OPENAI_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-5.2"
	}

	return &InferenceClient{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// chatRequest is the wire request for the chat-completions API.
type chatRequest struct {
	Model          string           `json:"model"`
	Messages       []prompt.Message `json:"messages"`
	ResponseFormat responseFormat   `json:"response_format"`
	Temperature    float64          `json:"temperature"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict"`
	Schema *jsonschema.Schema `json:"schema"`
}

// Infer sends the prompt to the engine requesting output constrained to
// the given shape descriptor, and returns the raw response text. The raw
// text is not validated here. The request is cancellable through ctx and
// has no side effects requiring cleanup.
func (c *InferenceClient) Infer(ctx context.Context, messages []prompt.Message, descriptor *jsonschema.Schema) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "recipe_schema",
				Strict: true,
				Schema: descriptor,
			},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &EngineUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &EngineUnavailableError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &EngineUnavailableError{
			Err: fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	// The engine responded at this point; an envelope that does not decode
	// or carries no output is malformed output, not unavailability.
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &schema.MalformedOutputError{Err: fmt.Errorf("failed to decode response envelope: %w", err)}
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", &schema.MalformedOutputError{Err: fmt.Errorf("no output returned from model")}
	}

	return result.Choices[0].Message.Content, nil
}
