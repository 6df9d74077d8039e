// brianwave/services/llm/openai_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	httputils "github.com/joshua-sigston/brianwave/brianwave/utils/http"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"
)

// OpenAIClient calls the OpenAI chat completions endpoint. The HTTP client
// carries a hard 20s timeout so a wedged upstream cannot hang a request
// indefinitely.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

// NewOpenAIClientWithBaseURL exists for tests and OpenAI-compatible gateways.
func NewOpenAIClientWithBaseURL(baseURL, apiKey, model string) *OpenAIClient {
	c := NewOpenAIClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	defer logging.LogDuration(ctx, "openai_complete")()

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	body := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := httputils.PostJSONWithAuth(ctx, c.client, url, c.apiKey, body, &resp); err != nil {
		var statusErr *httputils.StatusError
		if errors.As(err, &statusErr) {
			return "", fmt.Errorf("failed to generate completion: %s", apiErrorMessage(statusErr))
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// apiErrorMessage digs the human-readable message out of an OpenAI error
// body, falling back to the status code.
func apiErrorMessage(statusErr *httputils.StatusError) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(statusErr.Body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return statusErr.Error()
}
