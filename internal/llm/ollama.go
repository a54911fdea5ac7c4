package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const ollamaBaseURL = "http://localhost:11434"

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaClient talks to a locally hosted Ollama server. No credential is
// required.
type ollamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

func newOllama(cfg Config) Provider {
	base := cfg.BaseURL
	if base == "" {
		base = ollamaBaseURL
	}
	return &ollamaClient{baseURL: base, model: cfg.Model, client: cfg.HTTPClient}
}

func (c *ollamaClient) Name() string { return "ollama" }

func (c *ollamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := ollamaRequest{Model: c.model, Prompt: prompt, Stream: false}

	body, err := postJSON(ctx, c.client, "ollama", c.baseURL+"/api/generate", nil, payload)
	if err != nil {
		return "", fmt.Errorf("%w; make sure Ollama is running locally", err)
	}

	response := gjson.GetBytes(body, "response")
	if !response.Exists() {
		return "", fmt.Errorf("%w: ollama: response missing response field", ErrModel)
	}
	return response.String(), nil
}
