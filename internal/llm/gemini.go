package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// geminiClient talks to the Google generateContent API. The credential
// travels as a query parameter instead of a header.
type geminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newGemini(cfg Config) Provider {
	base := cfg.BaseURL
	if base == "" {
		base = geminiBaseURL
	}
	return &geminiClient{baseURL: base, apiKey: cfg.APIKey, model: cfg.Model, client: cfg.HTTPClient}
}

func (c *geminiClient) Name() string { return "gemini" }

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     chatTemperature,
			MaxOutputTokens: chatMaxTokens,
		},
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))

	body, err := postJSON(ctx, c.client, "gemini", endpoint, nil, payload)
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("%w: gemini: response missing candidates.0.content.parts.0.text", ErrModel)
	}
	return text.String(), nil
}
