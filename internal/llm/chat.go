package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	openaiEndpoint = "https://api.openai.com/v1/chat/completions"

	chatTemperature = 0.5
	chatMaxTokens   = 1000
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatClient talks to OpenAI-style chat completion endpoints; groq and
// openai differ only in endpoint URL and credential.
type chatClient struct {
	name   string
	url    string
	apiKey string
	model  string
	client *http.Client
}

func newGroq(cfg Config) Provider {
	return newChatClient("groq", groqEndpoint, cfg)
}

func newOpenAI(cfg Config) Provider {
	return newChatClient("openai", openaiEndpoint, cfg)
}

func newChatClient(name, endpoint string, cfg Config) Provider {
	url := cfg.BaseURL
	if url == "" {
		url = endpoint
	}
	return &chatClient{name: name, url: url, apiKey: cfg.APIKey, model: cfg.Model, client: cfg.HTTPClient}
}

func (c *chatClient) Name() string { return c.name }

func (c *chatClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	body, err := postJSON(ctx, c.client, c.name, c.url, headers, payload)
	if err != nil {
		return "", err
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%w: %s: response missing choices.0.message.content", ErrModel, c.name)
	}
	return content.String(), nil
}
