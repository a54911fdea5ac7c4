package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const errBodySnippet = 200

// postJSON performs one blocking request round trip against a model
// endpoint. Every failure mode is wrapped in ErrModel; no timeout is imposed
// beyond the transport default, cancellation comes from ctx.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: encode request: %v", ErrModel, name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %v", ErrModel, name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModel, name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %v", ErrModel, name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: HTTP %d: %s", ErrModel, name, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	if len(body) > errBodySnippet {
		body = body[:errBodySnippet]
	}
	return string(bytes.TrimSpace(body))
}
