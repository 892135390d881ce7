package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatTurn is the role/content wire shape shared by the Anthropic and
// Ollama chat APIs.
type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toChatTurns(msgs []Message) []chatTurn {
	turns := make([]chatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, chatTurn{Role: string(m.Role), Content: m.Content})
	}
	return turns
}

// postJSON marshals in, POSTs it to url, and unmarshals the response body
// into out. It returns the status code and raw body so callers can surface
// API-specific error payloads. A body that fails to decode is only an error
// on a 200 response; error responses are reported via the status code.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, in, out any) (int, []byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil && resp.StatusCode == http.StatusOK {
		return resp.StatusCode, body, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, body, nil
}
