package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// llmExplainer asks an OpenAI-compatible chat endpoint for a rationale.
// Any failure degrades to the template sentence.
type llmExplainer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newLLMExplainer(cfg Config) *llmExplainer {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &llmExplainer{
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *llmExplainer) Explain(ctx context.Context, c Context) string {
	input, _ := json.Marshal(c)
	reqBody, _ := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a concise workflow allocator. Given the structured data, produce a professional 2-3 sentence explanation for the assignment."},
			{Role: "user", Content: string(input)},
		},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return degraded(ctx, c, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return degraded(ctx, c, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return degraded(ctx, c, fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return degraded(ctx, c, err)
	}
	if len(parsed.Choices) == 0 {
		return degraded(ctx, c, fmt.Errorf("no choices returned"))
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return degraded(ctx, c, fmt.Errorf("empty completion"))
	}
	return text
}
