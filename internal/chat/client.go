// Package chat implements the chat-assisted query translator's concrete
// body: a small hand-rolled OpenAI Chat Completions client. No OpenAI SDK
// appears anywhere in the retrieval pack, so this follows the architectural
// teacher's own pattern for talking to an OpenAI-compatible endpoint
// (internal/perception/client_openai.go): bearer auth, JSON request/response
// structs, and retry-with-backoff on HTTP 429.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to an OpenAI-compatible Chat Completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds a Client. apiKey must be non-empty; callers gate
// construction on the OPENAI_API_KEY environment variable per §6.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type response struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = `You are a query-translation assistant for a small forward-chaining
production-rule reasoner. The user may ask free-form questions about the
current knowledge base; answer concisely and, where useful, suggest the
"run", "explain", or "retract" command that would answer the question
directly.`

// Ask sends history (prior turns, oldest first) plus prompt and returns the
// assistant's reply. It retries once on HTTP 429 with a short backoff,
// matching the teacher's client_openai.go retry shape at a scale
// appropriate to an interactive REPL (no multi-attempt exponential ladder).
func (c *Client) Ask(ctx context.Context, history []string, prompt string) (string, error) {
	msgs := []message{{Role: "system", Content: systemPrompt}}
	for i, h := range history {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs = append(msgs, message{Role: role, Content: h})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})

	body, err := json.Marshal(request{Model: c.model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("build chat request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("chat request failed: %w", err)
		}
		out, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", fmt.Errorf("reading chat response: %w", readErr)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(out))
		}
		var r response
		if err := json.Unmarshal(out, &r); err != nil {
			return "", fmt.Errorf("parsing chat response: %w", err)
		}
		if r.Error != nil {
			return "", fmt.Errorf("chat endpoint error: %s", r.Error.Message)
		}
		if len(r.Choices) == 0 {
			return "", fmt.Errorf("chat endpoint returned no choices")
		}
		return r.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat endpoint rate-limited after retry")
}
