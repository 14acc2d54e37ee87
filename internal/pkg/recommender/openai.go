package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds remote ranking calls when no timeout is configured
const DefaultTimeout = 10 * time.Second

// OpenAIClient ranks actions through an OpenAI-compatible chat completions
// endpoint. Calls are bounded by the configured timeout and every failure
// falls back to the heuristic ranking.
type OpenAIClient struct {
	baseURL  string
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
	fallback Heuristic
	logger   zerolog.Logger
}

// NewOpenAIClient creates a remote-backed Recommender
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration, logger zerolog.Logger) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

const systemPrompt = "You are an action recommendation assistant. Given the" +
	" user's query, their interest history and the provided action list," +
	" return a JSON object {\"ids\": [...]} with the ids of the five most" +
	" relevant actions, most relevant first."

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Rank asks the model for a ranking; on any failure the heuristic answers
// instead and source names the fallback reason.
func (c *OpenAIClient) Rank(ctx context.Context, q Query) ([]string, string) {
	if c.apiKey == "" {
		ids, _ := c.fallback.Rank(ctx, q)
		return ids, "fallback:no-key"
	}

	ids, err := c.rankRemote(ctx, q)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Remote recommendation failed, using heuristic")
		ids, _ := c.fallback.Rank(ctx, q)
		return ids, "fallback:error"
	}
	return ids, c.model
}

func (c *OpenAIClient) rankRemote(ctx context.Context, q Query) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPayload, err := json.Marshal(map[string]interface{}{
		"query":         q.Text,
		"userId":        q.UserID,
		"interestedIds": q.InterestedIDs,
		"actions":       q.Actions,
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(userPayload)},
		},
		Temperature: 0.3,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	content := parsed.Choices[0].Message.Content

	// The model may answer either {"ids": [...]} or a bare array
	var wrapper struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.IDs != nil {
		return wrapper.IDs, nil
	}
	var bare []string
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("unexpected response shape")
}
