package signals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"brandscope/internal/config"
)

// ErrLLMNotConfigured is returned by Complete when no API key is set
var ErrLLMNotConfigured = errors.New("llm provider not configured")

const maxCompletionBytes = 1 << 20

const systemPrompt = "You are Aura, an expert SEO and digital marketing strategist. " +
	"Provide brutally honest, data-driven competitive analysis in the exact format requested."

// OpenAIClient generates text with an OpenAI-compatible chat completions API
type OpenAIClient struct {
	client *http.Client
	config config.LLMConfig
	logger *slog.Logger
}

// NewOpenAIClient creates a new OpenAIClient
func NewOpenAIClient(cfg config.LLMConfig, client *http.Client, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		client: client,
		config: cfg,
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends prompt as the user message and returns the trimmed reply
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrLLMNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCompletionBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", decodeErr)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
