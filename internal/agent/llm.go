package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"pokerarena/internal/game"
)

// DefaultOpenRouterURL is the OpenRouter chat completions endpoint
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

const (
	llmMaxTokens   = 256
	llmTemperature = 0.7
)

// LLM is an Agent backed by an OpenRouter-compatible chat completions API.
// Replies are parsed leniently; on transport errors or unusable replies the
// caller is expected to fall back via Fallback.
type LLM struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// LLMOption configures an LLM agent
type LLMOption func(*LLM)

// WithBaseURL points the agent at a different chat completions endpoint,
// used in tests and for self-hosted gateways.
func WithBaseURL(url string) LLMOption {
	return func(l *LLM) { l.baseURL = url }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) LLMOption {
	return func(l *LLM) { l.httpClient = c }
}

// NewLLM returns an agent that asks the given model for each decision
func NewLLM(model, apiKey string, logger *log.Logger, opts ...LLMOption) *LLM {
	l := &LLM{
		model:      model,
		apiKey:     apiKey,
		baseURL:    DefaultOpenRouterURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.WithPrefix("llm").With("model", model),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Decide prompts the model with the player's view of the table and parses
// the reply into a legal decision.
func (l *LLM) Decide(ctx context.Context, state game.GameState, playerID string) (Decision, error) {
	valid := game.GetValidActions(state)

	text, err := l.complete(ctx, FormatStatePrompt(state, playerID))
	if err != nil {
		return Decision{}, fmt.Errorf("llm decision: %w", err)
	}

	decision := ParseDecision(text, valid, state.BigBlind)
	l.logger.Debug("decision", "player", playerID, "action", decision.Action, "reasoning", decision.Reasoning)
	return decision, nil
}

func (l *LLM) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   llmMaxTokens,
		Temperature: llmTemperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.apiKey)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions returned %d: %s", resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completions reply: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completions error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions reply has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
