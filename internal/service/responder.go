package service

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/util"
	"agent_academy_backend/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ResponderMessage is one turn of bounded conversation context.
// Role is "user" or "assistant".
type ResponderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponderRequest is what the tutor sends to a language-model backend.
type ResponderRequest struct {
	System      string
	Messages    []ResponderMessage
	MaxTokens   int
	Temperature float64
}

// Responder produces one tutor reply. The conversation service depends only
// on this interface; which backend actually answers is a config concern.
type Responder interface {
	Name() string
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

// NewResponder selects the backend by configuration. Missing credentials mean
// the simulated responder, never an error: the student must always get a reply.
func NewResponder(cfg config.AIConfig) Responder {
	switch {
	case cfg.Provider == util.AIProviderOpenAI && cfg.APIKey != "":
		return NewOpenAIResponder(cfg)
	case (cfg.Provider == util.AIProviderAnthropic || cfg.Provider == "") && cfg.APIKey != "":
		return NewAnthropicResponder(cfg)
	default:
		if cfg.Provider != util.AIProviderSimulated && cfg.APIKey == "" {
			logger.Log.Warn("no AI API key configured, tutor will use the simulated responder")
		}
		return NewSimulatedResponder()
	}
}

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicResponder talks to the Anthropic messages endpoint.
type AnthropicResponder struct {
	config config.AIConfig
	client *http.Client
}

func NewAnthropicResponder(cfg config.AIConfig) *AnthropicResponder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAnthropicBaseURL
	}
	return &AnthropicResponder{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (r *AnthropicResponder) Name() string { return util.AIProviderAnthropic }

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []ResponderMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r *AnthropicResponder) Respond(ctx context.Context, req ResponderRequest) (string, error) {
	body := anthropicRequest{
		Model:       r.config.Model,
		System:      req.System,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", r.config.BaseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", r.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result anthropicResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}

	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("AI returned no text content")
}

// OpenAIResponder is the alternate provider, also covering OpenAI-compatible
// gateways via base_url.
type OpenAIResponder struct {
	config config.AIConfig
	client *openai.Client
}

func NewOpenAIResponder(cfg config.AIConfig) *OpenAIResponder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}

	return &OpenAIResponder{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (r *OpenAIResponder) Name() string { return util.AIProviderOpenAI }

func (r *OpenAIResponder) Respond(ctx context.Context, req ResponderRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.config.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
