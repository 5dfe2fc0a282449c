// Package completion turns a transcript plus a new user message into a
// single model reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"healthchat/pkg/ai"
	"healthchat/pkg/config"
	"healthchat/pkg/logging"
	"healthchat/pkg/transcript"
)

// FallbackReply is returned when the upstream answers with no text.
const FallbackReply = "（沒有回覆內容）"

// ErrNotConfigured is returned by Complete when no credential was supplied.
var ErrNotConfigured = errors.New("completion client has no api key")

// Completer produces one reply for a conversation.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, model, systemInstruction string, history []transcript.Turn, userText string) (string, error)
}

// Error is a failed completion. StatusCode is zero for transport failures.
type Error struct {
	Provider   ai.ProviderType
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("completion failed")
	if e.Provider != "" {
		sb.WriteString(" (")
		sb.WriteString(string(e.Provider))
		if e.StatusCode != 0 {
			fmt.Fprintf(&sb, " %d", e.StatusCode)
		}
		sb.WriteString(")")
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config describes how to reach the completion backend.
type Config struct {
	Provider          ai.ProviderType
	APIKey            string
	Model             string
	SystemInstruction string
	// Settings carries provider tuning (timeouts, temperature, endpoints).
	Settings config.Config
	// Backend, when set, is used instead of building a provider from the
	// registry.
	Backend ai.Provider
}

// FromAppConfig builds a Config for the provider selected in cfg.
func FromAppConfig(cfg config.Config, apiKey string) Config {
	providerType, ok := ai.ValidateProviderType(cfg.LLMProvider)
	if !ok {
		providerType = ai.ProviderGoogle
	}
	return Config{
		Provider:          providerType,
		APIKey:            apiKey,
		Model:             cfg.ActiveModel(),
		SystemInstruction: cfg.Assistant.SystemPrompt,
		Settings:          cfg,
	}
}

// Client is the default Completer backed by an ai.Provider.
type Client struct {
	providerType    ai.ProviderType
	provider        ai.Provider
	model           string
	instruction     string
	instructionRole string
}

// New creates a client. An empty API key yields an unconfigured client
// rather than an error, so the UI can render before a key is entered.
func New(cfg Config) (*Client, error) {
	providerType := cfg.Provider
	if providerType == "" {
		providerType = ai.ProviderGoogle
	}

	c := &Client{
		providerType:    providerType,
		model:           strings.TrimSpace(cfg.Model),
		instruction:     cfg.SystemInstruction,
		instructionRole: "system",
	}
	if info, ok := ai.GetProviderInfo(providerType); ok && info.InstructionRole != "" {
		c.instructionRole = info.InstructionRole
	}

	switch {
	case cfg.Backend != nil:
		c.provider = cfg.Backend
	case strings.TrimSpace(cfg.APIKey) == "":
		slog.Debug("completion_client_unconfigured", "provider", providerType)
	default:
		provider, err := ai.GetProvider(ai.ProviderConfig{
			Type:   providerType,
			APIKey: cfg.APIKey,
			Config: cfg.Settings,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s provider: %w", providerType, err)
		}
		c.provider = provider
		slog.Debug("completion_client_ready",
			"provider", providerType,
			"model", c.model,
			"api_key", logging.MaskSecret(cfg.APIKey),
		)
	}

	return c, nil
}

// Configured reports whether the client can issue requests.
func (c *Client) Configured() bool {
	return c != nil && c.provider != nil
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends [instruction, ...history, userText] and returns the reply.
// Empty model and systemInstruction fall back to the client defaults.
func (c *Client) Complete(ctx context.Context, model, systemInstruction string, history []transcript.Turn, userText string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(model) == "" {
		model = c.model
	}
	if systemInstruction == "" {
		systemInstruction = c.instruction
	}

	messages := BuildMessages(c.instructionRole, systemInstruction, history, userText)

	slog.Info("completion_request",
		"provider", c.providerType,
		"model", model,
		"history_turns", len(history),
		"messages", len(messages),
	)
	logging.Trace("completion_prompt", "messages", messages)

	start := time.Now()
	resp, err := c.provider.CreateChatCompletion(ctx, ai.ChatRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		wrapped := c.wrapError(err)
		slog.Warn("completion_error",
			"provider", c.providerType,
			"status", wrapped.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", wrapped
	}

	text := resp.Content
	if strings.TrimSpace(text) == "" {
		slog.Info("completion_empty_reply", "provider", c.providerType, "model", resp.Model)
		return FallbackReply, nil
	}

	slog.Info("completion_response",
		"provider", c.providerType,
		"model", resp.Model,
		"chars", len([]rune(text)),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// BuildMessages assembles the outbound message list: the instruction turn
// (if any) sent with instructionRole, every history turn in order, then the
// new user turn.
func BuildMessages(instructionRole, instruction string, history []transcript.Turn, userText string) []ai.Message {
	messages := make([]ai.Message, 0, len(history)+2)
	if strings.TrimSpace(instruction) != "" {
		if instructionRole == "" {
			instructionRole = "system"
		}
		messages = append(messages, ai.Message{Role: instructionRole, Content: instruction})
	}
	for _, turn := range history {
		messages = append(messages, ai.Message{Role: messageRole(turn.Role), Content: turn.Text})
	}
	messages = append(messages, ai.Message{Role: "user", Content: userText})
	return messages
}

func messageRole(role transcript.Role) string {
	if role == transcript.RoleModel {
		return "assistant"
	}
	return "user"
}

func (c *Client) wrapError(err error) *Error {
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider:   c.providerType,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &Error{
		Provider: c.providerType,
		Message:  err.Error(),
		Err:      err,
	}
}

var _ Completer = (*Client)(nil)
