package ai

import (
	"context"
	"fmt"
	"strings"
)

// Message represents a single chat message for LLM requests.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// ChatRequest defines the input to an LLM chat completion.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// ChatResponse is a normalized response from an LLM.
type ChatResponse struct {
	Content string
	Model   string
}

// Provider defines the LLM interface used by the app.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// APIError is an upstream rejection normalized across vendor SDKs.
type APIError struct {
	Provider   ProviderType
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Provider))
	sb.WriteString(" api error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (%d)", e.StatusCode)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	} else if e.Status != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Status)
	}
	return sb.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}
