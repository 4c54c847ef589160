package payloads

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
)

const (
	DefaultChatModel    = "gpt-5-mini"
	DefaultSystemPrompt = "You are a helpful assistant."

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is an ordered conversation addressed to a model.
type ChatRequest struct {
	Model    string
	Messages []ChatMessage
}

// NewChatRequest builds a two-turn request: an optional system prompt followed by the user question.
func NewChatRequest(model, system, question string) ChatRequest {
	req := ChatRequest{Model: model}
	if strings.TrimSpace(system) != "" {
		req.Messages = append(req.Messages, ChatMessage{Role: RoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, ChatMessage{Role: RoleUser, Content: question})
	return req
}

func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model is required")
	}
	if len(r.Messages) == 0 {
		return errors.New("at least one message is required")
	}
	for i, m := range r.Messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("messages[%d]: unknown role %q", i, m.Role)
		}
	}
	return nil
}

// Payload builds the request body; message order is preserved.
func (r ChatRequest) Payload() apiclient.Payload {
	msgs := make([]map[string]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		msgs = append(msgs, map[string]string{"role": m.Role, "content": m.Content})
	}
	return apiclient.Payload{
		"model":    r.Model,
		"messages": msgs,
	}
}
