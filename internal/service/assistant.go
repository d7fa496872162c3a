package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

// AssistantRequest is one chat turn handed to an Assistant.
type AssistantRequest struct {
	Message   string
	Documents []domain.Document
}

// Assistant produces the reply text for a chat turn.
type Assistant interface {
	Name() string
	Reply(ctx context.Context, req AssistantRequest) (string, error)
}

// NoMatchReply is the local assistant's answer when nothing in the knowledge base applies.
const NoMatchReply = "I couldn't find information about that in our knowledge base. " +
	"Would you like me to create a support ticket so our support team can help you directly?"

// KnowledgeAssistant answers from the retrieved documents alone. It is used when
// no model or assistant backend is configured.
type KnowledgeAssistant struct{}

func NewKnowledgeAssistant() *KnowledgeAssistant {
	return &KnowledgeAssistant{}
}

func (a *KnowledgeAssistant) Name() string {
	return "knowledge"
}

func (a *KnowledgeAssistant) Reply(ctx context.Context, req AssistantRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Documents) == 0 {
		return NoMatchReply, nil
	}

	var b strings.Builder
	b.WriteString("Here's what I found in our knowledge base:\n")
	for _, d := range req.Documents {
		fmt.Fprintf(&b, "\n%s\n%s\n", d.Title, d.Content)
	}
	b.WriteString("\nIf this doesn't solve your problem, I can create a support ticket for you.")
	return b.String(), nil
}
