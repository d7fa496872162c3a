package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/service"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is used when no model is configured
	DefaultChatModel = openai.GPT4oMini
	// DefaultMaxTokens bounds the length of a reply
	DefaultMaxTokens = 600
)

// SystemPrompt tells the model how to behave as the support assistant.
const SystemPrompt = `Your primary role is to help users with their questions using the company's knowledge base. When a user asks a question:

1. Use the knowledge base excerpts provided with the question
2. Provide helpful, accurate answers based on the knowledge base content
3. If the excerpts don't cover the question, politely explain that you don't have that specific information and suggest creating a support ticket
4. Be friendly, professional, and concise
5. Always try to be helpful and guide users to the right solution

If you cannot answer a question satisfactorily, encourage the user to create a support ticket for human assistance.`

var (
	// ErrEmptyMessage is returned when the user message is empty
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrEmptyReply is returned when the model produced no content
	ErrEmptyReply = errors.New("model returned an empty reply")
)

// ChatCompletionAPI is the part of *openai.Client the assistant needs.
type ChatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	APIKey string
	// BaseURL points at an OpenAI-compatible provider. Empty means api.openai.com.
	BaseURL   string
	Model     string
	MaxTokens int
}

// ChatAssistant answers chat turns with an OpenAI chat completion grounded on
// the matched knowledge base documents.
type ChatAssistant struct {
	api       ChatCompletionAPI
	model     string
	maxTokens int
}

// NewChatAssistant creates a new ChatAssistant using the given configuration.
func NewChatAssistant(cfg Config) *ChatAssistant {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newChatAssistantWithAPI(openai.NewClientWithConfig(clientCfg), cfg)
}

func newChatAssistantWithAPI(api ChatCompletionAPI, cfg Config) *ChatAssistant {
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ChatAssistant{api: api, model: model, maxTokens: maxTokens}
}

func (a *ChatAssistant) Name() string {
	return "openai"
}

// Reply sends the system prompt, the knowledge base excerpts and the user message.
func (a *ChatAssistant) Reply(ctx context.Context, req service.AssistantRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	resp, err := a.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleSystem, Content: KnowledgeContext(req.Documents)},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// KnowledgeContext renders the matched documents for the model.
func KnowledgeContext(docs []domain.Document) string {
	if len(docs) == 0 {
		return "Knowledge base search returned no documents for this question."
	}

	var b strings.Builder
	b.WriteString("Knowledge base search results:\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "\n## %s (%s)\n%s\n", d.Title, d.Type, d.Content)
	}
	return b.String()
}
