package remote

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/EcoChat/internal/core"
	"github.com/Rorical/EcoChat/internal/models"
)

const openaiBackend = "openai"

// DefaultSystemPrompt is used when a profile sets none.
const DefaultSystemPrompt = `You are EcoCart Assistant. Answer questions about EcoCart Online policies.
Be concise, friendly, and helpful. Format your answers in:
- Short paragraphs
- Numbered lists or bullet points when appropriate
- Headers if needed
- Line breaks for readability`

// OpenAIOptions configures an OpenAIAnswerer.
type OpenAIOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxHistory   int // Most recent transcript messages sent as context
	Logger       zerolog.Logger
}

// OpenAIAnswerer answers through an OpenAI compatible chat completion API,
// sending earlier exchanges so follow-up questions keep their context.
type OpenAIAnswerer struct {
	client       *openai.Client
	model        string
	systemPrompt string
	maxHistory   int
	logger       zerolog.Logger
}

var _ core.Answerer = (*OpenAIAnswerer)(nil)

func NewOpenAIAnswerer(opts OpenAIOptions) (*OpenAIAnswerer, error) {
	if opts.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	prompt := opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}

	return &OpenAIAnswerer{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		systemPrompt: prompt,
		maxHistory:   maxHistory,
		logger:       opts.Logger.With().Str("component", "openai_answerer").Logger(),
	}, nil
}

func (a *OpenAIAnswerer) Ask(ctx context.Context, q core.Question) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: a.buildMessages(q),
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	a.logger.Debug().
		Str("model", resp.Model).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("completion received")

	if len(resp.Choices) == 0 {
		return "", schemaError(openaiBackend, errors.New("completion has no choices"))
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", schemaError(openaiBackend, errors.New("completion has empty content"))
	}
	return content, nil
}

// buildMessages turns the transcript into chat history. Questions that ended
// in a system-error entry are left out along with the error.
func (a *OpenAIAnswerer) buildMessages(q core.Question) []openai.ChatCompletionMessage {
	var history []openai.ChatCompletionMessage
	for i := 0; i < len(q.History); i++ {
		entry := q.History[i]
		if entry.Role != models.RoleUser {
			continue
		}
		if i+1 >= len(q.History) || q.History[i+1].Role != models.RoleAssistant {
			continue
		}
		history = append(history,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: entry.Content},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: q.History[i+1].Content},
		)
		i++
	}
	// Keep whole exchanges only
	if keep := a.maxHistory - a.maxHistory%2; len(history) > keep {
		history = history[len(history)-keep:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: a.systemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: q.Text,
	})
	return messages
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindStatus, Backend: openaiBackend, Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: KindStatus, Backend: openaiBackend, Status: reqErr.HTTPStatusCode, Err: err}
	}
	return transportError(openaiBackend, err)
}
