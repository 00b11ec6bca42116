package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
)

const requestTimeout = 60 * time.Second

// Provider calls the OpenAI chat completion API. A shared rate limiter keeps
// concurrent requests under the account's request-per-second budget.
type Provider struct {
	client    *openai.Client
	modelName string
	limiter   *rate.Limiter
}

var _ llm.Provider = &Provider{}

func NewProvider(apiKey, modelName string) *Provider {
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &Provider{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		limiter:   rate.NewLimiter(rate.Limit(3), 5), // 3 requests per second, burst of 5
	}
}

// Chat sends the history to the model. Single attempt, no retry; upstream
// failures are returned as *llm.UpstreamError.
func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	options := &llm.Options{Temperature: 0.2}
	for _, opt := range opts {
		opt(options)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &llm.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return nil, &llm.UpstreamError{StatusCode: http.StatusBadGateway, Message: err.Error()}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &llm.UpstreamError{StatusCode: http.StatusBadGateway, Message: "empty completion"}
	}

	return &llm.Result{
		Content: resp.Choices[0].Message.Content,
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
