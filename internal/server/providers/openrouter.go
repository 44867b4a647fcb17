package providers

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const ProviderOpenRouter = "openrouter"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API using the
// official openai-go SDK with a swapped base URL.
type OpenRouterProvider struct {
	opts []option.RequestOption
}

func NewOpenRouterProvider(apiKey, baseURL string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter api key missing")
	}
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return &OpenRouterProvider{
		opts: []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		},
	}, nil
}

func (p *OpenRouterProvider) Name() string { return ProviderOpenRouter }

func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	client := openaisdk.NewClient(p.opts...)

	msgs := []openaisdk.ChatCompletionMessageParamUnion{}
	if req.SystemPrompt != "" {
		msgs = append(msgs, openaisdk.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, openaisdk.UserMessage(req.Prompt))

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		params.Temperature = openaisdk.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, Classify(ProviderOpenRouter, err)
	}
	if len(resp.Choices) == 0 {
		return nil, Classify(ProviderOpenRouter, fmt.Errorf("empty choices"))
	}

	choice := resp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		FinishReason: string(choice.FinishReason),
	}, nil
}
