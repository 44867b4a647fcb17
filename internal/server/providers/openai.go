package providers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
)

const ProviderOpenAI = "openai"

// OpenAIProvider serves OpenAI models through the eino openai adapter. The
// concrete model is chosen per request.
type OpenAIProvider struct {
	cm *openai.ChatModel
}

func NewOpenAIProvider(ctx context.Context, apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  "gpt-4o-mini",
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &OpenAIProvider{cm: cm}, nil
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return einoGenerate(ctx, ProviderOpenAI, p.cm, req)
}
