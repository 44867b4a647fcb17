package providers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
)

const ProviderAnthropic = "anthropic"

// anthropicDefaultMaxTokens applies when the request leaves MaxTokens unset;
// the Anthropic API requires a value.
const anthropicDefaultMaxTokens = 4096

// AnthropicProvider serves Claude models through the eino claude adapter.
type AnthropicProvider struct {
	cm *claude.ChatModel
}

func NewAnthropicProvider(ctx context.Context, apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key missing")
	}
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    apiKey,
		Model:     "claude-3-5-haiku-20241022",
		MaxTokens: anthropicDefaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &AnthropicProvider{cm: cm}, nil
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = anthropicDefaultMaxTokens
	}
	return einoGenerate(ctx, ProviderAnthropic, p.cm, req)
}
