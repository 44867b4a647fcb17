package providers

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// einoGenerate runs a Request against an eino chat model and normalizes the
// result. Shared by the openai, anthropic, and gemini providers.
func einoGenerate(ctx context.Context, provider string, cm einomodel.BaseChatModel, req Request) (*Response, error) {
	var msgs []*schema.Message
	if req.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, schema.UserMessage(req.Prompt))

	opts := []einomodel.Option{einomodel.WithModel(req.Model)}
	if req.Temperature > 0 {
		opts = append(opts, einomodel.WithTemperature(float32(req.Temperature)))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, einomodel.WithMaxTokens(req.MaxTokens))
	}

	out, err := cm.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, Classify(provider, err)
	}
	if out == nil {
		return nil, Classify(provider, fmt.Errorf("empty completion"))
	}

	resp := &Response{Content: out.Content}
	if meta := out.ResponseMeta; meta != nil {
		resp.FinishReason = meta.FinishReason
		if u := meta.Usage; u != nil {
			resp.InputTokens = u.PromptTokens
			resp.OutputTokens = u.CompletionTokens
		}
	}
	return resp, nil
}
