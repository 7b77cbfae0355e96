// Package openai adapts any OpenAI-compatible completions endpoint
// (OpenAI, vLLM, llama.cpp, Ollama) to reflexion.CompletionProvider.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smhanov/reflexion"
)

// Provider implements reflexion.CompletionProvider over the legacy
// completions API, which accepts pre-rendered prompt text. Chat-style
// backends should render through the pipeline's ChatTemplate and point
// BaseURL at a completions-capable server.
type Provider struct {
	client *openai.Client
	model  string
}

// New creates a provider for api.openai.com.
func New(apiKey, model string) *Provider {
	return &Provider{client: openai.NewClient(apiKey), model: model}
}

// NewWithBaseURL creates a provider for a self-hosted OpenAI-compatible
// endpoint such as a vLLM or llama.cpp server.
func NewWithBaseURL(baseURL, apiKey, model string) *Provider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &Provider{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete issues one completion request per prompt in the batch and
// returns the completions in prompt order.
//
// TopK and RepetitionPenalty have no field on the OpenAI request
// surface and are not forwarded; servers that support them apply their
// own defaults.
func (p *Provider) Complete(ctx context.Context, prompts []string, cfg reflexion.SamplingConfig) ([]string, error) {
	out := make([]string, 0, len(prompts))
	for i, prompt := range prompts {
		req := openai.CompletionRequest{
			Model:       p.model,
			Prompt:      prompt,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
			TopP:        float32(cfg.TopP),
			Stop:        cfg.Stop,
		}
		resp, err := p.client.CreateCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("completion %d/%d: %w", i+1, len(prompts), err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("completion %d/%d: no choices returned", i+1, len(prompts))
		}
		text := resp.Choices[0].Text
		// The API strips the stop sequence from the output; re-append
		// it when the caller asked for it, since the extractors look
		// for the closing tag.
		if cfg.IncludeStopInOutput && len(cfg.Stop) > 0 &&
			resp.Choices[0].FinishReason == "stop" && !strings.HasSuffix(text, cfg.Stop[0]) {
			text += cfg.Stop[0]
		}
		out = append(out, text)
	}
	return out, nil
}
