package reflexion

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Pipeline bundles the completion backend, chat template, prompt set
// and per-step sampling configurations behind the judgment and
// reflection operations. A Pipeline is stateless across calls; session
// state lives in the caller-owned SequenceState.
type Pipeline struct {
	provider CompletionProvider
	template ChatTemplate
	prompts  PromptSet

	judgeSampling      SamplingConfig
	reflectionSampling SamplingConfig
	rewriteSampling    SamplingConfig
	presenceSampling   SamplingConfig
	refineSampling     SamplingConfig

	logger *zap.Logger
}

// New constructs a Pipeline with optional configuration. A
// CompletionProvider must be supplied before any operation is invoked.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		template:           ChatMLTemplate{},
		prompts:            DefaultPrompts(),
		judgeSampling:      DefaultJudgeSampling(),
		reflectionSampling: DefaultReflectionSampling(),
		rewriteSampling:    DefaultRewriteSampling(),
		presenceSampling:   DefaultPresenceSampling(),
		refineSampling:     DefaultRefineSampling(),
		logger:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// generate renders a single user message through the chat template and
// issues a batch-of-one completion call. Every operation in this
// package goes through here, so the one-blocking-call-per-step
// contract holds by construction.
func (p *Pipeline) generate(ctx context.Context, prompt string, cfg SamplingConfig) (string, error) {
	if p.provider == nil {
		return "", errors.New("completion provider is not configured")
	}
	rendered, err := p.template.Render([]Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	p.logger.Debug("generation request",
		zap.Int("prompt_chars", len(rendered)),
		zap.Float64("temperature", cfg.Temperature),
		zap.Int("max_tokens", cfg.MaxTokens))
	completions, err := p.provider.Complete(ctx, []string{rendered}, cfg)
	if err != nil {
		return "", err
	}
	if len(completions) == 0 {
		return "", errors.New("completion provider returned an empty batch")
	}
	p.logger.Debug("generation response", zap.String("text", completions[0]))
	return completions[0], nil
}
