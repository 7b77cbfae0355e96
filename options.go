package reflexion

import "go.uber.org/zap"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCompletionProvider sets the text-generation backend.
func WithCompletionProvider(provider CompletionProvider) Option {
	return func(p *Pipeline) { p.provider = provider }
}

// WithChatTemplate overrides the default ChatML template.
func WithChatTemplate(t ChatTemplate) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.template = t
		}
	}
}

// WithPrompts substitutes the prompt wording for every step. Useful for
// testing alternate phrasings; the protocol markers must be kept.
func WithPrompts(prompts PromptSet) Option {
	return func(p *Pipeline) { p.prompts = prompts }
}

// WithJudgeSampling overrides the sampling used by the gates and the
// hallucination guard.
func WithJudgeSampling(cfg SamplingConfig) Option {
	return func(p *Pipeline) { p.judgeSampling = cfg }
}

// WithReflectionSampling overrides the sampling used by RunReflection.
func WithReflectionSampling(cfg SamplingConfig) Option {
	return func(p *Pipeline) { p.reflectionSampling = cfg }
}

// WithRewriteSampling overrides the sampling used by the query-rewrite
// and strategy-direction reflectors.
func WithRewriteSampling(cfg SamplingConfig) Option {
	return func(p *Pipeline) { p.rewriteSampling = cfg }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDebug installs a development logger that dumps every prompt and
// completion at debug level.
func WithDebug(enabled bool) Option {
	return func(p *Pipeline) {
		if enabled {
			if l, err := zap.NewDevelopment(); err == nil {
				p.logger = l
			}
		}
	}
}

// DefaultJudgeSampling is the deterministic-leaning configuration used
// for judgments.
func DefaultJudgeSampling() SamplingConfig {
	return SamplingConfig{MaxTokens: 256, Temperature: 0, TopP: 1}
}

// DefaultReflectionSampling is mildly exploratory, stopping at the
// end-of-query tag and keeping the tag in the output so the extractor
// can find the span.
func DefaultReflectionSampling() SamplingConfig {
	return SamplingConfig{
		MaxTokens:           512,
		Temperature:         0.2,
		TopP:                0.9,
		TopK:                20,
		RepetitionPenalty:   1.05,
		Stop:                []string{EndSearchQuery},
		IncludeStopInOutput: true,
	}
}

// DefaultRewriteSampling is used for query-rewrite and
// strategy-direction reflections, which benefit from more exploration
// than a judgment call.
func DefaultRewriteSampling() SamplingConfig {
	return SamplingConfig{MaxTokens: 256, Temperature: 0.7, TopP: 0.9, TopK: 20, RepetitionPenalty: 1.05}
}

// DefaultPresenceSampling expects a one-line status marker and nothing
// else.
func DefaultPresenceSampling() SamplingConfig {
	return SamplingConfig{MaxTokens: 16, Temperature: 0, TopP: 1}
}

// DefaultRefineSampling gives the forced re-extraction room to quote
// the relevant passage.
func DefaultRefineSampling() SamplingConfig {
	return SamplingConfig{MaxTokens: 1024, Temperature: 0, TopP: 1}
}
