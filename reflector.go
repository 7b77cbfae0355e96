package reflexion

import (
	"context"
	"strings"
)

// RewriteQuery asks the model for a replacement query after a failed
// relevance verdict. It returns the parsed New_Query field, or "" when
// the response carried no parsable query.
func (p *Pipeline) RewriteQuery(ctx context.Context, question, failedQuery, reason string) (string, error) {
	prompt := buildQueryRewritePrompt(p.prompts, question, failedQuery, reason)
	raw, err := p.generate(ctx, prompt, p.rewriteSampling)
	if err != nil {
		return "", err
	}
	return ExtractLabeledField(StripThinkBlocks(raw), LabelNewQuery), nil
}

// SearchDirection asks the model for strategic guidance after a failed
// sufficiency verdict. The full trimmed output is returned as free
// text; there is no structured parse for this flavor.
func (p *Pipeline) SearchDirection(ctx context.Context, question, info, reason string) (string, error) {
	prompt := buildSearchDirectionPrompt(p.prompts, question, info, reason)
	raw, err := p.generate(ctx, prompt, p.rewriteSampling)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(StripThinkBlocks(raw)), nil
}
