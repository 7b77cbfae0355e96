package reflexion

import "context"

// JudgeSnippetRelevance runs the snippet-relevance gate: one judgment
// call over the question, the query that produced the results, up to
// five truncated snippets and the tail of the reasoning history.
// Retries are the caller's responsibility; this issues exactly one
// generation call per invocation.
func (p *Pipeline) JudgeSnippetRelevance(ctx context.Context, question, query string, results []ResultRecord, history string) (Verdict, error) {
	prompt := buildSnippetJudgePrompt(p.prompts, question, query, results, history)
	raw, err := p.generate(ctx, prompt, p.judgeSampling)
	if err != nil {
		return Verdict{}, err
	}
	passed, reason := ExtractJudgement(StripThinkBlocks(raw))
	return Verdict{Passed: passed, Reason: reason}, nil
}

// JudgeContentSufficiency runs the content-sufficiency gate: one
// judgment call over the question, the extracted information (clipped)
// and the tail of the reasoning history.
func (p *Pipeline) JudgeContentSufficiency(ctx context.Context, question, info, history string) (Verdict, error) {
	prompt := buildContentJudgePrompt(p.prompts, question, info, history)
	raw, err := p.generate(ctx, prompt, p.judgeSampling)
	if err != nil {
		return Verdict{}, err
	}
	passed, reason := ExtractJudgement(StripThinkBlocks(raw))
	return Verdict{Passed: passed, Reason: reason}, nil
}
