package reflexion

import (
	"context"
	"strings"
)

// CheckHallucination judges whether a finalized answer makes claims not
// clearly grounded in the gathered context. True means ungrounded
// claims were detected. This is a terminal advisory check with no
// reflection attached; the caller decides whether to flag, re-extract
// or present the answer with a warning. Unparseable output counts as
// grounded, since an advisory check must not block the pipeline.
func (p *Pipeline) CheckHallucination(ctx context.Context, question, answer string) (bool, error) {
	prompt := buildHallucinationPrompt(p.prompts, question, answer)
	raw, err := p.generate(ctx, prompt, p.judgeSampling)
	if err != nil {
		return false, err
	}
	text := StripThinkBlocks(raw)
	// Inverted polarity relative to the gates: YES here means the
	// answer is hallucinated, and the default for ambiguous output is
	// NO rather than the gates' fail-open pass.
	if strings.Contains(text, judgementYes) {
		return true, nil
	}
	return false, nil
}
