package reflexion

import (
	"context"
	"strings"
)

// CheckPresence asks whether the concatenated document text contains
// the information the query needs. The document is clipped to its first
// 30000 characters and the output budget is a handful of tokens, since
// the whole response is a one-line status marker. Ambiguous output
// counts as absent.
func (p *Pipeline) CheckPresence(ctx context.Context, query, document string) (bool, error) {
	prompt := buildPresencePrompt(p.prompts, query, document)
	raw, err := p.generate(ctx, prompt, p.presenceSampling)
	if err != nil {
		return false, err
	}
	return ExtractStatusPresent(raw), nil
}

// RefineExtraction forces a second, narrower extraction pass over a
// larger document window (first 35000 characters). A single pass over a
// long snippet concatenation can miss facts that are actually there;
// the re-read trades one extra generation call for better recall.
// It returns the extracted text and whether anything was found. A
// response that follows neither protocol shape is returned as-is with
// found=true, leaving the sufficiency judgment to the caller.
func (p *Pipeline) RefineExtraction(ctx context.Context, query, document string) (string, bool, error) {
	prompt := buildRefinePrompt(p.prompts, query, document)
	raw, err := p.generate(ctx, prompt, p.refineSampling)
	if err != nil {
		return "", false, err
	}
	text := strings.TrimSpace(StripThinkBlocks(raw))
	if text == NoHelpfulInformation {
		return "", false, nil
	}
	if rest, ok := strings.CutPrefix(text, FinalInformation); ok {
		return strings.TrimSpace(rest), true, nil
	}
	return text, text != "", nil
}
