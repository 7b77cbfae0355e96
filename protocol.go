package reflexion

import (
	"regexp"
	"strings"
)

// Textual mini-protocol markers the pipeline emits in prompts and
// parses back out of raw completions. These must match the model's
// training format byte for byte.
const (
	// BeginSearchQuery and EndSearchQuery delimit a search query inside
	// the model's reasoning. EndSearchQuery doubles as a stop sequence.
	BeginSearchQuery = "<|begin_search_query|>"
	EndSearchQuery   = "<|end_search_query|>"

	// FinalInformation prefixes a forced-extraction result;
	// NoHelpfulInformation is the extractor's explicit empty answer.
	FinalInformation     = "**Final Information**"
	NoHelpfulInformation = "No helpful information found."

	judgementYes  = "JUDGEMENT: YES"
	judgementNo   = "JUDGEMENT: NO"
	reasonLabel   = "Reason:"
	statusPresent = "STATUS: PRESENT"

	// LabelNewQuery and LabelSearchDirection head the structured lines
	// of a reflection response; LabelAnalysis heads its free-text part.
	LabelNewQuery        = "New_Query:"
	LabelSearchDirection = "Search_Direction:"
	LabelAnalysis        = "Analysis:"
)

// fallbackReason is substituted when a failed judgment carries no
// parsable reason text. A failed verdict always has a reason.
const fallbackReason = "no reason given"

var boxedRegex = regexp.MustCompile(`\\boxed\{[\s\S]*?\}`) //nolint:gochecknoglobals
var thinkRegex = regexp.MustCompile(`(?s)<think>.*?</think>`) //nolint:gochecknoglobals

// StripThinkBlocks removes <think>...</think> blocks from a completion.
// Reasoning models (qwen3 and friends) wrap deliberation in these
// blocks; protocol markers inside them are drafts, not output.
func StripThinkBlocks(s string) string {
	return strings.TrimSpace(thinkRegex.ReplaceAllString(s, ""))
}

// ExtractBetween returns the trimmed content of the LAST non-overlapping
// startTag...endTag span in text, or "" if there is none. A model may
// restate the tag while reasoning; the final occurrence supersedes
// earlier drafts.
func ExtractBetween(text, startTag, endTag string) string {
	pattern := regexp.QuoteMeta(startTag) + `(?s)(.*?)` + regexp.QuoteMeta(endTag)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ""
	}
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}

// ExtractBoxed returns the FIRST \boxed{...} expression in text,
// wrapper included, or "". A boxed answer appears once near the end of
// generation and stop sequences usually truncate right after it, so
// first-match wins here (unlike ExtractBetween).
func ExtractBoxed(text string) string {
	return strings.TrimSpace(boxedRegex.FindString(text))
}

// ExtractJudgement parses a "JUDGEMENT: YES" / "JUDGEMENT: NO | Reason:
// ..." verdict. It returns (true, "") when the YES marker is present or
// when neither marker can be found: an unparseable judgment degrades to
// a pass so an ambiguous model response cannot block the loop. When the
// NO marker is present the reason after "Reason:" is returned, or a
// fixed fallback when that part is missing.
func ExtractJudgement(text string) (bool, string) {
	if strings.Contains(text, judgementYes) {
		return true, ""
	}
	if strings.Contains(text, judgementNo) {
		if _, after, found := strings.Cut(text, reasonLabel); found {
			reason := strings.TrimSpace(after)
			if line, _, ok := strings.Cut(reason, "\n"); ok {
				reason = strings.TrimSpace(line)
			}
			if reason != "" {
				return false, reason
			}
		}
		return false, fallbackReason
	}
	return true, ""
}

// ExtractStatusPresent reports whether the literal "STATUS: PRESENT"
// marker occurs in text. Everything else, including ambiguous output,
// counts as absent; claiming information was found is the expensive
// mistake here, so this check fails closed.
func ExtractStatusPresent(text string) bool {
	return strings.Contains(text, statusPresent)
}

// ExtractLabeledField returns the trimmed text between the first
// occurrence of label and the next newline, or "" when the label is
// absent or the line is empty.
func ExtractLabeledField(text, label string) string {
	_, after, found := strings.Cut(text, label)
	if !found {
		return ""
	}
	if line, _, ok := strings.Cut(after, "\n"); ok {
		after = line
	}
	return strings.TrimSpace(after)
}
