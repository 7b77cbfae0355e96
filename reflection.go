package reflexion

import (
	"context"
	"fmt"
	"strings"
)

// ReflectionInput carries one reflective judgment step's inputs.
type ReflectionInput struct {
	Question         string
	CurrentReasoning string
	// JudgeFeedback is the verdict text or reason that triggered this
	// reflection.
	JudgeFeedback string
	// LastQuery is the most recent search query; a proposed query equal
	// to it is discarded as a loop.
	LastQuery string
	Results   SearchResults
	// RemainingSearches is the caller-enforced search budget, surfaced
	// to the model so it can decide whether to keep searching.
	RemainingSearches int
	// MaxSuggestedQueries caps how many replacement queries this step
	// may emit (0 suppresses query proposals entirely).
	MaxSuggestedQueries int
	// AppendToMessages also records the reflection note as a
	// system-role message on the session, off by default.
	AppendToMessages bool
}

// ReflectionOutcome is the parsed result of one reflection step.
type ReflectionOutcome struct {
	// NewSearchQuery is the proposed replacement query, or "" when the
	// model proposed none (or only a duplicate of LastQuery).
	NewSearchQuery string
	// FinalAnswer is the boxed answer when Stop is true.
	FinalAnswer string
	Stop        bool
	// Note is the audit text appended to the session trace.
	Note string
}

// RunReflection performs a combined judge-and-reflect step in a single
// generation call: the model reviews the judge feedback and the results
// preview, then either finishes with a boxed answer or proposes a
// replacement query. One ReflectionRecord is appended to state on every
// invocation regardless of outcome.
//
// Output parsing priority: a boxed answer with no search-query tag is
// terminal. Otherwise a tagged query is accepted when the budget allows
// it, it is non-empty, and it differs from the last query (exact string
// comparison; this is loop prevention, not semantic dedup). Anything
// else yields an empty outcome and leaves the next move to the caller.
func (p *Pipeline) RunReflection(ctx context.Context, state *SequenceState, in ReflectionInput) (ReflectionOutcome, error) {
	preview := BuildPreview(in.Results, 0, 0)
	prompt := buildReflectionPrompt(p.prompts, in.Question, in.CurrentReasoning,
		in.JudgeFeedback, in.LastQuery, preview, in.RemainingSearches)

	raw, err := p.generate(ctx, prompt, p.reflectionSampling)
	if err != nil {
		return ReflectionOutcome{}, err
	}

	newQuery := ExtractBetween(raw, BeginSearchQuery, EndSearchQuery)
	boxed := ExtractBoxed(raw)

	note := fmt.Sprintf("[Reflection-LLM]\nJudge said:\n%s\n\nLast query: %s\nRaw reflection output:\n%s\n",
		in.JudgeFeedback, in.LastQuery, raw)

	out := ReflectionOutcome{Note: note}

	switch {
	case boxed != "" && newQuery == "":
		out.FinalAnswer = boxed
		out.Stop = true
	case newQuery != "" && in.MaxSuggestedQueries > 0:
		newQuery = strings.TrimSpace(newQuery)
		if newQuery != "" && newQuery != in.LastQuery {
			out.NewSearchQuery = newQuery
		}
	}

	if state != nil {
		state.AppendReflection(ReflectionRecord{
			ReflectionNote: note,
			NewSearchQuery: out.NewSearchQuery,
			FinalAnswer:    out.FinalAnswer,
			Stop:           out.Stop,
		})
		if in.AppendToMessages {
			state.AppendMessage(Message{Role: "system", Content: note})
		}
	}

	return out, nil
}

// ContentReflection is the result of ReflectOnContent.
type ContentReflection struct {
	Verdict Verdict
	// Direction is the strategy guidance produced when the verdict
	// failed; empty on a pass.
	Direction string
}

// ReflectOnContent runs the content-sufficiency gate and, when it
// fails, one strategy-direction reflection. Every failed verdict gets
// exactly one reflection attempt; the caller decides what to do with
// the direction and whether budget remains for another round.
func (p *Pipeline) ReflectOnContent(ctx context.Context, question, info, history string) (ContentReflection, error) {
	verdict, err := p.JudgeContentSufficiency(ctx, question, info, history)
	if err != nil {
		return ContentReflection{}, err
	}
	if verdict.Passed {
		return ContentReflection{Verdict: verdict}, nil
	}
	direction, err := p.SearchDirection(ctx, question, info, verdict.Reason)
	if err != nil {
		return ContentReflection{Verdict: verdict}, err
	}
	return ContentReflection{Verdict: verdict, Direction: direction}, nil
}
