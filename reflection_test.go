package reflexion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reflectionInput(lastQuery string) ReflectionInput {
	return ReflectionInput{
		Question:            "What was Apple's fiscal 2024 revenue?",
		CurrentReasoning:    "I looked at the filings.",
		JudgeFeedback:       "JUDGEMENT: NO | Reason: snippets are off topic",
		LastQuery:           lastQuery,
		Results:             ResultsFromRecords([]ResultRecord{{Title: "t", URL: "u", Snippet: "s"}}),
		RemainingSearches:   3,
		MaxSuggestedQueries: 1,
	}
}

func TestRunReflectionNewQuery(t *testing.T) {
	backend := &fixedProvider{text: "blah " + BeginSearchQuery + "apple revenue 2024" + EndSearchQuery}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	out, err := pipe.RunReflection(context.Background(), state, reflectionInput("apple"))
	require.NoError(t, err)
	assert.Equal(t, "apple revenue 2024", out.NewSearchQuery)
	assert.False(t, out.Stop)
	assert.Equal(t, "", out.FinalAnswer)
}

func TestRunReflectionBoxedAnswerStops(t *testing.T) {
	backend := &fixedProvider{text: `... final answer is \boxed{42}`}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	out, err := pipe.RunReflection(context.Background(), state, reflectionInput("apple"))
	require.NoError(t, err)
	assert.True(t, out.Stop)
	assert.Equal(t, `\boxed{42}`, out.FinalAnswer)
	assert.Equal(t, "", out.NewSearchQuery)
}

func TestRunReflectionQueryTagOutranksBoxed(t *testing.T) {
	// Both present: the query tag wins and the session continues.
	backend := &fixedProvider{text: `\boxed{draft}` + BeginSearchQuery + "narrower query" + EndSearchQuery}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	out, err := pipe.RunReflection(context.Background(), state, reflectionInput("apple"))
	require.NoError(t, err)
	assert.False(t, out.Stop)
	assert.Equal(t, "narrower query", out.NewSearchQuery)
}

func TestRunReflectionLoopPrevention(t *testing.T) {
	backend := &fixedProvider{text: BeginSearchQuery + "apple" + EndSearchQuery}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	out, err := pipe.RunReflection(context.Background(), state, reflectionInput("apple"))
	require.NoError(t, err)
	assert.Equal(t, "", out.NewSearchQuery, "a repeated query is discarded")
	assert.False(t, out.Stop)
}

func TestRunReflectionZeroQueryBudget(t *testing.T) {
	backend := &fixedProvider{text: BeginSearchQuery + "fresh query" + EndSearchQuery}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	in := reflectionInput("apple")
	in.MaxSuggestedQueries = 0
	out, err := pipe.RunReflection(context.Background(), state, in)
	require.NoError(t, err)
	assert.Equal(t, "", out.NewSearchQuery)
}

func TestRunReflectionAlwaysAppendsRecord(t *testing.T) {
	backend := &fixedProvider{text: "nothing parsable at all"}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	out, err := pipe.RunReflection(context.Background(), state, reflectionInput("apple"))
	require.NoError(t, err)
	assert.Equal(t, "", out.NewSearchQuery)
	assert.False(t, out.Stop)

	require.Len(t, state.ReflectionTrace, 1, "the trace append is unconditional")
	rec := state.ReflectionTrace[0]
	assert.Contains(t, rec.ReflectionNote, "[Reflection-LLM]")
	assert.Contains(t, rec.ReflectionNote, "snippets are off topic")
	assert.Contains(t, rec.ReflectionNote, "nothing parsable at all")
	assert.Empty(t, state.Messages, "message append is opt-in")
}

func TestRunReflectionAppendsMessageWhenRequested(t *testing.T) {
	backend := &fixedProvider{text: "output"}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	in := reflectionInput("apple")
	in.AppendToMessages = true
	_, err := pipe.RunReflection(context.Background(), state, in)
	require.NoError(t, err)

	require.Len(t, state.Messages, 1)
	assert.Equal(t, "system", state.Messages[0].Role)
	assert.Contains(t, state.Messages[0].Content, "[Reflection-LLM]")
}

func TestRunReflectionIdempotentTrace(t *testing.T) {
	backend := &fixedProvider{text: BeginSearchQuery + "same proposal" + EndSearchQuery}
	pipe := New(WithCompletionProvider(backend))
	state := NewSequenceState()

	in := reflectionInput("apple")
	_, err := pipe.RunReflection(context.Background(), state, in)
	require.NoError(t, err)
	_, err = pipe.RunReflection(context.Background(), state, in)
	require.NoError(t, err)

	require.Len(t, state.ReflectionTrace, 2)
	assert.Equal(t, state.ReflectionTrace[0], state.ReflectionTrace[1],
		"identical deterministic responses yield structurally identical records")
}

func TestRunReflectionPreviewInPrompt(t *testing.T) {
	backend := &fixedProvider{text: "x"}
	pipe := New(WithCompletionProvider(backend))

	in := reflectionInput("apple")
	in.Results = ResultsFromRecords([]ResultRecord{{Title: "Quarterly report", URL: "https://example.com", Snippet: "net sales"}})
	_, err := pipe.RunReflection(context.Background(), NewSequenceState(), in)
	require.NoError(t, err)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "[1] title=Quarterly report")
	assert.Contains(t, backend.prompts[0], "Remaining searches: 3")
}

func TestReflectOnContentPass(t *testing.T) {
	backend := &scriptedProvider{responses: []string{"JUDGEMENT: YES"}}
	pipe := New(WithCompletionProvider(backend))

	cr, err := pipe.ReflectOnContent(context.Background(), "q?", "plenty of info", "")
	require.NoError(t, err)
	assert.True(t, cr.Verdict.Passed)
	assert.Equal(t, "", cr.Direction)
	assert.Len(t, backend.prompts, 1, "no reflection call on a pass")
}

func TestReflectOnContentFailTriggersDirection(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		"JUDGEMENT: NO | Reason: missing the fiscal year",
		"Search_Direction: search the 10-K filing directly",
	}}
	pipe := New(WithCompletionProvider(backend))

	cr, err := pipe.ReflectOnContent(context.Background(), "q?", "thin info", "")
	require.NoError(t, err)
	assert.False(t, cr.Verdict.Passed)
	assert.Equal(t, "missing the fiscal year", cr.Verdict.Reason)
	assert.Contains(t, cr.Direction, "10-K filing")
	// the reflection prompt carries the judge's reason
	require.Len(t, backend.prompts, 2)
	assert.Contains(t, backend.prompts[1], "missing the fiscal year")
}
