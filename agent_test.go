package reflexion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned completions in call order and records
// every prompt it saw.
type scriptedProvider struct {
	responses []string
	prompts   []string
	idx       int
}

func (s *scriptedProvider) Complete(_ context.Context, prompts []string, _ SamplingConfig) ([]string, error) {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		s.prompts = append(s.prompts, p)
		if s.idx >= len(s.responses) {
			return nil, errors.New("no scripted response available")
		}
		out = append(out, s.responses[s.idx])
		s.idx++
	}
	return out, nil
}

// fixedProvider returns the same completion for every prompt.
type fixedProvider struct {
	text    string
	prompts []string
}

func (f *fixedProvider) Complete(_ context.Context, prompts []string, _ SamplingConfig) ([]string, error) {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		f.prompts = append(f.prompts, p)
		out = append(out, f.text)
	}
	return out, nil
}

type fakeSearch struct {
	results []ResultRecord
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]ResultRecord, error) {
	f.queries = append(f.queries, query)
	return f.results, nil
}

func TestAgentSearchThenAnswer(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		"Need a source.\n" + BeginSearchQuery + "electron discovery" + EndSearchQuery,
		"JUDGEMENT: YES", // snippet gate
		"JUDGEMENT: YES", // content gate
		"Thomson found it. \\boxed{J. J. Thomson}",
		"JUDGEMENT: NO", // hallucination guard
	}}
	searcher := &fakeSearch{results: []ResultRecord{
		{Title: "Electron", URL: "https://example.com", Snippet: "Discovered by J. J. Thomson in 1897."},
	}}

	agent := NewAgent(New(WithCompletionProvider(backend)),
		WithSearcher(searcher),
		WithMaxSearches(3),
	)

	res, err := agent.Answer(context.Background(), "Who discovered the electron?")
	require.NoError(t, err)
	assert.Equal(t, `\boxed{J. J. Thomson}`, res.Answer)
	assert.False(t, res.Ungrounded)
	assert.Equal(t, []string{"electron discovery"}, searcher.queries)
	require.NotNil(t, res.State)
	assert.Empty(t, res.State.ReflectionTrace, "no gate failed, so no reflection should be recorded")
}

func TestAgentFailedGateTriggersReflection(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		"Let me search.\n" + BeginSearchQuery + "apple" + EndSearchQuery,
		"JUDGEMENT: NO | Reason: snippets are about fruit", // snippet gate
		// combined judge+reflect proposes a better query
		BeginSearchQuery + "Apple Inc revenue fiscal 2024" + EndSearchQuery,
		"JUDGEMENT: YES", // content gate on retried results
		"Answer: \\boxed{$391 billion}",
		"JUDGEMENT: NO", // hallucination guard
	}}
	searcher := &fakeSearch{results: []ResultRecord{
		{Title: "Apple reports Q4 results", URL: "https://example.com", Snippet: "Revenue of $391B for fiscal 2024."},
	}}

	agent := NewAgent(New(WithCompletionProvider(backend)),
		WithSearcher(searcher),
		WithMaxSearches(3),
	)

	res, err := agent.Answer(context.Background(), "What was Apple's fiscal 2024 revenue?")
	require.NoError(t, err)
	assert.Equal(t, `\boxed{$391 billion}`, res.Answer)
	assert.Equal(t, []string{"apple", "Apple Inc revenue fiscal 2024"}, searcher.queries)

	require.Len(t, res.State.ReflectionTrace, 1)
	rec := res.State.ReflectionTrace[0]
	assert.Equal(t, "Apple Inc revenue fiscal 2024", rec.NewSearchQuery)
	assert.False(t, rec.Stop)
	assert.Contains(t, rec.ReflectionNote, "snippets are about fruit")
}

func TestAgentInsufficientContentRefinesExtraction(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		BeginSearchQuery + "treaty signing date" + EndSearchQuery,
		"JUDGEMENT: YES",                               // snippet gate
		"JUDGEMENT: NO | Reason: no date in extract",   // content gate
		"Search_Direction: look for the ratification", // strategy reflection
		"STATUS: PRESENT",                              // presence check
		"**Final Information**\nSigned on 10 February 1947.", // refinement
		"The treaty was signed then. \\boxed{10 February 1947}",
		"JUDGEMENT: NO", // hallucination guard
	}}
	searcher := &fakeSearch{results: []ResultRecord{
		{Title: "Paris Peace Treaties", URL: "https://example.com", Snippet: "Signed on 10 February 1947 ... long discussion"},
	}}

	agent := NewAgent(New(WithCompletionProvider(backend)),
		WithSearcher(searcher),
		WithMaxSearches(2),
	)

	res, err := agent.Answer(context.Background(), "When was the treaty signed?")
	require.NoError(t, err)
	assert.Equal(t, `\boxed{10 February 1947}`, res.Answer)
	// The refined extraction should have replaced the raw snippet text
	// in the reasoning fed to the second turn.
	last := backend.prompts[len(backend.prompts)-2]
	assert.Contains(t, last, "Signed on 10 February 1947.")
}

func TestAgentBudgetExhaustedBestEffort(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		BeginSearchQuery + "q1" + EndSearchQuery,
		"JUDGEMENT: YES",
		"JUDGEMENT: YES",
		BeginSearchQuery + "q2" + EndSearchQuery,
		// budget gone: reflection must decide, and it answers
		"We know enough. \\boxed{42}",
		"JUDGEMENT: NO",
	}}
	searcher := &fakeSearch{results: []ResultRecord{{Title: "t", URL: "u", Snippet: "s"}}}

	agent := NewAgent(New(WithCompletionProvider(backend)),
		WithSearcher(searcher),
		WithMaxSearches(1),
	)

	res, err := agent.Answer(context.Background(), "Q")
	require.NoError(t, err)
	assert.Equal(t, `\boxed{42}`, res.Answer)
	assert.Equal(t, []string{"q1"}, searcher.queries)
	require.Len(t, res.State.ReflectionTrace, 1)
	assert.True(t, res.State.ReflectionTrace[0].Stop)
}

func TestAgentStalledModelForcesFinalization(t *testing.T) {
	backend := &scriptedProvider{responses: []string{
		"I am not sure what to do here.", // no query, no boxed answer
		"Best guess: \\boxed{unknown}",   // forced finalizer
		"JUDGEMENT: YES | Reason: nothing grounded", // hallucination guard
	}}
	searcher := &fakeSearch{}

	agent := NewAgent(New(WithCompletionProvider(backend)),
		WithSearcher(searcher),
	)

	res, err := agent.Answer(context.Background(), "Q")
	require.NoError(t, err)
	assert.Equal(t, `\boxed{unknown}`, res.Answer)
	assert.True(t, res.Ungrounded)
	assert.Empty(t, searcher.queries)
}

func TestAgentEmptyQuestion(t *testing.T) {
	agent := NewAgent(New(WithCompletionProvider(&fixedProvider{})), WithSearcher(&fakeSearch{}))
	_, err := agent.Answer(context.Background(), "   ")
	require.Error(t, err)
}

func TestAgentRequiresSearcher(t *testing.T) {
	agent := NewAgent(New(WithCompletionProvider(&fixedProvider{})))
	_, err := agent.Answer(context.Background(), "Q")
	require.Error(t, err)
}
