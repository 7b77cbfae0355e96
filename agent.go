package reflexion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultMaxSearches = 5
	defaultMaxTurns    = 8

	// maxFetchedDocs limits how many result pages feed the
	// presence-refinement document window per search round.
	maxFetchedDocs = 2

	// minFetchedChars skips trivially short pages (titles only,
	// JS-rendered shells, etc.).
	minFetchedChars = 200
)

// Agent drives a full reasoning session: it lets the model reason until
// it emits a search query, runs the query through the reflective gates,
// folds the surviving information back into the reasoning, and stops on
// a boxed answer or when the budgets run out.
type Agent struct {
	pipe     *Pipeline
	searcher SearchProvider
	fetcher  FetchProvider

	maxSearches       int
	maxTurns          int
	reasoningSampling SamplingConfig
	recordMessages    bool
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithSearcher sets the search implementation.
func WithSearcher(s SearchProvider) AgentOption {
	return func(a *Agent) { a.searcher = s }
}

// WithFetcher sets the optional page fetcher used by the
// presence-refinement step. Without one, refinement reads snippets only.
func WithFetcher(f FetchProvider) AgentOption {
	return func(a *Agent) { a.fetcher = f }
}

// WithMaxSearches sets the search budget per session.
func WithMaxSearches(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxSearches = n
		}
	}
}

// WithMaxTurns sets the maximum reasoning turns per session.
func WithMaxTurns(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithReasoningSampling overrides the sampling used for the main
// reasoning generations.
func WithReasoningSampling(cfg SamplingConfig) AgentOption {
	return func(a *Agent) { a.reasoningSampling = cfg }
}

// WithSessionMessages also records reflection notes as system-role
// messages on the session state.
func WithSessionMessages(enabled bool) AgentOption {
	return func(a *Agent) { a.recordMessages = enabled }
}

// NewAgent constructs an Agent around a configured Pipeline.
func NewAgent(pipe *Pipeline, opts ...AgentOption) *Agent {
	a := &Agent{
		pipe:        pipe,
		maxSearches: defaultMaxSearches,
		maxTurns:    defaultMaxTurns,
		reasoningSampling: SamplingConfig{
			MaxTokens:           2048,
			Temperature:         0.7,
			TopP:                0.9,
			TopK:                20,
			RepetitionPenalty:   1.05,
			Stop:                []string{EndSearchQuery},
			IncludeStopInOutput: true,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer runs the reflective loop until a boxed answer is produced or
// the budgets are exhausted, then applies the hallucination guard. The
// returned Result always carries the session state, including the full
// reflection trace.
func (a *Agent) Answer(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, errors.New("question is empty")
	}
	if a.pipe == nil {
		return Result{}, errors.New("pipeline is not configured")
	}
	if a.searcher == nil {
		return Result{}, errors.New("search provider is not configured")
	}

	state := NewSequenceState()
	var reasoning string
	var lastQuery string
	remaining := a.maxSearches
	var answer string

turns:
	for turn := 0; turn < a.maxTurns; turn++ {
		text, err := a.pipe.generate(ctx, buildReasoningPrompt(a.pipe.prompts, question, reasoning), a.reasoningSampling)
		if err != nil {
			return Result{State: state}, fmt.Errorf("reasoning: %w", err)
		}
		reasoning = strings.TrimSpace(reasoning + "\n" + text)

		query := ExtractBetween(text, BeginSearchQuery, EndSearchQuery)
		if boxed := ExtractBoxed(text); boxed != "" && query == "" {
			answer = boxed
			break
		}
		if query == "" {
			// Neither a query nor an answer: the model stalled.
			break
		}

		if remaining <= 0 || query == lastQuery {
			// Budget exhausted or the model is looping. One reflection
			// decides whether to answer from what we have or give up
			// the turn; no further queries are accepted once the budget
			// is gone.
			out, err := a.pipe.RunReflection(ctx, state, ReflectionInput{
				Question:            question,
				CurrentReasoning:    reasoning,
				JudgeFeedback:       fmt.Sprintf("The query %q cannot be searched (remaining budget %d).", query, remaining),
				LastQuery:           query,
				RemainingSearches:   remaining,
				MaxSuggestedQueries: min(remaining, 1),
				AppendToMessages:    a.recordMessages,
			})
			if err != nil {
				return Result{State: state}, fmt.Errorf("reflection: %w", err)
			}
			if out.Stop {
				answer = out.FinalAnswer
				break
			}
			if out.NewSearchQuery == "" {
				break
			}
			query = out.NewSearchQuery
		}

		results, err := a.searcher.Search(ctx, query)
		if err != nil {
			return Result{State: state}, fmt.Errorf("search: %w", err)
		}
		remaining--
		lastQuery = query

		verdict, err := a.pipe.JudgeSnippetRelevance(ctx, question, query, results, reasoning)
		if err != nil {
			return Result{State: state}, fmt.Errorf("snippet gate: %w", err)
		}
		if !verdict.Passed {
			out, err := a.pipe.RunReflection(ctx, state, ReflectionInput{
				Question:            question,
				CurrentReasoning:    reasoning,
				JudgeFeedback:       "JUDGEMENT: NO | Reason: " + verdict.Reason,
				LastQuery:           query,
				Results:             ResultsFromRecords(results),
				RemainingSearches:   remaining,
				MaxSuggestedQueries: 1,
				AppendToMessages:    a.recordMessages,
			})
			if err != nil {
				return Result{State: state}, fmt.Errorf("reflection: %w", err)
			}
			if out.Stop {
				answer = out.FinalAnswer
				break turns
			}
			if out.NewSearchQuery != "" && remaining > 0 {
				query = out.NewSearchQuery
				results, err = a.searcher.Search(ctx, query)
				if err != nil {
					return Result{State: state}, fmt.Errorf("search: %w", err)
				}
				remaining--
				lastQuery = query
			}
		}

		info := snippetText(results)
		document := info + a.fetchDocuments(ctx, results)

		cr, err := a.pipe.ReflectOnContent(ctx, question, info, reasoning)
		if err != nil {
			return Result{State: state}, fmt.Errorf("content gate: %w", err)
		}
		if !cr.Verdict.Passed {
			present, err := a.pipe.CheckPresence(ctx, query, document)
			if err != nil {
				return Result{State: state}, fmt.Errorf("presence check: %w", err)
			}
			if present {
				refined, found, err := a.pipe.RefineExtraction(ctx, query, document)
				if err != nil {
					return Result{State: state}, fmt.Errorf("refine extraction: %w", err)
				}
				if found {
					info = refined
				}
			} else if cr.Direction != "" {
				reasoning += "\n" + LabelSearchDirection + " " + cr.Direction
			}
		}

		reasoning += "\n\n" + FinalInformation + "\n" + info + "\n"
	}

	if answer == "" {
		// Best-effort finalization from whatever was gathered.
		raw, err := a.pipe.generate(ctx, buildFinalAnswerPrompt(a.pipe.prompts, question, reasoning), a.pipe.refineSampling)
		if err != nil {
			return Result{State: state}, fmt.Errorf("finalize: %w", err)
		}
		answer = ExtractBoxed(raw)
		if answer == "" {
			answer = strings.TrimSpace(StripThinkBlocks(raw))
		}
	}

	ungrounded, err := a.pipe.CheckHallucination(ctx, question, answer)
	if err != nil {
		return Result{Answer: answer, State: state}, fmt.Errorf("hallucination check: %w", err)
	}
	return Result{Answer: answer, Ungrounded: ungrounded, State: state}, nil
}

// fetchDocuments reads up to maxFetchedDocs result pages for the
// presence-refinement window. Fetch failures and near-empty pages are
// skipped; document text is advisory, not load-bearing.
func (a *Agent) fetchDocuments(ctx context.Context, results []ResultRecord) string {
	if a.fetcher == nil {
		return ""
	}
	var b strings.Builder
	fetched := 0
	for _, r := range results {
		if fetched >= maxFetchedDocs {
			break
		}
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		content, err := a.fetcher.Fetch(ctx, r.URL)
		if err != nil {
			a.pipe.logger.Debug("fetch failed", zap.String("url", r.URL), zap.Error(err))
			continue
		}
		if len(strings.TrimSpace(content)) < minFetchedChars {
			continue
		}
		b.WriteString("\n\n[Page] ")
		b.WriteString(r.URL)
		b.WriteString("\n")
		b.WriteString(content)
		fetched++
	}
	return b.String()
}

func snippetText(results []ResultRecord) string {
	var b strings.Builder
	for i, r := range results {
		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			snippet = strings.TrimSpace(r.Title)
		}
		if snippet == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, snippet, r.URL))
	}
	return b.String()
}
