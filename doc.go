// Package reflexion implements a reflective search-augmented reasoning
// loop on top of any text-completion backend.
//
// A reasoning model emits search queries between <|begin_search_query|>
// and <|end_search_query|> tags and a final answer inside \boxed{...}.
// Between those two events the pipeline judges what came back from the
// search provider and reflects when a judgment fails:
//
//  1. The snippet-relevance gate judges whether results match the query.
//  2. On failure, the query-rewrite reflector proposes a new query.
//  3. The content-sufficiency gate judges whether extracted information
//     answers the question.
//  4. On failure, the presence-refinement step re-reads the fetched
//     documents, or the strategy reflector proposes a new direction.
//  5. A hallucination guard gives a final advisory verdict on the answer.
//
// All judgments are parsed from fixed textual protocols ("JUDGEMENT:
// YES/NO", "STATUS: PRESENT/ABSENT", "New_Query:" lines). Parsing never
// fails hard: a missing marker degrades to the protocol's documented
// default so an ambiguous model response cannot wedge the loop.
//
// # Basic Usage
//
//	pipe := reflexion.New(
//	    reflexion.WithCompletionProvider(myBackend),
//	)
//	agent := reflexion.NewAgent(pipe,
//	    reflexion.WithSearcher(search.NewDuckDuckGo()),
//	    reflexion.WithMaxSearches(5),
//	)
//
//	result, err := agent.Answer(ctx, "Who discovered the electron?")
//	fmt.Println(result.Answer)
//
// # Interfaces
//
// Implement CompletionProvider to connect any completion backend:
//
//	type CompletionProvider interface {
//	    Complete(ctx context.Context, prompts []string, cfg SamplingConfig) ([]string, error)
//	}
//
// The pipeline always sends a batch of exactly one prompt; the batched
// signature exists so a single implementation can serve batch callers too.
//
// Implement SearchProvider to use any search backend:
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string) ([]ResultRecord, error)
//	}
//
// The individual steps (RunReflection, JudgeSnippetRelevance,
// CheckPresence, ...) are exported on Pipeline so callers can drive
// their own loop instead of using Agent. Each reasoning session owns
// one SequenceState; the pipeline only ever appends to it.
//
// See the examples/basic directory for a complete offline example.
package reflexion
