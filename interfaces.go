package reflexion

import "context"

// Message is one role/content entry of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SamplingConfig is passed through unchanged to the completion backend.
type SamplingConfig struct {
	MaxTokens           int
	Temperature         float64
	TopP                float64
	TopK                int
	RepetitionPenalty   float64
	Stop                []string
	IncludeStopInOutput bool
}

// CompletionProvider is the boundary to a text-generation backend.
// Each call is a single batched request; this package always issues a
// batch of exactly one prompt and expects one completion per prompt,
// in order. Cancellation and timeouts are the provider's concern via ctx.
type CompletionProvider interface {
	Complete(ctx context.Context, prompts []string, cfg SamplingConfig) ([]string, error)
}

// ChatTemplate renders a message list into the exact prompt text the
// completion backend was trained on.
type ChatTemplate interface {
	Render(messages []Message) (string, error)
}

// ResultRecord is a single structured search result. Fields may be
// empty; unstructured provider payloads go through SearchResults.Raw
// instead.
type ResultRecord struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchProvider executes a query and returns results.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]ResultRecord, error)
}

// FetchProvider retrieves page text for a URL, used by the
// presence-refinement step to read past the snippet level.
type FetchProvider interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Verdict is the result of a single gate judgment. Reason is non-empty
// exactly when Passed is false.
type Verdict struct {
	Passed bool
	Reason string
}

// Result is returned by Agent.Answer.
type Result struct {
	Answer string
	// Ungrounded is the hallucination guard's advisory verdict: true
	// means the answer contains claims not clearly grounded in the
	// gathered information. The answer is still returned.
	Ungrounded bool
	// State is the session trace accumulated during the run.
	State *SequenceState
}
