package reflexion

import (
	"fmt"
	"strings"
)

const (
	defaultPreviewItems = 3
	defaultPreviewChars = 1500

	previewTruncationMarker   = " ..."
	previewFailurePlaceholder = "(failed to build preview)"
)

// WebPage is one entry of a provider-style nested search response.
type WebPage struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearchResponse mirrors the Bing web search payload shape
// (webPages.value). Providers returning this structure can be previewed
// without flattening first.
type WebSearchResponse struct {
	WebPages struct {
		Value []WebPage `json:"value"`
	} `json:"webPages"`
}

// SearchResults is the heterogeneous input to BuildPreview: exactly one
// branch is normally set. Records takes precedence over Response, which
// takes precedence over Raw.
type SearchResults struct {
	// Records is a flat result list.
	Records []ResultRecord
	// Response is a provider-style nested payload.
	Response *WebSearchResponse
	// Raw is anything else; it is stringified and truncated.
	Raw any
}

// ResultsFromRecords wraps a flat record list.
func ResultsFromRecords(records []ResultRecord) SearchResults {
	return SearchResults{Records: records}
}

// BuildPreview renders search results as a bounded human-readable block
// for prompt inclusion. maxItems and maxChars fall back to 3 and 1500
// when non-positive. The function never panics; an internal failure
// yields a fixed placeholder string instead.
func BuildPreview(results SearchResults, maxItems, maxChars int) (preview string) {
	if maxItems <= 0 {
		maxItems = defaultPreviewItems
	}
	if maxChars <= 0 {
		maxChars = defaultPreviewChars
	}

	defer func() {
		// A Raw value with a misbehaving Stringer must not take the
		// whole step down.
		if r := recover(); r != nil {
			preview = previewFailurePlaceholder
		}
	}()

	switch {
	case results.Records != nil:
		items := results.Records
		if len(items) > maxItems {
			items = items[:maxItems]
		}
		blocks := make([]string, 0, len(items))
		for i, it := range items {
			blocks = append(blocks, fmt.Sprintf("[%d] title=%s\nurl=%s\nsnippet=%s", i+1, it.Title, it.URL, it.Snippet))
		}
		preview = strings.TrimSpace(strings.Join(blocks, "\n\n"))
	case results.Response != nil:
		values := results.Response.WebPages.Value
		if len(values) > maxItems {
			values = values[:maxItems]
		}
		blocks := make([]string, 0, len(values))
		for i, it := range values {
			blocks = append(blocks, fmt.Sprintf("[%d] title=%s\nurl=%s\nsnippet=%s", i+1, it.Name, it.URL, it.Snippet))
		}
		preview = strings.TrimSpace(strings.Join(blocks, "\n\n"))
	default:
		// Opaque payload: stringify and clip. The clip happens before
		// the marker check below, so this branch never carries the
		// truncation marker.
		s := fmt.Sprint(results.Raw)
		if len(s) > maxChars {
			s = s[:maxChars]
		}
		preview = s
	}

	if len(preview) > maxChars {
		preview = preview[:maxChars] + previewTruncationMarker
	}
	return preview
}
