package reflexion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPreviewRecordList(t *testing.T) {
	records := []ResultRecord{
		{Title: "one", URL: "u1", Snippet: "s1"},
		{Title: "two", URL: "u2", Snippet: "s2"},
		{Title: "three", URL: "u3", Snippet: "s3"},
		{Title: "four", URL: "u4", Snippet: "s4"},
		{Title: "five", URL: "u5", Snippet: "s5"},
	}
	preview := BuildPreview(ResultsFromRecords(records), 3, 1500)

	assert.Contains(t, preview, "[1] title=one")
	assert.Contains(t, preview, "[3] title=three")
	assert.NotContains(t, preview, "four")
	assert.NotContains(t, preview, "five")
	assert.Equal(t, 2, strings.Count(preview, "\n\n"), "blocks are joined by one blank line")
}

func TestBuildPreviewMissingFields(t *testing.T) {
	preview := BuildPreview(ResultsFromRecords([]ResultRecord{{}}), 3, 1500)
	assert.Equal(t, "[1] title=\nurl=\nsnippet=", preview)
}

func TestBuildPreviewNestedResponse(t *testing.T) {
	var resp WebSearchResponse
	resp.WebPages.Value = []WebPage{
		{Name: "alpha", URL: "ua", Snippet: "sa"},
		{Name: "beta", URL: "ub", Snippet: "sb"},
		{Name: "gamma", URL: "uc", Snippet: "sc"},
		{Name: "delta", URL: "ud", Snippet: "sd"},
	}
	preview := BuildPreview(SearchResults{Response: &resp}, 3, 1500)

	assert.Contains(t, preview, "[1] title=alpha")
	assert.Contains(t, preview, "[3] title=gamma")
	assert.NotContains(t, preview, "delta")
}

func TestBuildPreviewEmptyNestedResponse(t *testing.T) {
	// A missing webPages.value path yields an empty preview, not a failure.
	preview := BuildPreview(SearchResults{Response: &WebSearchResponse{}}, 3, 1500)
	assert.Equal(t, "", preview)
}

func TestBuildPreviewTruncation(t *testing.T) {
	records := []ResultRecord{{Title: strings.Repeat("x", 100)}}
	preview := BuildPreview(ResultsFromRecords(records), 3, 50)

	require.True(t, strings.HasSuffix(preview, " ..."))
	assert.Equal(t, 50+len(" ..."), len(preview))
}

func TestBuildPreviewRawBlob(t *testing.T) {
	preview := BuildPreview(SearchResults{Raw: map[string]int{"hits": 3}}, 3, 1500)
	assert.Contains(t, preview, "hits")
}

func TestBuildPreviewRawBlobClipped(t *testing.T) {
	// The raw branch is clipped to maxChars without the marker.
	preview := BuildPreview(SearchResults{Raw: strings.Repeat("y", 2000)}, 3, 100)
	assert.Equal(t, 100, len(preview))
	assert.False(t, strings.HasSuffix(preview, " ..."))
}

type panickyStringer struct{}

func (panickyStringer) String() string { panic("boom") }

func TestBuildPreviewNeverPanics(t *testing.T) {
	preview := BuildPreview(SearchResults{Raw: panickyStringer{}}, 3, 1500)
	assert.Equal(t, "(failed to build preview)", preview)
}

func TestBuildPreviewDefaults(t *testing.T) {
	records := make([]ResultRecord, 10)
	for i := range records {
		records[i] = ResultRecord{Title: "t"}
	}
	preview := BuildPreview(ResultsFromRecords(records), 0, 0)
	// non-positive limits fall back to 3 items / 1500 chars
	assert.Contains(t, preview, "[3]")
	assert.NotContains(t, preview, "[4]")
}
