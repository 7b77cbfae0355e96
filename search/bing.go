package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smhanov/reflexion"
)

// Bing calls the Bing Web Search v7 API. An API key is required via
// Ocp-Apim-Subscription-Key.
type Bing struct {
	APIKey string
	client *http.Client
}

// NewBing constructs a Bing search provider.
func NewBing(apiKey string) *Bing {
	return &Bing{APIKey: apiKey, client: &http.Client{Timeout: 10 * time.Second}}
}

// NewBingWithClient constructs a Bing search provider using the
// supplied HTTP client.
func NewBingWithClient(apiKey string, client *http.Client) *Bing {
	return &Bing{APIKey: apiKey, client: client}
}

// Search executes a Bing query and flattens the webPages.value payload
// into result records.
func (b *Bing) Search(ctx context.Context, query string) ([]reflexion.ResultRecord, error) {
	raw, err := b.SearchRaw(ctx, query)
	if err != nil {
		return nil, err
	}
	values := raw.WebPages.Value
	records := make([]reflexion.ResultRecord, 0, len(values))
	for _, v := range values {
		records = append(records, reflexion.ResultRecord{Title: v.Name, URL: v.URL, Snippet: v.Snippet})
		if len(records) >= maxResults {
			break
		}
	}
	return records, nil
}

// SearchRaw executes a Bing query and returns the provider's nested
// response shape, suitable for reflexion.SearchResults.Response.
func (b *Bing) SearchRaw(ctx context.Context, query string) (*reflexion.WebSearchResponse, error) {
	if strings.TrimSpace(b.APIKey) == "" {
		return nil, errors.New("bing: API key is missing")
	}
	endpoint := "https://api.bing.microsoft.com/v7.0/search?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing http %d", resp.StatusCode)
	}

	var payload reflexion.WebSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
