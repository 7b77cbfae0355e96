// Package search provides search provider implementations for the
// reflexion pipeline.
//
// Available providers:
//
//   - DuckDuckGo: Free, no API key required (scrapes lite.duckduckgo.com)
//   - Brave: Requires API key via X-Subscription-Token header
//   - Tavily: Requires API key, supports basic/advanced depth modes
//   - Bing: Requires API key; also exposes the raw webPages.value
//     payload for reflexion.BuildPreview's nested branch
//
// # DuckDuckGo Example
//
//	provider := search.NewDuckDuckGo()
//	results, err := provider.Search(ctx, "golang web frameworks")
//
// # Bing Example
//
//	provider := search.NewBing("your-api-key")
//	results, err := provider.Search(ctx, "apple revenue 2024")
//	raw, err := provider.SearchRaw(ctx, "apple revenue 2024")
//
// # Custom Providers
//
// Implement the reflexion.SearchProvider interface to add your own
// search backend:
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string) ([]reflexion.ResultRecord, error)
//	}
package search
