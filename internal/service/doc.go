// Package service provides the tool registry behind the /tools endpoints.
//
// Providers register under a service ID and expose tools named
// "<service>.<tool>". Execute routes a tool ID to its provider by that
// prefix.
//
// Discovery scores services against a free-text query:
//   - service ID or name: 10
//   - each description word: 5
//   - each capability (underscores read as spaces): 3
//   - each tool name: 1
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(scraper.NewProvider(scraper.Options{}))
//	services := registry.Discover("xpath queries", 5)
//	result, err := registry.Execute(ctx, "scraper.tokenize", params)
package service
