// Package core contains the business logic of HackerHome. It does not depend
// on the HTTP framework or on concrete cache and transport implementations.
//
// Sub-packages:
//
//   - domain: Item, SourceInfo and CacheEntry
//   - errors: fetch, format, cache and request error types
//   - interfaces: contracts for cache, HTTP, logging and fetchers
//   - sources: upstream adapters and the source registry
//   - session: the per-binding pagination state machine
//   - cachestore: first-page cache with staleness and sweeping
//   - search: case-insensitive substring filtering
//   - dashboard: one session per (source, feed) binding plus search
//   - workers: periodic background jobs
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	registry := sources.NewDefaultRegistry(deps, sources.DefaultConfig())
//	store := cachestore.New(deps)
//	dash := dashboard.New(registry, store, flags, deps, dashboard.Options{})
//
//	view, err := dash.Items(ctx, "hn", "top", "rust", nil, true)
package core
