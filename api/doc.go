// Package api provides the HTTP layer of HackerHome. It uses Huma on a chi
// router for OpenAPI generation and request validation.
//
// # Layout
//
//   - server.go: router, middleware chain and Huma configuration
//   - handlers/: sources, sessions, cache and health operations
//   - dto/: request and response shapes plus mappers from core types
//   - middleware/: request ids and logging, feature flags, rate limiting
//
// # Endpoints
//
//	GET    /sources                      list sources and their feeds
//	GET    /sources/{source}/items       session snapshot, ?feed=&q=&fields=&wait=
//	POST   /sources/{source}/more        load the next page
//	POST   /sources/{source}/refresh     re-fetch the first page
//	PUT    /sources/{source}/enabled     enable or disable a source
//	DELETE /cache                        clear cached first pages, ?key=
//	GET    /cache/stats                  cache statistics
//	GET    /health                       liveness
//
// The OpenAPI document is served at /openapi.json and the docs UI at /docs.
//
// # Errors
//
// Request errors use RFC 7807 problem documents. Unknown sources are 404,
// invalid feeds and queries 400. Upstream failures inside a session are not
// request errors: they are reported in the session's error field with a
// 200 response so clients keep rendering what they have.
//
// # Usage
//
//	srv := api.NewAPI(api.Config{Logger: log, Flags: flags, RateLimit: 100, RateWindow: time.Minute})
//	defer srv.Close()
//	handlers.NewSourceHandler(dash).RegisterRoutes(srv.API)
//	http.ListenAndServe(":8080", srv)
package api
