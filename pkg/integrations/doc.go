// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// This package contains the shared transport used by registry clients. Each
// registry has its own subpackage:
//
//   - [npm]: Node Package Manager
//
// # Client Pattern
//
// Registry clients embed [Client] and expose one fetch method per document
// type they understand:
//
//	client := npm.NewClient(npm.Options{})
//	doc, err := client.FetchDocument(ctx, "express")
//
// Clients handle:
//   - HTTP requests with default headers and a bounded timeout
//   - Mapping of HTTP status codes to [ErrNotFound] and [ErrNetwork]
//   - API-specific parsing
//
// Clients deliberately do not retry or cache. Retry ([httputil.Retry]) and
// response caching ([cache.Cache]) are composed by the caller around the
// fetcher, so that every layer has a single responsibility.
//
// # Errors
//
// Transient failures (connection errors, 5xx, 429) are wrapped in
// [httputil.RetryableError] so a retrying caller can recognise them.
// Undecodable bodies wrap [ErrMalformed].
//
// [npm]: github.com/matzehuels/offpack/pkg/integrations/npm
// [httputil.Retry]: github.com/matzehuels/offpack/pkg/httputil.Retry
// [httputil.RetryableError]: github.com/matzehuels/offpack/pkg/httputil.RetryableError
// [cache.Cache]: github.com/matzehuels/offpack/pkg/cache.Cache
package integrations
