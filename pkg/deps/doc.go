// Package deps resolves npm-style dependency graphs against a registry.
//
// # Overview
//
// Given requested packages (name and version range), deps discovers every
// distinct version an installer would fetch and records which requester
// pulled each one in. The result is a [Cache]: per package name, the
// registry metadata plus a "depended by" list for every visited version.
//
// # Resolving
//
//	fetcher := javascript.NewFetcher(npm.NewClient(npm.Options{}))
//	r := deps.NewResolver(fetcher, deps.Options{Workers: 20})
//	res := r.LoadAll(ctx, []deps.Request{{Name: "express", Range: "^4.18.0"}})
//	for _, e := range res.Errors {
//	    log.Warn(e)
//	}
//
// For each request the resolver picks the highest published version
// satisfying the range. If the range also names an exact published version
// (for example "1.0.0 || ^1.2.0"), that version is visited too. The first
// visit of a (name, version) pair expands its dependencies, except those
// also declared optional with the identical range string. Later visits only
// add a requester.
//
// # Failures
//
// One failing request never aborts a run. Fetch failures
// ([RegistryError]) and ranges no version satisfies
// ([UnsatisfiableRangeError]) are collected in [Result.Errors] as
// [RequestError] values and, optionally, streamed as [EventError] on
// [Options.Events]. A name that failed once is not fetched again in the
// same run.
//
// # Concurrency
//
// With Options.Workers greater than one, sibling requests are expanded
// concurrently and registry fetches are bounded by a semaphore. Concurrent
// requests for the same name share a single fetch, and exactly one visitor
// of each (name, version) pair expands it. Workers of 1 gives the
// deterministic depth-first order.
//
// # Caching Documents
//
// The resolution [Cache] lives for one run. To reuse registry documents
// across runs, wrap the fetcher with [WithDocumentCache] (file or Redis
// backed) and [WithRetry] for transient network failures.
//
// # Reports
//
// [Packages], [OptionalDependencies] and [InstallScripts] summarize a
// finished cache; [LoadOptional] resolves one more optional dependency on a
// copy of it, and [Graph] exports it as a [dag.DAG].
//
// [dag.DAG]: github.com/matzehuels/offpack/pkg/dag
package deps
