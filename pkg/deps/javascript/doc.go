// Package javascript connects the resolver to the npm ecosystem.
//
// # Registry
//
// [Fetcher] adapts an [npm.Client] to [deps.Fetcher], converting registry
// documents into [deps.Metadata]:
//
//	client := npm.NewClient(npm.Options{})
//	r := deps.NewResolver(javascript.NewFetcher(client), deps.Options{})
//	res := r.LoadAll(ctx, []deps.Request{{Name: "express", Range: "^4"}})
//
// Dependency order is preserved as declared, and install scripts are
// detected from either the abbreviated hasInstallScript flag or the
// lifecycle scripts of a full document.
//
// # Inputs
//
// Root requests come from a plain-text list ([ParseList], [TextList]) or a
// package.json ([ParseManifest], [PackageJSON]). [FormatList] turns
// manifest sections back into an editable list:
//
//	# Production dependencies
//	express ^4.18.2
//
//	# Development dependencies
//	vitest ^1.0.0
package javascript
