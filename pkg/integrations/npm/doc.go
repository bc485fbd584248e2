// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package documents from an npm registry
// (https://registry.npmjs.org by default). Each document lists every
// published version of a package together with its dependency ranges,
// optional dependencies, install-script flag and tarball location.
//
// # Usage
//
//	client := npm.NewClient(npm.Options{})
//
//	doc, err := client.FetchDocument(ctx, "express")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(doc.Name, doc.DistTags["latest"])
//	for _, dep := range doc.Versions["4.18.2"].Dependencies {
//	    fmt.Println(dep.Name, dep.Range)
//	}
//
// # Abbreviated Documents
//
// Requests carry the "application/vnd.npm.install-v1+json" Accept header so
// the registry serves the abbreviated install document. Registries that only
// serve the full document are handled too: the install-script flag is then
// derived from the lifecycle scripts.
//
// # Retries and Caching
//
// The client performs exactly one request per call. Retry and document
// caching are layered on by callers; see the deps package.
package npm
