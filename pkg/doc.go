// Package pkg provides the libraries behind offpack, an npm dependency
// resolver and offline bundler.
//
// # Overview
//
// offpack answers one question: which (name, version) pairs would an npm
// installer fetch for a set of root requests, and who asked for each?
// The answer can be rendered, reported or bundled into a zip archive for
// air-gapped installs.
//
// # Architecture
//
//	Arguments / package list / package.json
//	         ↓
//	    [deps/javascript] (parse requests, convert registry documents)
//	         ↓
//	    [deps] (resolve into a Cache: visited versions + requesters)
//	         ↓
//	    [io], [render/nodelink], [bundle]
//	         ↓
//	    JSON report, DOT/SVG graph, zip archive
//
// # Main Packages
//
// [deps] - The resolver. Fetches each package document once, picks the
// highest version satisfying every range, follows dependencies
// concurrently and records every requester. Failures are collected per
// request and never abort a run.
//
// [semver] - npm range semantics on top of Masterminds/semver.
//
// [integrations] and [integrations/npm] - HTTP client for the registry,
// with retries from [httputil].
//
// [cache] - Document cache backends (file, Redis, none).
//
// [dag] - Directed graph used for graph exports and rendering.
//
// [io] - JSON report and graph export.
//
// [bundle] - Zip archive writer for resolved tarballs.
//
// [observability] - Hooks for metrics; [observability/prom] exports them
// to Prometheus.
//
// [errors] - Coded errors for user-facing messages.
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/deps
// [deps/javascript]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/deps/javascript
// [semver]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/semver
// [integrations]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/integrations
// [integrations/npm]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/integrations/npm
// [httputil]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/cache
// [dag]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/dag
// [io]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/render/nodelink
// [bundle]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/bundle
// [observability]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/offpack/pkg/errors
package pkg
