// Package buildinfo carries the version stamped into offpack binaries.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/offpack/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/offpack/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/offpack
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (e.g., "v0.3.0").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", Version, Commit, Date, runtime.Version())
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies offpack to registries.
func UserAgent() string {
	return fmt.Sprintf("offpack/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
