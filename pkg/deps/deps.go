package deps

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/offpack/pkg/observability"
	"github.com/matzehuels/offpack/pkg/semver"
)

const (
	DefaultWorkers  = 20             // Default concurrent registry fetches
	DefaultCacheTTL = 24 * time.Hour // Default document cache duration
)

// Options configures dependency resolution behavior.
type Options struct {
	Workers int                        // Concurrent registry fetches; 1 resolves sequentially (default: 20)
	Events  chan<- Event               // Optional progress/error stream; must be drained while resolving
	Hooks   observability.ResolveHooks // Metrics hooks (default: global hooks)
	Logger  func(string, ...any)       // Debug log callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Resolve()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Fetcher retrieves package metadata from a registry.
type Fetcher interface {
	// Fetch retrieves the full version catalog of a package.
	Fetch(ctx context.Context, name string) (*Metadata, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) (*Metadata, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, name string) (*Metadata, error) {
	return f(ctx, name)
}

// Request asks for a package by name and acceptable version range.
// An empty range accepts any version; a dist-tag name such as "latest"
// selects the tagged version.
type Request struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

func (r Request) String() string {
	if r.Range == "" {
		return r.Name
	}
	return r.Name + "@" + r.Range
}

// PackageVersion identifies one concrete published version.
type PackageVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (p PackageVersion) String() string { return p.Name + "@" + p.Version }

// Requester is whoever pulled a version in: either the root input list or
// a concrete package version. The zero value is invalid.
type Requester struct {
	root bool
	pkg  PackageVersion
}

// Root returns the requester standing for the caller's top-level list.
func Root() Requester { return Requester{root: true} }

// RequestedBy returns the requester for a concrete package version.
func RequestedBy(name, version string) Requester {
	return Requester{pkg: PackageVersion{Name: name, Version: version}}
}

// IsRoot reports whether r is the top-level list.
func (r Requester) IsRoot() bool { return r.root }

// Package returns the requesting version. ok is false for the root.
func (r Requester) Package() (pv PackageVersion, ok bool) {
	if r.root {
		return PackageVersion{}, false
	}
	return r.pkg, true
}

// Valid reports whether r is either the root or names a package version.
func (r Requester) Valid() bool {
	return r.root || (r.pkg.Name != "" && r.pkg.Version != "")
}

// Equal reports whether r and o are the same requester.
func (r Requester) Equal(o Requester) bool { return r == o }

func (r Requester) String() string {
	if r.root {
		return "root"
	}
	return r.pkg.String()
}

// MarshalJSON encodes the root as the string "root" and a package version
// as an object.
func (r Requester) MarshalJSON() ([]byte, error) {
	if r.root {
		return []byte(`"root"`), nil
	}
	return json.Marshal(r.pkg)
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (r *Requester) UnmarshalJSON(data []byte) error {
	var s string
	if json.Unmarshal(data, &s) == nil {
		if s != "root" {
			return fmt.Errorf("deps: invalid requester %q", s)
		}
		*r = Root()
		return nil
	}
	var pv PackageVersion
	if err := json.Unmarshal(data, &pv); err != nil {
		return err
	}
	*r = Requester{pkg: pv}
	return nil
}

// Metadata is the published-version catalog of one package.
// It is immutable once fetched.
type Metadata struct {
	Name     string                  `json:"name"`
	DistTags map[string]string       `json:"distTags,omitempty"`
	Versions map[string]*VersionInfo `json:"versions"`

	// Raw is the registry document as served, kept for archiving.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Published returns every published version, ascending.
func (m *Metadata) Published() []string {
	vs := slices.Collect(maps.Keys(m.Versions))
	semver.Sort(vs)
	return vs
}

// VersionInfo describes one published version.
type VersionInfo struct {
	Version              string    `json:"version"`
	Dependencies         []Request `json:"dependencies,omitempty"`
	OptionalDependencies []Request `json:"optionalDependencies,omitempty"`
	HasInstallScript     bool      `json:"hasInstallScript,omitempty"`
	Tarball              string    `json:"tarball,omitempty"`
}

// OptionalRange returns the range name is declared with as an optional
// dependency of this version.
func (v *VersionInfo) OptionalRange(name string) (string, bool) {
	for _, d := range v.OptionalDependencies {
		if d.Name == name {
			return d.Range, true
		}
	}
	return "", false
}

// Required returns the dependencies to expand: every declared dependency
// except those also declared optional with the identical range string.
func (v *VersionInfo) Required() []Request {
	out := make([]Request, 0, len(v.Dependencies))
	for _, d := range v.Dependencies {
		if opt, ok := v.OptionalRange(d.Name); ok && opt == d.Range {
			continue
		}
		out = append(out, d)
	}
	return out
}
