package deps

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/offpack/pkg/semver"
)

// OptionalDependency is an optional dependency declared by a visited
// version. Satisfied is true when some visited version of the dependency
// already satisfies the declared range.
type OptionalDependency struct {
	Request   Request        `json:"request"`
	From      PackageVersion `json:"from"`
	Satisfied bool           `json:"satisfied"`
}

// InstallScript is a visited version that runs a lifecycle script on install.
type InstallScript struct {
	Package    PackageVersion `json:"package"`
	DependedBy []Requester    `json:"dependedBy"`
}

// ResolvedPackage is one visited version with everything needed to render
// or download it.
type ResolvedPackage struct {
	Package          PackageVersion `json:"package"`
	DependedBy       []Requester    `json:"dependedBy"`
	HasInstallScript bool           `json:"hasInstallScript,omitempty"`
	Tarball          string         `json:"tarball,omitempty"`
}

// OptionalDependencies lists the optional dependencies declared by every
// visited version, once per (name, range), in visit order.
func OptionalDependencies(c *Cache) []OptionalDependency {
	var (
		out  []OptionalDependency
		seen = make(map[Request]bool)
	)
	for _, pv := range c.Visited() {
		e, _ := c.Entry(pv.Name)
		info := e.Metadata().Versions[pv.Version]
		if info == nil {
			continue
		}
		for _, opt := range info.OptionalDependencies {
			if seen[opt] {
				continue
			}
			seen[opt] = true
			out = append(out, OptionalDependency{
				Request:   opt,
				From:      pv,
				Satisfied: satisfied(c, opt),
			})
		}
	}
	return out
}

// satisfied reports whether a visited version of req.Name matches req.Range.
func satisfied(c *Cache, req Request) bool {
	e, ok := c.Entry(req.Name)
	if !ok {
		return false
	}
	rng, err := semver.ParseRange(req.Range)
	if err != nil {
		return false
	}
	for _, v := range e.Versions() {
		if pv, err := semver.ParseVersion(v); err == nil && semver.Satisfies(pv, rng) {
			return true
		}
	}
	return false
}

// InstallScripts lists visited versions that carry an install script.
func InstallScripts(c *Cache) []InstallScript {
	var out []InstallScript
	for _, p := range Packages(c) {
		if p.HasInstallScript {
			out = append(out, InstallScript{Package: p.Package, DependedBy: p.DependedBy})
		}
	}
	return out
}

// Packages lists every visited version sorted by name, then version.
func Packages(c *Cache) []ResolvedPackage {
	visited := c.Visited()
	out := make([]ResolvedPackage, 0, len(visited))
	for _, pv := range visited {
		e, _ := c.Entry(pv.Name)
		p := ResolvedPackage{Package: pv, DependedBy: e.DependedBy(pv.Version)}
		if info := e.Metadata().Versions[pv.Version]; info != nil {
			p.HasInstallScript = info.HasInstallScript
			p.Tarball = info.Tarball
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b ResolvedPackage) int {
		if n := strings.Compare(a.Package.Name, b.Package.Name); n != 0 {
			return n
		}
		va, errA := semver.ParseVersion(a.Package.Version)
		vb, errB := semver.ParseVersion(b.Package.Version)
		if errA != nil || errB != nil {
			return strings.Compare(a.Package.Version, b.Package.Version)
		}
		return semver.Compare(va, vb)
	})
	return out
}

// LoadOptional resolves one optional dependency on top of a finished run.
// It works on a clone, so c is left untouched; the dependency is recorded
// as requested by opt.From.
func LoadOptional(ctx context.Context, r *Resolver, c *Cache, opt OptionalDependency) *Result {
	from := RequestedBy(opt.From.Name, opt.From.Version)
	return r.Resolve(ctx, from, []Request{opt.Request}, c.Clone())
}

// IncludeOptional resolves every unsatisfied optional dependency into c,
// repeating until the optional dependencies of newly visited versions are
// covered too. Each (name, range) is attempted once; failures are
// collected in the result like any other request.
func IncludeOptional(ctx context.Context, r *Resolver, c *Cache) *Result {
	res := &Result{Cache: c}
	tried := make(map[Request]bool)
	for ctx.Err() == nil {
		progressed := false
		for _, opt := range OptionalDependencies(c) {
			if opt.Satisfied || tried[opt.Request] {
				continue
			}
			tried[opt.Request] = true
			progressed = true
			from := RequestedBy(opt.From.Name, opt.From.Version)
			step := r.Resolve(ctx, from, []Request{opt.Request}, c)
			res.Errors = append(res.Errors, step.Errors...)
		}
		if !progressed {
			break
		}
	}
	res.Err = ctx.Err()
	return res
}
