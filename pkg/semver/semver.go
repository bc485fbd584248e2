// Package semver parses npm-style versions and ranges.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3. Published
// version strings are kept verbatim so callers can use them as map keys
// against registry documents.
//
// Pre-releases follow npm: "1.3.0-beta.1" satisfies a range only when a
// comparator in the same "||" alternative carries a pre-release on 1.3.0,
// so ">=1.2.0-rc.1" admits "1.2.0-rc.2" but never "2.0.0-alpha.1".
package semver

import (
	"fmt"
	"slices"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed semantic version.
type Version struct {
	v *mm.Version
}

// Range is a parsed version range.
//
// Examples:
//   - "^1.2.0"
//   - "~1.4 || >=2.0.0 <2.3.0"
//   - "1.x"
type Range struct {
	raw  string
	c    *mm.Constraints
	alts [][]comparator // nil when the range uses syntax npm does not
}

// ParseVersion parses a published version such as "1.2.3" or
// "2.0.0-beta.1".
func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// ParseRange parses an npm range. An empty range matches any version.
func ParseRange(raw string) (Range, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = "*"
	}
	c, err := mm.NewConstraint(s)
	if err != nil {
		return Range{}, fmt.Errorf("semver: parse range %q: %w", raw, err)
	}
	alts, _ := parseAlternatives(s)
	return Range{raw: raw, c: c, alts: alts}, nil
}

// String returns the range as it was written.
func (r Range) String() string { return r.raw }

// String returns the version as it was written.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// Satisfies reports whether v is inside r. Zero values never satisfy.
func Satisfies(v Version, r Range) bool {
	if v.v == nil || r.c == nil {
		return false
	}
	if v.v.Prerelease() == "" {
		return r.c.Check(v.v)
	}
	for _, alt := range r.alts {
		if allowsPrerelease(alt, v.v) && matchesAll(alt, v.v) {
			return true
		}
	}
	return false
}

// Compare compares a and b, returning:
//
//	-1 if a < b
//	 0 if a == b
//	 1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// MaxSatisfying returns the highest version in published that satisfies r.
// Entries that do not parse as versions are ignored. The returned string is
// the published entry, unmodified.
func MaxSatisfying(r Range, published []string) (string, bool) {
	var (
		best    Version
		bestRaw string
		found   bool
	)
	for _, raw := range published {
		v, err := ParseVersion(raw)
		if err != nil || !Satisfies(v, r) {
			continue
		}
		if !found || Compare(v, best) > 0 {
			best, bestRaw, found = v, raw, true
		}
	}
	return bestRaw, found
}

// ExactPin returns the concrete version a range names outright: the first
// "||" alternative consisting of a single full version, optionally written
// as "=1.2.3" or "v1.2.3". Caret, tilde, wildcard and comparator
// alternatives never pin.
func ExactPin(raw string) (string, bool) {
	for _, alt := range strings.Split(raw, "||") {
		tok := strings.TrimSpace(alt)
		tok = strings.TrimSpace(strings.TrimPrefix(tok, "="))
		if tok == "" || strings.ContainsAny(tok, " \t") {
			continue
		}
		v, err := mm.StrictNewVersion(strings.TrimPrefix(tok, "v"))
		if err != nil {
			continue
		}
		return v.String(), true
	}
	return "", false
}

// Sort orders version strings ascending. Strings that do not parse sort
// first, lexically.
func Sort(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		va, errA := ParseVersion(a)
		vb, errB := ParseVersion(b)
		switch {
		case errA != nil && errB != nil:
			return strings.Compare(a, b)
		case errA != nil:
			return -1
		case errB != nil:
			return 1
		}
		return Compare(va, vb)
	})
}
