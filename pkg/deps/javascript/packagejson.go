package javascript

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

// Section is one titled group of root requests read from a manifest.
type Section struct {
	Title    string
	Requests []deps.Request
}

type packageFile struct {
	Name                 string           `json:"name"`
	Version              string           `json:"version"`
	Dependencies         npm.Dependencies `json:"dependencies"`
	DevDependencies      npm.Dependencies `json:"devDependencies"`
	OptionalDependencies npm.Dependencies `json:"optionalDependencies"`
}

// ParseManifestSections reads the dependency sections of a package.json.
// Sections keep manifest order; empty sections are omitted.
func ParseManifestSections(r io.Reader) ([]Section, error) {
	var pkg packageFile
	if err := json.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, &MalformedInputError{Input: "package.json", Err: err}
	}

	var out []Section
	for _, s := range []struct {
		title string
		deps  npm.Dependencies
	}{
		{"Production dependencies", pkg.Dependencies},
		{"Development dependencies", pkg.DevDependencies},
		{"Optional dependencies", pkg.OptionalDependencies},
	} {
		if len(s.deps) == 0 {
			continue
		}
		sec := Section{Title: s.title}
		for _, d := range s.deps {
			if err := errs.ValidatePackageName(d.Name); err != nil {
				return nil, &MalformedInputError{Input: "package.json", Err: err}
			}
			rng := strings.TrimSpace(d.Range)
			if rng == "" {
				rng = "*"
			}
			sec.Requests = append(sec.Requests, deps.Request{Name: d.Name, Range: rng})
		}
		out = append(out, sec)
	}
	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "no dependencies found")
	}
	return out, nil
}

// ParseManifest reads a package.json and returns the requests of every
// section in order. Exact duplicates across sections are dropped.
func ParseManifest(r io.Reader) ([]deps.Request, error) {
	sections, err := ParseManifestSections(r)
	if err != nil {
		return nil, err
	}
	seen := make(map[deps.Request]bool)
	var out []deps.Request
	for _, s := range sections {
		for _, req := range s.Requests {
			if seen[req] {
				continue
			}
			seen[req] = true
			out = append(out, req)
		}
	}
	return out, nil
}

// FormatList renders sections as an editable package list that
// [ParseList] reads back.
func FormatList(sections []Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		var b strings.Builder
		b.WriteString("# " + s.Title)
		for _, req := range s.Requests {
			b.WriteString("\n" + req.Name + " " + req.Range)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// PackageJSON parses package.json manifests with [ParseManifest].
type PackageJSON struct{}

func (PackageJSON) Type() string              { return "package.json" }
func (PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (PackageJSON) Parse(r io.Reader) ([]deps.Request, error) { return ParseManifest(r) }
