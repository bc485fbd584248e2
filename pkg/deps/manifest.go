package deps

import (
	"io"
	"path/filepath"

	errs "github.com/matzehuels/offpack/pkg/errors"
)

// ManifestParser reads root requests from a local input file.
type ManifestParser interface {
	// Parse reads the input and returns the root requests in file order.
	Parse(r io.Reader) ([]Request, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the input type identifier (e.g., "package.json", "list").
	Type() string
}

// DetectManifest finds a parser that supports the given file path.
// Hidden files and paths without a file name are rejected; so is a file
// no parser supports.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	if err := errs.ValidateManifestFilename(name); err != nil {
		return nil, err
	}
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errs.New(errs.ErrCodeInvalidManifest, "unsupported manifest: %s", name)
}
