package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/offpack/pkg/deps"
	"github.com/matzehuels/offpack/pkg/deps/javascript"
	errs "github.com/matzehuels/offpack/pkg/errors"
)

// inputOpts selects where root requests come from. Sources combine:
// positional arguments, a package list and a manifest.
type inputOpts struct {
	list     string // package list path, "-" for stdin
	manifest string // package.json or list path
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.list, "file", "f", "", `package list, one "name [range]" per line ("-" for stdin)`)
	cmd.Flags().StringVarP(&o.manifest, "manifest", "m", "", "package.json whose dependencies to resolve")
}

// requests collects root requests from args, the list and the manifest,
// in that order.
func (o *inputOpts) requests(args []string, stdin io.Reader) ([]deps.Request, error) {
	var out []deps.Request

	if len(args) > 0 {
		reqs, err := javascript.ParseList(strings.NewReader(strings.Join(args, "\n")))
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}

	if o.list != "" {
		reqs, err := readInput(o.list, stdin, javascript.TextList{}.Parse)
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}

	if o.manifest != "" {
		p, err := deps.DetectManifest(o.manifest, javascript.PackageJSON{}, javascript.TextList{})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "read %s", o.manifest)
		}
		reqs, err := readInput(o.manifest, stdin, p.Parse)
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}

	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no packages given (pass names, --file or --manifest)")
	}
	return out, nil
}

func readInput(path string, stdin io.Reader, parse func(io.Reader) ([]deps.Request, error)) ([]deps.Request, error) {
	if path == "-" {
		return parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	reqs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}
