package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/offpack/pkg/bundle"
)

// downloadOpts holds the command-line flags for the download command.
type downloadOpts struct {
	inputOpts
	output          string
	includeOptional bool
	strict          bool
}

func (c *CLI) downloadCommand() *cobra.Command {
	opts := downloadOpts{output: "packages.zip"}

	cmd := &cobra.Command{
		Use:   "download [name[@range]...]",
		Short: "Resolve packages and bundle their tarballs into a zip archive",
		Long: `Resolve packages like "offpack resolve" and download every resolved version.

The archive holds, per package, the registry document and one tarball per version:

  lodash/registry.json
  lodash/versions/4.17.21.tgz

Examples:
  offpack download express@^4 -o express.zip
  offpack download -m package.json --include-optional`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.flushMetrics()
			return c.runDownload(cmd.Context(), opts, args, cmd.InOrStdin())
		},
	}

	opts.inputOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "archive path")
	cmd.Flags().BoolVar(&opts.includeOptional, "include-optional", false, "also resolve unsatisfied optional dependencies")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "do not download when any request is unresolved")

	return cmd
}

func (c *CLI) runDownload(ctx context.Context, opts downloadOpts, args []string, stdin io.Reader) error {
	logger := loggerFromContext(ctx)

	reqs, err := opts.requests(args, stdin)
	if err != nil {
		return err
	}

	client := c.newClient()
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	res := c.resolve(ctx, client, store, reqs, opts.includeOptional)
	if res.Err != nil {
		return res.Err
	}
	if err := c.finish(ctx, res, opts.strict); err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Downloading...")
	spin.Start()
	err = writeArchive(opts.output, func(w io.Writer) error {
		return bundle.New(client).Write(ctx, w, res.Cache, func(p bundle.Progress) {
			spin.SetMessage("Downloading %s (%d/%d) %s", p.Package, p.Done, p.Count, formatBytes(p.Current, p.Total))
		})
	})
	if err != nil {
		spin.StopWithError("Download failed")
		return err
	}
	spin.Stop()

	prog.done("Downloaded %d versions", res.Cache.Len())
	printSuccess("Bundled %d versions of %d packages", res.Cache.Len(), len(res.Cache.Names()))
	if n := len(res.Errors); n > 0 {
		printWarning("%d unresolved requests are missing from the archive", n)
	}
	printFile(opts.output)
	return nil
}

// writeArchive writes to a temporary file next to path and renames it on
// success, so an interrupted download never leaves a truncated archive.
func writeArchive(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.partial")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// formatBytes renders a byte count, with the total when known.
func formatBytes(cur, total int64) string {
	switch {
	case total > 0:
		return humanize.IBytes(uint64(cur)) + " / " + humanize.IBytes(uint64(total))
	case cur > 0:
		return humanize.IBytes(uint64(cur))
	}
	return ""
}
