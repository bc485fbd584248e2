package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/offpack/pkg/cache"
	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
	pkgio "github.com/matzehuels/offpack/pkg/io"
	"github.com/matzehuels/offpack/pkg/render/nodelink"
)

// Output formats for the resolve command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatGraph = "graph"
	formatDOT   = "dot"
	formatSVG   = "svg"
)

var formats = []string{formatTable, formatJSON, formatGraph, formatDOT, formatSVG}

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	inputOpts
	format          string // output format
	output          string // output file path (stdout if empty)
	includeOptional bool   // resolve unsatisfied optional dependencies
	strict          bool   // fail when any request is unresolved
	interactive     bool   // browse optional dependencies before writing
	detailed        bool   // detailed graph labels
}

func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{format: formatTable}

	cmd := &cobra.Command{
		Use:   "resolve [name[@range]...]",
		Short: "Resolve the dependency tree of npm packages",
		Long: `Resolve every version an installer would fetch for the given packages.

Each request is resolved to the highest published version satisfying its range.
When a range names an exact version as its first alternative ("1.2.3 || ^2"), that
version is resolved as well. Requests that cannot be resolved are reported and
never abort the run.

Examples:
  offpack resolve react@^18 react-dom@^18
  offpack resolve -m package.json --format json -o report.json
  offpack resolve -f packages.txt --format svg -o deps.svg
  offpack resolve sharp --interactive`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(formats, opts.format) {
				return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want %s)", opts.format, strings.Join(formats, ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.flushMetrics()
			return c.runResolve(cmd.Context(), opts, args, cmd.InOrStdin())
		},
	}

	opts.inputOpts.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.includeOptional, "include-optional", false, "also resolve unsatisfied optional dependencies")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with status 2 when any request is unresolved")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse and load optional dependencies before writing")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and install scripts in graph labels")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, opts resolveOpts, args []string, stdin io.Reader) error {
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
		logger.Warn("interrupted", "visited", res.Cache.Len())
		return res.Err
	}

	if opts.interactive {
		if res, err = c.browse(ctx, client, store, res); err != nil {
			return err
		}
	}

	if err := writeOutput(opts.output, func(w io.Writer) error {
		return writeResult(ctx, w, opts.format, res, opts.detailed)
	}); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Resolved %d versions of %d packages", res.Cache.Len(), len(res.Cache.Names()))
		printFile(opts.output)
	}

	return c.finish(ctx, res, opts.strict)
}

// resolve runs the resolver with a spinner, streaming progress and
// per-request failures as they happen.
func (c *CLI) resolve(ctx context.Context, client *npm.Client, store cache.Cache, reqs []deps.Request, includeOptional bool) *deps.Result {
	logger := loggerFromContext(ctx)
	events := make(chan deps.Event, 64)
	r := c.newResolver(client, store, events)

	spin := newSpinnerWithContext(ctx, "Resolving...")
	spin.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			switch e := ev.(type) {
			case deps.EventProgress:
				spin.SetMessage("Resolving... %d versions", len(e.Visited))
			case deps.EventError:
				logger.Warn("unresolved", "request", e.Err.Request, "from", e.Err.Requester, "err", e.Err.Err)
			}
		}
	}()

	prog := newProgress(logger)
	res := r.LoadAll(ctx, reqs)
	if includeOptional && res.Err == nil {
		more := deps.IncludeOptional(ctx, r, res.Cache)
		res.Errors = append(res.Errors, more.Errors...)
		res.Err = more.Err
	}
	close(events)
	wg.Wait()
	spin.Stop()

	prog.done("Resolved %d versions of %d packages", res.Cache.Len(), len(res.Cache.Names()))
	return res
}

// finish reports unresolved requests and install scripts.
func (c *CLI) finish(ctx context.Context, res *deps.Result, strict bool) error {
	logger := loggerFromContext(ctx)

	if scripts := deps.InstallScripts(res.Cache); len(scripts) > 0 {
		names := make([]string, len(scripts))
		for i, s := range scripts {
			names[i] = s.Package.String()
		}
		logger.Warn("packages run install scripts", "count", len(scripts), "packages", strings.Join(names, ", "))
	}

	if n := len(res.Errors); n > 0 {
		logger.Warnf("%d requests could not be resolved", n)
		if strict {
			return ErrUnresolved
		}
	}
	return nil
}

// writeResult encodes res in the given format.
func writeResult(ctx context.Context, w io.Writer, format string, res *deps.Result, detailed bool) error {
	switch format {
	case formatTable:
		return writePackageTable(w, deps.Packages(res.Cache))
	case formatJSON:
		return pkgio.WriteReport(pkgio.NewReport(res), w)
	case formatGraph:
		return pkgio.WriteJSON(deps.Graph(res.Cache), w)
	}

	dot := nodelink.ToDOT(deps.Graph(res.Cache), nodelink.Options{Detailed: detailed, RankByDepth: true})
	switch format {
	case formatDOT:
		_, err := io.WriteString(w, dot)
		return err
	case formatSVG:
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		_, err = w.Write(svg)
		return err
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
