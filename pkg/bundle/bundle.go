package bundle

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/httputil"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

// Item is one tarball to download.
type Item struct {
	Package deps.PackageVersion
	Tarball string
}

// Progress reports the state of a bundle write. Current and Total count
// bytes of the tarball being copied; Total is -1 when the server does not
// advertise a length. Done counts finished items out of Count.
type Progress struct {
	Package deps.PackageVersion
	Current int64
	Total   int64
	Done    int
	Count   int
}

// Plan lists every visited version of c in visit order.
func Plan(c *deps.Cache) []Item {
	visited := c.Visited()
	items := make([]Item, 0, len(visited))
	for _, pv := range visited {
		e, _ := c.Entry(pv.Name)
		var tarball string
		if info := e.Metadata().Versions[pv.Version]; info != nil {
			tarball = info.Tarball
		}
		items = append(items, Item{Package: pv, Tarball: tarball})
	}
	return items
}

// Bundler writes resolved packages into a zip archive.
type Bundler struct {
	client   *npm.Client
	attempts int
	delay    time.Duration
}

// New returns a Bundler downloading through c. Opening a tarball is
// retried on transient failures.
func New(c *npm.Client) *Bundler {
	return &Bundler{client: c, attempts: httputil.DefaultAttempts, delay: httputil.DefaultDelay}
}

// Write downloads every planned tarball sequentially and writes the
// archive to w. For each package it stores name/registry.json, the
// registry document as served, and name/versions/<version>.tgz per
// visited version. progress may be nil.
//
// The archive is only valid when Write returns nil.
func (b *Bundler) Write(ctx context.Context, w io.Writer, c *deps.Cache, progress func(Progress)) error {
	if progress == nil {
		progress = func(Progress) {}
	}
	items := Plan(c)
	zw := zip.NewWriter(w)
	written := make(map[string]bool)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := item.Package.Name
		if !written[name] {
			e, _ := c.Entry(name)
			if err := writeDocument(zw, name, e.Metadata()); err != nil {
				return err
			}
			written[name] = true
		}

		report := func(cur, total int64) {
			progress(Progress{Package: item.Package, Current: cur, Total: total, Done: i, Count: len(items)})
		}
		if err := b.writeTarball(ctx, zw, item, report); err != nil {
			return fmt.Errorf("download %s: %w", item.Package, err)
		}
		progress(Progress{Package: item.Package, Done: i + 1, Count: len(items)})
	}
	return zw.Close()
}

func writeDocument(zw *zip.Writer, name string, meta *deps.Metadata) error {
	raw := []byte(meta.Raw)
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(meta); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
	}
	f, err := create(zw, name+"/registry.json")
	if err != nil {
		return err
	}
	_, err = f.Write(raw)
	return err
}

func (b *Bundler) writeTarball(ctx context.Context, zw *zip.Writer, item Item, report func(cur, total int64)) error {
	if item.Tarball == "" {
		return errs.New(errs.ErrCodeNotFound, "no tarball published for %s", item.Package)
	}

	var (
		body  io.ReadCloser
		total int64
	)
	err := httputil.Retry(ctx, b.attempts, b.delay, func() error {
		var err error
		body, total, err = b.client.OpenTarball(ctx, item.Tarball)
		return err
	})
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := create(zw, item.Package.Name+"/versions/"+item.Package.Version+".tgz")
	if err != nil {
		return err
	}
	report(0, total)
	_, err = io.Copy(f, &countingReader{r: body, total: total, report: report})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ctx.Err()
	}
	return err
}

func create(zw *zip.Writer, path string) (io.Writer, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	return zw.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Store,
		Modified: time.Now(),
	})
}

type countingReader struct {
	r      io.Reader
	n      int64
	total  int64
	report func(cur, total int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.n += int64(n)
		c.report(c.n, c.total)
	}
	return n, err
}
