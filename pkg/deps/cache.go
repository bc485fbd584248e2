package deps

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is the resolution state of one run: per package name, the fetched
// metadata and, for every visited version, the requesters that chose it.
//
// A Cache grows monotonically. Names are added once, versions once per name,
// and requester lists only ever get appended to. It is safe for concurrent
// use by the goroutines of a single run; use Clone to hand a copy to a
// follow-up run while the original is still being read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
	pairs   int

	group singleflight.Group
}

// Entry holds one package's metadata and its visited versions.
type Entry struct {
	mu         *sync.RWMutex
	name       string
	meta       *Metadata
	versions   []string
	dependedBy map[string][]Requester
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

var errNilMetadata = errors.New("fetcher returned nil metadata")

// GetOrFetch returns the entry for name, calling f only if the name is not
// cached yet. Concurrent callers for the same uncached name share a single
// call to f. Failed fetches leave the cache unchanged.
func (c *Cache) GetOrFetch(ctx context.Context, name string, f Fetcher) (*Entry, error) {
	if e, ok := c.Entry(name); ok {
		return e, nil
	}
	v, err, _ := c.group.Do(name, func() (any, error) {
		if e, ok := c.Entry(name); ok {
			return e, nil
		}
		meta, err := f.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		if meta == nil {
			return nil, errNilMetadata
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		e := &Entry{mu: &c.mu, name: name, meta: meta, dependedBy: make(map[string][]Requester)}
		c.entries[name] = e
		c.order = append(c.order, name)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

// RecordEdge records that requester chose version of e's package. It
// reports true exactly once per (name, version): for the caller that
// created the version's requester list. Every other caller only appends.
//
// RecordEdge panics on a nil entry, an empty version or an invalid
// requester.
func (c *Cache) RecordEdge(e *Entry, version string, requester Requester) bool {
	if e == nil {
		panic("deps: RecordEdge on nil entry")
	}
	if version == "" {
		panic("deps: RecordEdge with empty version")
	}
	if !requester.Valid() {
		panic("deps: RecordEdge with invalid requester")
	}
	if e.mu != &c.mu {
		panic("deps: RecordEdge with entry from another cache")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if list, ok := e.dependedBy[version]; ok {
		e.dependedBy[version] = append(list, requester)
		return false
	}
	e.dependedBy[version] = []Requester{requester}
	e.versions = append(e.versions, version)
	c.pairs++
	return true
}

// Entry returns the entry for name.
func (c *Cache) Entry(name string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the cached package names in the order they were fetched.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Len returns the number of visited (name, version) pairs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pairs
}

// Visited returns every visited (name, version) pair, ordered by name
// fetch order, then by the order versions were first visited. The snapshot
// is taken atomically.
func (c *Cache) Visited() []PackageVersion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PackageVersion, 0, c.pairs)
	for _, name := range c.order {
		for _, v := range c.entries[name].versions {
			out = append(out, PackageVersion{Name: name, Version: v})
		}
	}
	return out
}

// Clone returns an independent copy. Metadata is shared; requester lists
// are copied, so resolving into the clone never changes c.
func (c *Cache) Clone() *Cache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := &Cache{
		entries: make(map[string]*Entry, len(c.entries)),
		order:   slices.Clone(c.order),
		pairs:   c.pairs,
	}
	for name, e := range c.entries {
		dep := make(map[string][]Requester, len(e.dependedBy))
		for v, list := range e.dependedBy {
			dep[v] = slices.Clone(list)
		}
		out.entries[name] = &Entry{
			mu:         &out.mu,
			name:       e.name,
			meta:       e.meta,
			versions:   slices.Clone(e.versions),
			dependedBy: dep,
		}
	}
	return out
}

// Name returns the package name the entry was requested as.
func (e *Entry) Name() string { return e.name }

// Metadata returns the fetched catalog.
func (e *Entry) Metadata() *Metadata { return e.meta }

// Versions returns the visited versions in first-visit order.
func (e *Entry) Versions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.versions)
}

// DependedBy returns the requesters of version, or nil if it was never
// visited.
func (e *Entry) DependedBy(version string) []Requester {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.dependedBy[version])
}

// Visited reports whether version has been visited.
func (e *Entry) Visited(version string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.dependedBy[version]
	return ok
}
