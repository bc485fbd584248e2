package deps

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errNoSuchPackage = errors.New("no such package")

// fakeRegistry is an in-memory Fetcher that counts calls per name.
type fakeRegistry struct {
	mu    sync.Mutex
	docs  map[string]*Metadata
	fail  map[string]error
	calls map[string]int

	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	onFetch  func(name string)
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		docs:  make(map[string]*Metadata),
		fail:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// publish adds a version with the given dependencies.
func (f *fakeRegistry) publish(name, version string, deps ...Request) *VersionInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[name]
	if !ok {
		doc = &Metadata{Name: name, DistTags: map[string]string{}, Versions: map[string]*VersionInfo{}}
		f.docs[name] = doc
	}
	info := &VersionInfo{
		Version:      version,
		Dependencies: deps,
		Tarball:      "https://registry.test/" + name + "/-/" + name + "-" + version + ".tgz",
	}
	doc.Versions[version] = info
	doc.DistTags["latest"] = version
	return info
}

func (f *fakeRegistry) Fetch(ctx context.Context, name string) (*Metadata, error) {
	f.mu.Lock()
	f.calls[name]++
	hook := f.onFetch
	f.mu.Unlock()

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	if hook != nil {
		hook(name)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[name]; err != nil {
		return nil, err
	}
	doc, ok := f.docs[name]
	if !ok {
		return nil, errNoSuchPackage
	}
	return doc, nil
}

func (f *fakeRegistry) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func req(name, rng string) Request { return Request{Name: name, Range: rng} }

func pv(name, version string) PackageVersion {
	return PackageVersion{Name: name, Version: version}
}

// modes runs a subtest per concurrency mode.
var modes = []struct {
	name    string
	workers int
}{
	{"sequential", 1},
	{"concurrent", 8},
}
