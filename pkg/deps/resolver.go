package deps

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/offpack/pkg/semver"
)

// Resolver walks requested ranges to concrete versions, recording who
// requested each version in a Cache.
//
// Selection is greedy and per requester: every request gets the highest
// published version satisfying its range. When the range also names an
// exact published version (see semver.ExactPin) that differs, that version
// is visited as well.
type Resolver struct {
	fetcher Fetcher
	opts    Options
}

// NewResolver creates a Resolver that fetches metadata through f.
func NewResolver(f Fetcher, opts Options) *Resolver {
	return &Resolver{fetcher: f, opts: opts.WithDefaults()}
}

// Event is a resolution notification sent on Options.Events.
type Event interface{ isEvent() }

// EventProgress is sent each time a (name, version) pair is first visited.
// Visited is a consistent snapshot of every pair visited so far.
type EventProgress struct {
	Visited []PackageVersion
}

// EventError is sent each time a request could not be resolved.
type EventError struct {
	Err *RequestError
}

func (EventProgress) isEvent() {}
func (EventError) isEvent()    {}

// Result is the outcome of a run.
type Result struct {
	// Cache holds everything that was resolved, including after failures.
	Cache *Cache
	// Errors lists every request that could not be resolved.
	Errors []*RequestError
	// Err is set when the run was cut short by its context.
	Err error
}

// LoadAll resolves requests from the root into a fresh cache.
func (r *Resolver) LoadAll(ctx context.Context, requests []Request) *Result {
	return r.Resolve(ctx, Root(), requests, NewCache())
}

// Resolve resolves requests on behalf of requester into cache, recursing
// into the dependencies of every newly visited version.
//
// A failing request never aborts the run: it is recorded in Result.Errors
// and its siblings proceed. If ctx is cancelled, Resolve stops scheduling
// work, waits for in-flight fetches and returns the partial cache with
// Result.Err set.
//
// Resolve panics if cache is nil or requester is invalid.
func (r *Resolver) Resolve(ctx context.Context, requester Requester, requests []Request, cache *Cache) *Result {
	if cache == nil {
		panic("deps: Resolve with nil cache")
	}
	if !requester.Valid() {
		panic("deps: Resolve with invalid requester")
	}

	run := &run{
		ctx:    ctx,
		opts:   r.opts,
		fetch:  r.fetcher,
		cache:  cache,
		failed: make(map[string]error),
	}
	if r.opts.Workers > 1 {
		run.sem = semaphore.NewWeighted(int64(r.opts.Workers))
	}

	run.resolveList(requester, requests)
	run.wg.Wait()

	return &Result{Cache: cache, Errors: run.errs, Err: ctx.Err()}
}

type run struct {
	ctx   context.Context
	opts  Options
	fetch Fetcher
	cache *Cache

	// sem bounds concurrent fetches; nil means sequential.
	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu     sync.Mutex
	errs   []*RequestError
	failed map[string]error
}

func (r *run) resolveList(requester Requester, requests []Request) {
	for _, req := range requests {
		if r.ctx.Err() != nil {
			return
		}
		if r.sem == nil {
			r.resolveOne(requester, req)
			continue
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.resolveOne(requester, req)
		}()
	}
}

func (r *run) resolveOne(requester Requester, req Request) {
	entry, err := r.entry(req.Name)
	if err != nil {
		r.report(requester, req, err)
		return
	}

	candidates, err := targets(entry.Metadata(), req)
	if err != nil {
		r.report(requester, req, err)
		return
	}

	for _, version := range candidates {
		if !r.cache.RecordEdge(entry, version, requester) {
			continue
		}
		r.opts.Hooks.OnVisit(r.ctx, req.Name, version)
		r.emit(EventProgress{Visited: r.cache.Visited()})

		if info := entry.Metadata().Versions[version]; info != nil {
			r.resolveList(RequestedBy(req.Name, version), info.Required())
		}
	}
}

// entry fetches through the cache.
func (r *run) entry(name string) (*Entry, error) {
	return r.cache.GetOrFetch(r.ctx, name, FetcherFunc(r.fetchOne))
}

// fetchOne runs inside the cache's per-name single flight. A name that
// failed once is not fetched again within the same run; the failure is
// memoized before the flight completes so later callers always see it.
func (r *run) fetchOne(ctx context.Context, name string) (*Metadata, error) {
	r.mu.Lock()
	err, failed := r.failed[name]
	r.mu.Unlock()
	if failed {
		return nil, err
	}

	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return nil, &RegistryError{Name: name, Err: err}
		}
		defer r.sem.Release(1)
	}

	r.opts.Hooks.OnFetchStart(ctx, name)
	start := time.Now()
	meta, err := r.fetch.Fetch(ctx, name)
	r.opts.Hooks.OnFetchComplete(ctx, name, time.Since(start), err)
	if err != nil {
		regErr := &RegistryError{Name: name, Err: err}
		if ctx.Err() == nil {
			r.mu.Lock()
			r.failed[name] = regErr
			r.mu.Unlock()
		}
		return nil, regErr
	}
	return meta, nil
}

// report records a failed request. Failures caused by cancellation are
// dropped; Result.Err carries them.
func (r *run) report(requester Requester, req Request, err error) {
	if r.ctx.Err() != nil {
		return
	}
	re := &RequestError{Request: req, Requester: requester, Err: err}

	r.mu.Lock()
	r.errs = append(r.errs, re)
	r.mu.Unlock()

	r.opts.Hooks.OnRequestError(r.ctx, req.Name, req.Range, err)
	r.opts.Logger("resolve failed: %s: %v", req, err)
	r.emit(EventError{Err: re})
}

func (r *run) emit(ev Event) {
	if r.opts.Events == nil {
		return
	}
	select {
	case r.opts.Events <- ev:
	case <-r.ctx.Done():
	}
}

// targets returns the versions a request selects: the highest satisfying
// version, then the range's exact pin when it is published and differs.
func targets(meta *Metadata, req Request) ([]string, error) {
	raw := strings.TrimSpace(req.Range)

	rng, err := semver.ParseRange(raw)
	if err != nil {
		if tagged, ok := meta.DistTags[raw]; ok {
			if _, ok := meta.Versions[tagged]; ok {
				return []string{tagged}, nil
			}
		}
		return nil, &UnsatisfiableRangeError{Name: req.Name, Range: req.Range, Err: err}
	}

	best, ok := semver.MaxSatisfying(rng, meta.Published())
	if !ok {
		return nil, &UnsatisfiableRangeError{Name: req.Name, Range: req.Range}
	}
	out := []string{best}
	if pin, ok := semver.ExactPin(raw); ok && pin != best {
		if _, published := meta.Versions[pin]; published {
			out = append(out, pin)
		}
	}
	return out, nil
}
