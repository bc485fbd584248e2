package prom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/offpack/pkg/observability"
)

func TestMetricsRecordResolveEvents(t *testing.T) {
	ctx := context.Background()
	m := New()

	m.OnFetchComplete(ctx, "a", 10*time.Millisecond, nil)
	m.OnFetchComplete(ctx, "b", 10*time.Millisecond, errors.New("boom"))
	m.OnVisit(ctx, "a", "1.0.0")
	m.OnVisit(ctx, "a", "1.1.0")
	m.OnRequestError(ctx, "b", "^1", errors.New("boom"))

	if got := testutil.ToFloat64(m.fetchTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("fetch ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fetchTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("fetch error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.visitedTotal); got != 2 {
		t.Errorf("visited = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestErrors); got != 1 {
		t.Errorf("request errors = %v, want 1", got)
	}
}

func TestMetricsRecordCacheAndHTTP(t *testing.T) {
	ctx := context.Background()
	m := New()

	m.OnCacheHit(ctx, "registry")
	m.OnCacheMiss(ctx, "registry")
	m.OnCacheMiss(ctx, "registry")
	m.OnCacheSet(ctx, "registry", 512)
	m.OnResponse(ctx, "GET", "registry.npmjs.org", "/a", 200, time.Millisecond)
	m.OnError(ctx, "GET", "registry.npmjs.org", "/a", errors.New("reset"))

	if got := testutil.ToFloat64(m.cacheMisses.WithLabelValues("registry")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("registry")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("registry.npmjs.org", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpErrors.WithLabelValues("registry.npmjs.org")); got != 1 {
		t.Errorf("http errors = %v, want 1", got)
	}
}

func TestRegisterInstallsGlobalHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	m := New()
	m.Register()

	if observability.Resolve() != m {
		t.Error("Resolve() should return registered metrics")
	}
	if observability.HTTP() != m {
		t.Error("HTTP() should return registered metrics")
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.OnVisit(context.Background(), "a", "1.0.0")

	path := filepath.Join(t.TempDir(), "offpack.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "offpack_resolver_visited_versions_total 1") {
		t.Errorf("textfile missing visited counter:\n%s", data)
	}
}
