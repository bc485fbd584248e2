package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/integrations"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

type fixture struct {
	srv    *httptest.Server
	client *npm.Client
	hits   atomic.Int32
	status atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code := f.status.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		io.WriteString(w, "tarball:"+r.URL.Path)
	}))
	t.Cleanup(f.srv.Close)
	f.client = npm.NewClient(npm.Options{BaseURL: f.srv.URL, HTTPClient: f.srv.Client()})
	return f
}

// resolved builds a cache where app@1.0.0 depends on two versions of lib.
func (f *fixture) resolved(t *testing.T) *deps.Cache {
	t.Helper()
	docs := map[string]*deps.Metadata{
		"app": {Name: "app", Raw: []byte(`{"name":"app"}`), Versions: map[string]*deps.VersionInfo{
			"1.0.0": {Version: "1.0.0", Tarball: f.srv.URL + "/app-1.0.0.tgz"},
		}},
		"@scope/lib": {Name: "@scope/lib", Versions: map[string]*deps.VersionInfo{
			"1.0.0": {Version: "1.0.0", Tarball: f.srv.URL + "/lib-1.0.0.tgz"},
			"2.0.0": {Version: "2.0.0", Tarball: f.srv.URL + "/lib-2.0.0.tgz"},
		}},
	}
	fetch := deps.FetcherFunc(func(ctx context.Context, name string) (*deps.Metadata, error) {
		return docs[name], nil
	})

	ctx := context.Background()
	c := deps.NewCache()
	app, err := c.GetOrFetch(ctx, "app", fetch)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := c.GetOrFetch(ctx, "@scope/lib", fetch)
	if err != nil {
		t.Fatal(err)
	}
	c.RecordEdge(app, "1.0.0", deps.Root())
	c.RecordEdge(lib, "2.0.0", deps.RequestedBy("app", "1.0.0"))
	c.RecordEdge(lib, "1.0.0", deps.Root())
	return c
}

func TestPlan(t *testing.T) {
	f := newFixture(t)
	got := Plan(f.resolved(t))
	want := []Item{
		{Package: deps.PackageVersion{Name: "app", Version: "1.0.0"}, Tarball: f.srv.URL + "/app-1.0.0.tgz"},
		{Package: deps.PackageVersion{Name: "@scope/lib", Version: "2.0.0"}, Tarball: f.srv.URL + "/lib-2.0.0.tgz"},
		{Package: deps.PackageVersion{Name: "@scope/lib", Version: "1.0.0"}, Tarball: f.srv.URL + "/lib-1.0.0.tgz"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	f := newFixture(t)
	c := f.resolved(t)

	var buf bytes.Buffer
	var last Progress
	var byteUpdates int
	err := New(f.client).Write(context.Background(), &buf, c, func(p Progress) {
		if p.Current > 0 {
			byteUpdates++
		}
		last = p
	})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if last.Done != 3 || last.Count != 3 {
		t.Errorf("final progress = %+v, want 3/3", last)
	}
	if byteUpdates == 0 {
		t.Error("expected byte progress updates")
	}

	files := readZip(t, buf.Bytes())
	var names []string
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	wantNames := []string{
		"@scope/lib/registry.json",
		"@scope/lib/versions/1.0.0.tgz",
		"@scope/lib/versions/2.0.0.tgz",
		"app/registry.json",
		"app/versions/1.0.0.tgz",
	}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}

	if got := files["app/registry.json"]; got != `{"name":"app"}` {
		t.Errorf("app/registry.json = %q, want the raw document", got)
	}
	if got := files["@scope/lib/registry.json"]; !strings.Contains(got, `"@scope/lib"`) {
		t.Errorf("@scope/lib/registry.json = %q, want encoded metadata", got)
	}
	if got := files["@scope/lib/versions/2.0.0.tgz"]; got != "tarball:/lib-2.0.0.tgz" {
		t.Errorf("tarball body = %q", got)
	}
}

func TestWriteMissingTarball(t *testing.T) {
	fetch := deps.FetcherFunc(func(ctx context.Context, name string) (*deps.Metadata, error) {
		return &deps.Metadata{Name: name, Versions: map[string]*deps.VersionInfo{"1.0.0": {Version: "1.0.0"}}}, nil
	})
	c := deps.NewCache()
	e, err := c.GetOrFetch(context.Background(), "bare", fetch)
	if err != nil {
		t.Fatal(err)
	}
	c.RecordEdge(e, "1.0.0", deps.Root())

	err = New(npm.NewClient(npm.Options{})).Write(context.Background(), io.Discard, c, nil)
	if !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Write() error = %v, want %s", err, errs.ErrCodeNotFound)
	}
}

func TestWriteNotFound(t *testing.T) {
	f := newFixture(t)
	f.status.Store(http.StatusNotFound)

	err := New(f.client).Write(context.Background(), io.Discard, f.resolved(t), nil)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Write() error = %v, want ErrNotFound", err)
	}
	if got := f.hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (not found is not retried)", got)
	}
}

func TestWriteCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(f.client).Write(ctx, io.Discard, f.resolved(t), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
	if got := f.hits.Load(); got != 0 {
		t.Errorf("server hits = %d, want 0", got)
	}
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(body)
	}
	return out
}
