package javascript

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/offpack/pkg/deps"
	"github.com/matzehuels/offpack/pkg/integrations"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

const sharpDoc = `{
  "name": "sharp",
  "dist-tags": {"latest": "0.33.1"},
  "versions": {
    "0.33.0": {
      "version": "0.33.0",
      "dependencies": {"semver": "^7.5.4", "color": "^4.2.3"},
      "scripts": {"install": "node install/check"},
      "dist": {"tarball": "https://registry.test/sharp/-/sharp-0.33.0.tgz"}
    },
    "0.33.1": {
      "version": "0.33.1",
      "dependencies": {"semver": "^7.5.4", "color": "^4.2.3", "@img/sharp-wasm32": "0.33.1"},
      "optionalDependencies": {"@img/sharp-wasm32": "0.33.1"},
      "dist": {"tarball": "https://registry.test/sharp/-/sharp-0.33.1.tgz"}
    }
  }
}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFetcher(npm.NewClient(npm.Options{BaseURL: srv.URL, HTTPClient: srv.Client()}))
}

func TestFetcherConvertsDocument(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sharpDoc)
	})

	m, err := f.Fetch(context.Background(), "sharp")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if diff := cmp.Diff([]string{"0.33.0", "0.33.1"}, m.Published()); diff != "" {
		t.Errorf("published mismatch (-want +got):\n%s", diff)
	}
	if m.DistTags["latest"] != "0.33.1" {
		t.Errorf("latest = %q", m.DistTags["latest"])
	}
	if len(m.Raw) == 0 {
		t.Error("Raw should be carried over")
	}

	old := m.Versions["0.33.0"]
	if !old.HasInstallScript {
		t.Error("0.33.0 declares an install script")
	}
	wantDeps := []deps.Request{{Name: "semver", Range: "^7.5.4"}, {Name: "color", Range: "^4.2.3"}}
	if diff := cmp.Diff(wantDeps, old.Dependencies); diff != "" {
		t.Errorf("dependency order mismatch (-want +got):\n%s", diff)
	}

	cur := m.Versions["0.33.1"]
	if cur.HasInstallScript {
		t.Error("0.33.1 has no install script")
	}
	if cur.Tarball != "https://registry.test/sharp/-/sharp-0.33.1.tgz" {
		t.Errorf("tarball = %q", cur.Tarball)
	}
	if diff := cmp.Diff(wantDeps, cur.Required()); diff != "" {
		t.Errorf("optional with identical range should be suppressed (-want +got):\n%s", diff)
	}
}

func TestFetcherNotFound(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := f.Fetch(context.Background(), "missing")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Fetch() error = %v, want ErrNotFound", err)
	}
}

func TestFetcherNamespace(t *testing.T) {
	a := NewFetcher(npm.NewClient(npm.Options{}))
	b := NewFetcher(npm.NewClient(npm.Options{BaseURL: "http://localhost:4873"}))
	if a.Namespace() == b.Namespace() {
		t.Errorf("registries share namespace %q", a.Namespace())
	}
	if a.Namespace() != "npm:"+npm.DefaultRegistry {
		t.Errorf("Namespace() = %q", a.Namespace())
	}
}

func TestFetcherResolves(t *testing.T) {
	docs := map[string]string{
		"/app": `{"name":"app","versions":{"1.0.0":{"dependencies":{"lib":"^2.0.0"},"dist":{"tarball":"t"}}}}`,
		"/lib": `{"name":"lib","versions":{"2.0.0":{"dist":{"tarball":"t"}},"2.1.0":{"dist":{"tarball":"t"}}}}`,
	}
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	})

	res := deps.NewResolver(f, deps.Options{Workers: 1}).LoadAll(context.Background(),
		[]deps.Request{{Name: "app", Range: "1"}})
	if res.Err != nil || len(res.Errors) != 0 {
		t.Fatalf("LoadAll() err = %v, errors = %v", res.Err, res.Errors)
	}
	want := []deps.PackageVersion{{Name: "app", Version: "1.0.0"}, {Name: "lib", Version: "2.1.0"}}
	if diff := cmp.Diff(want, res.Cache.Visited()); diff != "" {
		t.Errorf("visited mismatch (-want +got):\n%s", diff)
	}
}
