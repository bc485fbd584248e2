package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// testDocs is a small registry: app depends on lib and optionally on
// native, which runs an install script.
var testDocs = map[string]string{
	"app": `{
  "name": "app",
  "dist-tags": {"latest": "1.1.0"},
  "versions": {
    "1.0.0": {"version": "1.0.0", "dependencies": {"lib": "^1.0.0"}, "dist": {"tarball": "{{url}}/app/-/app-1.0.0.tgz"}},
    "1.1.0": {
      "version": "1.1.0",
      "dependencies": {"lib": "^1.0.0"},
      "optionalDependencies": {"native": "^2.0.0"},
      "dist": {"tarball": "{{url}}/app/-/app-1.1.0.tgz"}
    }
  }
}`,
	"lib": `{
  "name": "lib",
  "dist-tags": {"latest": "1.2.0"},
  "versions": {
    "1.0.0": {"version": "1.0.0", "dist": {"tarball": "{{url}}/lib/-/lib-1.0.0.tgz"}},
    "1.2.0": {"version": "1.2.0", "dist": {"tarball": "{{url}}/lib/-/lib-1.2.0.tgz"}}
  }
}`,
	"native": `{
  "name": "native",
  "dist-tags": {"latest": "2.0.1"},
  "versions": {
    "2.0.1": {"version": "2.0.1", "scripts": {"install": "node-gyp rebuild"}, "dist": {"tarball": "{{url}}/native/-/native-2.0.1.tgz"}}
  }
}`,
}

// newTestRegistry serves testDocs and a tarball for every ".tgz" path.
func newTestRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if strings.HasSuffix(path, ".tgz") {
			io.WriteString(w, "tarball:"+path)
			return
		}
		doc, ok := testDocs[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, strings.ReplaceAll(doc, "{{url}}", srv.URL))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestCLI returns a CLI pointed at srv with caching disabled, and a
// context carrying its logger.
func newTestCLI(t *testing.T, srv *httptest.Server) (*CLI, context.Context, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, log.WarnLevel)
	c.cfg.Registry = srv.URL
	c.cfg.Cache.Backend = backendNone
	c.cfg.Retries = 1
	return c, withLogger(context.Background(), c.Logger), &logs
}
