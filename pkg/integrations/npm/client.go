package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/offpack/pkg/buildinfo"
	"github.com/matzehuels/offpack/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// acceptHeader asks for the abbreviated install document and falls back to
// the full document on registries that do not serve it.
const acceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

// Options configures a Client.
type Options struct {
	// BaseURL is the registry root. Defaults to DefaultRegistry.
	BaseURL string
	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// Client fetches package documents from an npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultRegistry
	}
	return &Client{
		Client:  integrations.NewClient(opts.HTTPClient, map[string]string{"User-Agent": buildinfo.UserAgent()}),
		baseURL: base,
	}
}

// BaseURL returns the registry root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchDocument retrieves the metadata document for one package.
//
// Errors wrap integrations.ErrNotFound, integrations.ErrNetwork or
// integrations.ErrMalformed. A document that lists no versions is malformed.
func (c *Client) FetchDocument(ctx context.Context, name string) (*Document, error) {
	var raw json.RawMessage
	if err := c.GetWithHeaders(ctx, c.baseURL+"/"+EscapeName(name), map[string]string{"Accept": acceptHeader}, &raw); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s", err, name)
		}
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: npm package %s: %v", integrations.ErrMalformed, name, err)
	}
	if len(doc.Versions) == 0 {
		return nil, fmt.Errorf("%w: npm package %s has no versions", integrations.ErrMalformed, name)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	doc.Raw = raw
	return &doc, nil
}

// OpenTarball streams a distribution tarball. The caller must close the body.
func (c *Client) OpenTarball(ctx context.Context, tarballURL string) (io.ReadCloser, int64, error) {
	return c.Open(ctx, tarballURL)
}

// EscapeName escapes a package name for use as a registry path segment.
// Scoped names keep their "@" and encode the separator: "@scope%2fpkg".
func EscapeName(name string) string {
	if scope, pkg, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(scope, "@") {
		return "@" + url.PathEscape(scope[1:]) + "%2f" + url.PathEscape(pkg)
	}
	return url.PathEscape(name)
}
