package javascript

import (
	"context"

	"github.com/matzehuels/offpack/pkg/deps"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

// Fetcher adapts an npm registry client to [deps.Fetcher].
type Fetcher struct {
	client *npm.Client
}

// NewFetcher returns a Fetcher reading documents through c.
func NewFetcher(c *npm.Client) *Fetcher {
	return &Fetcher{client: c}
}

// Namespace identifies the registry in cache keys, so documents from
// different registries never collide.
func (f *Fetcher) Namespace() string {
	return "npm:" + f.client.BaseURL()
}

// Fetch retrieves and converts the registry document of name.
func (f *Fetcher) Fetch(ctx context.Context, name string) (*deps.Metadata, error) {
	doc, err := f.client.FetchDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return toMetadata(doc), nil
}

func toMetadata(doc *npm.Document) *deps.Metadata {
	m := &deps.Metadata{
		Name:     doc.Name,
		DistTags: doc.DistTags,
		Versions: make(map[string]*deps.VersionInfo, len(doc.Versions)),
		Raw:      doc.Raw,
	}
	for v, vd := range doc.Versions {
		m.Versions[v] = &deps.VersionInfo{
			Version:              v,
			Dependencies:         toRequests(vd.Dependencies),
			OptionalDependencies: toRequests(vd.OptionalDependencies),
			HasInstallScript:     vd.InstallScript(),
			Tarball:              vd.Dist.Tarball,
		}
	}
	return m
}

func toRequests(ds npm.Dependencies) []deps.Request {
	if len(ds) == 0 {
		return nil
	}
	out := make([]deps.Request, len(ds))
	for i, d := range ds {
		out[i] = deps.Request{Name: d.Name, Range: d.Range}
	}
	return out
}
