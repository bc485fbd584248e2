package deps_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/offpack/pkg/deps"
)

func ExampleResolver_LoadAll() {
	registry := map[string]*deps.Metadata{
		"a": {Name: "a", Versions: map[string]*deps.VersionInfo{
			"1.0.0": {Version: "1.0.0", Dependencies: []deps.Request{{Name: "b", Range: "^2.0.0"}}},
			"1.5.0": {Version: "1.5.0", Dependencies: []deps.Request{{Name: "b", Range: "^2.0.0"}}},
		}},
		"b": {Name: "b", Versions: map[string]*deps.VersionInfo{
			"2.0.0": {Version: "2.0.0"},
			"2.1.0": {Version: "2.1.0"},
		}},
	}
	fetch := deps.FetcherFunc(func(_ context.Context, name string) (*deps.Metadata, error) {
		return registry[name], nil
	})

	r := deps.NewResolver(fetch, deps.Options{Workers: 1})
	res := r.LoadAll(context.Background(), []deps.Request{{Name: "a", Range: "^1.0.0"}})

	for _, p := range deps.Packages(res.Cache) {
		fmt.Println(p.Package, "<-", p.DependedBy)
	}
	// Output:
	// a@1.5.0 <- [root]
	// b@2.1.0 <- [a@1.5.0]
}

func ExampleOptionalDependencies() {
	registry := map[string]*deps.Metadata{
		"watcher": {Name: "watcher", Versions: map[string]*deps.VersionInfo{
			"3.0.0": {
				Version:              "3.0.0",
				OptionalDependencies: []deps.Request{{Name: "fsevents", Range: "^2.3.2"}},
			},
		}},
	}
	fetch := deps.FetcherFunc(func(_ context.Context, name string) (*deps.Metadata, error) {
		return registry[name], nil
	})

	res := deps.NewResolver(fetch, deps.Options{}).
		LoadAll(context.Background(), []deps.Request{{Name: "watcher"}})

	for _, opt := range deps.OptionalDependencies(res.Cache) {
		fmt.Println(opt.Request, "from", opt.From, "satisfied:", opt.Satisfied)
	}
	// Output:
	// fsevents@^2.3.2 from watcher@3.0.0 satisfied: false
}
