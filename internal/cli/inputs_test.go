package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
)

func TestRequestsCombinesSources(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "packages.txt")
	if err := os.WriteFile(list, []byte("# pinned\nlodash 4.17.21\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(dir, "package.json")
	if err := os.WriteFile(manifest, []byte(`{"dependencies": {"express": "^4.18.0"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := inputOpts{list: list, manifest: manifest}
	got, err := opts.requests([]string{"react@^18", "left-pad"}, nil)
	if err != nil {
		t.Fatalf("requests() error: %v", err)
	}

	want := []deps.Request{
		{Name: "react", Range: "^18"},
		{Name: "left-pad", Range: "*"},
		{Name: "lodash", Range: "4.17.21"},
		{Name: "express", Range: "^4.18.0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestsStdin(t *testing.T) {
	opts := inputOpts{list: "-"}
	got, err := opts.requests(nil, strings.NewReader("@types/node ^20\n"))
	if err != nil {
		t.Fatalf("requests() error: %v", err)
	}
	want := []deps.Request{{Name: "@types/node", Range: "^20"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts inputOpts
		args []string
		code errs.Code
	}{
		{"nothing", inputOpts{}, nil, errs.ErrCodeInvalidInput},
		{"missing list", inputOpts{list: filepath.Join(dir, "nope.txt")}, nil, errs.ErrCodeNotFound},
		{"unknown manifest", inputOpts{manifest: filepath.Join(dir, "Cargo.toml")}, nil, errs.ErrCodeInvalidManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.requests(tt.args, nil)
			if err == nil {
				t.Fatal("requests() should fail")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestRequestsInvalidName(t *testing.T) {
	opts := inputOpts{}
	if _, err := opts.requests([]string{"../etc/passwd"}, nil); err == nil {
		t.Error("requests() should reject invalid package names")
	}
}
