package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the subset of a registry package document used for resolution.
type Document struct {
	Name     string                    `json:"name"`
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]VersionDocument `json:"versions"`

	// Raw is the document body exactly as served.
	Raw json.RawMessage `json:"-"`
}

// VersionDocument describes one published version.
type VersionDocument struct {
	Version              string            `json:"version"`
	Dependencies         Dependencies      `json:"dependencies"`
	OptionalDependencies Dependencies      `json:"optionalDependencies"`
	HasInstallScript     bool              `json:"hasInstallScript"`
	Scripts              map[string]string `json:"scripts"`
	Dist                 Dist              `json:"dist"`
}

// Dist locates the distribution tarball.
type Dist struct {
	Tarball string `json:"tarball"`
	Shasum  string `json:"shasum,omitempty"`
}

// InstallScript reports whether installing this version runs a lifecycle
// script. Abbreviated documents carry hasInstallScript; full documents only
// carry the scripts map.
func (v VersionDocument) InstallScript() bool {
	if v.HasInstallScript {
		return true
	}
	for _, s := range []string{"preinstall", "install", "postinstall"} {
		if v.Scripts[s] != "" {
			return true
		}
	}
	return false
}

// Dependency is one declared name and range.
type Dependency struct {
	Name  string
	Range string
}

// Dependencies is a dependency map that keeps declaration order.
type Dependencies []Dependency

// Get returns the declared range for name.
func (d Dependencies) Get(name string) (string, bool) {
	for _, dep := range d {
		if dep.Name == name {
			return dep.Range, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object in key order. Entries whose value is
// not a string are dropped; legacy array forms decode as empty.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	*d = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("npm: unexpected dependency key %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		var rng string
		if json.Unmarshal(val, &rng) != nil {
			continue
		}
		*d = append(*d, Dependency{Name: key, Range: rng})
	}
	return nil
}

// MarshalJSON encodes the dependencies as an object in declaration order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(dep.Name)
		v, _ := json.Marshal(dep.Range)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
