package site

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFileName is written into the output directory root.
const ManifestFileName = "manifest.json"

// Manifest records what a build produced: a content hash per emitted route.
// Because the builder sorts every collection before emission, rebuilding
// unchanged inputs yields an identical manifest, which is how idempotence
// is verified.
type Manifest struct {
	Generator string            `json:"generator"`
	Routes    map[string]string `json:"routes"` // route -> sha256 of the page
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Generator: "docsmith",
		Routes:    make(map[string]string),
	}
}

// Record hashes page content under its route.
func (m *Manifest) Record(route string, pageContent []byte) {
	sum := sha256.Sum256(pageContent)
	m.Routes[route] = hex.EncodeToString(sum[:])
}

// WriteTo serializes the manifest into dir. encoding/json emits map keys in
// sorted order, so the file itself is deterministic.
func (m *Manifest) WriteTo(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode build manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write build manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest back from an output directory.
func LoadManifest(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read build manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse build manifest: %w", err)
	}
	return &m, nil
}

// Equal reports whether two manifests describe byte-identical builds.
func (m *Manifest) Equal(other *Manifest) bool {
	if len(m.Routes) != len(other.Routes) {
		return false
	}
	for route, hash := range m.Routes {
		if other.Routes[route] != hash {
			return false
		}
	}
	return true
}
