// Package manifest produces the lookup file the browser loader uses
// to resolve a notebook name to its exported bundle.  The manifest is
// written once per build and fetched by the client at view time; it
// never contains an entry for a failed export.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manifest maps notebook names to bundle URLs relative to the static
// asset root, with a small envelope identifying the build that
// produced it.
type Manifest struct {
	BuildID     string            `json:"build_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Count       int               `json:"count"`
	Notebooks   map[string]string `json:"notebooks"`
}

// New returns an empty manifest stamped for the current build.
func New() *Manifest {
	return &Manifest{
		BuildID:     uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Notebooks:   make(map[string]string),
	}
}

// Add records a successfully exported notebook.
func (m *Manifest) Add(name, url string) {
	if _, ok := m.Notebooks[name]; !ok {
		m.Count++
	}
	m.Notebooks[name] = url
}

// Has reports whether a notebook name is present.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Notebooks[name]
	return ok
}

// WriteFile serializes the manifest to path, creating parent
// directories as needed.
func (m *Manifest) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Load reads a manifest back from disk.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := new(Manifest)
	if err := json.NewDecoder(f).Decode(m); err != nil {
		return nil, err
	}
	if m.Notebooks == nil {
		m.Notebooks = make(map[string]string)
	}
	return m, nil
}
