// Package static installs the client-side loader and stylesheet into
// a site's static output tree.  The assets are compiled into the
// binary so a build never depends on files shipped next to it.
package static

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed assets/*
var assets embed.FS

// Files returns the names of the client assets that get installed.
func Files() []string {
	entries, _ := fs.ReadDir(assets, "assets")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

// Install writes the client assets into dir, creating it if needed.
// Existing files are overwritten so stale assets never outlive a
// build.
func Install(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return fs.WalkDir(assets, "assets", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assets.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, filepath.Base(p)), data, 0644)
	})
}
