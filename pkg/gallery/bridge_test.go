package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marimo-docs/embedder/pkg/config"
	"github.com/marimo-docs/embedder/pkg/exporter"
)

// fakeConverter stands in for the external tool: conversion copies
// the file, export writes a stub bundle, and names listed in fail
// produce export failures.
type fakeConverter struct {
	fail map[string]bool

	converted []string
	exported  []string
}

func (f *fakeConverter) Convert(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	f.converted = append(f.converted, filepath.Base(src))
	return os.WriteFile(dst, data, 0644)
}

func (f *fakeConverter) ExportNamed(src, outDir, name string) *exporter.Result {
	res := &exporter.Result{Source: src, OutputDir: outDir}
	if f.fail[name] {
		res.Diagnostic = "export blew up"
		return res
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		res.Diagnostic = err.Error()
		return res
	}
	out := filepath.Join(outDir, name+".html")
	if err := os.WriteFile(out, []byte("<html>"+name+"</html>"), 0644); err != nil {
		res.Diagnostic = err.Error()
		return res
	}
	f.exported = append(f.exported, name)
	res.OutputFile = out
	res.OK = true
	return res
}

// gallerySite fabricates the output tree the gallery collaborator
// would have produced.
func gallerySite(t *testing.T, notebooks ...string) string {
	t.Helper()
	out := t.TempDir()
	for _, nb := range notebooks {
		ip := filepath.Join(out, "_downloads", "a1b2", nb+".ipynb")
		require.NoError(t, os.MkdirAll(filepath.Dir(ip), 0755))
		require.NoError(t, os.WriteFile(ip, []byte(`{"cells": []}`), 0644))

		page := filepath.Join(out, "auto_examples", nb+".html")
		require.NoError(t, os.MkdirAll(filepath.Dir(page), 0755))
		require.NoError(t, os.WriteFile(page, []byte(samplePage), 0644))
	}
	return out
}

func galleryConfig() *config.Config {
	cfg := config.Default()
	cfg.Gallery = &config.GalleryConfig{
		DownloadsDir: "_downloads",
		GalleryDirs:  []string{"auto_examples"},
	}
	return cfg
}

func TestBridgeInactiveWithoutGalleryConfig(t *testing.T) {
	b := New(WithConfig(config.Default()), WithConverter(&fakeConverter{}), WithOutputRoot(t.TempDir()))

	require.False(t, b.Active())
	require.NoError(t, b.ConvertAll())
	require.Empty(t, b.Descriptors())

	_, ok := b.NotebookInfoFor("auto_examples/plot_x.html")
	require.False(t, ok)
}

func TestBridgeConvertsGalleryNotebooks(t *testing.T) {
	out := gallerySite(t, "plot_x", "plot_y")
	conv := &fakeConverter{}
	b := New(WithConfig(galleryConfig()), WithConverter(conv), WithOutputRoot(out))

	require.True(t, b.Active())
	require.NoError(t, b.ConvertAll())

	ds := b.Descriptors()
	require.Len(t, ds, 2)
	require.Equal(t, "plot_x", ds[0].NotebookName)
	require.Equal(t, "../_static/marimo/gallery/plot_x.html", ds[0].NotebookURL)
	require.Equal(t, filepath.Join("auto_examples", "plot_x.html"), ds[0].PagePath)

	// Bundles land in the gallery namespace, away from direct embeds.
	_, err := os.Stat(filepath.Join(out, "_static", "marimo", "gallery", "plot_x.html"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "_static", "marimo", "gallery", "gallery_manifest.json"))
	require.NoError(t, err)
}

func TestBridgeSkipsFailedExports(t *testing.T) {
	out := gallerySite(t, "plot_x", "plot_bad")
	conv := &fakeConverter{fail: map[string]bool{"plot_bad": true}}
	b := New(WithConfig(galleryConfig()), WithConverter(conv), WithOutputRoot(out))

	require.NoError(t, b.ConvertAll())

	ds := b.Descriptors()
	require.Len(t, ds, 1)
	require.Equal(t, "plot_x", ds[0].NotebookName)

	// The failed page never gets launcher metadata.
	_, ok := b.NotebookInfoFor(filepath.Join("auto_examples", "plot_bad.html"))
	require.False(t, ok)
}

func TestNotebookInfoFor(t *testing.T) {
	out := gallerySite(t, "plot_x")
	b := New(WithConfig(galleryConfig()), WithConverter(&fakeConverter{}), WithOutputRoot(out))
	require.NoError(t, b.ConvertAll())

	info, ok := b.NotebookInfoFor(filepath.Join("auto_examples", "plot_x.html"))
	require.True(t, ok)
	require.Equal(t, "plot_x", info.Name)
	require.Equal(t, "../_static/marimo/gallery/plot_x.html", info.URL)
	require.Equal(t, "Open in marimo", info.ButtonText)
	require.True(t, info.FooterButton)

	// Pages outside the configured gallery dirs are not annotated.
	_, ok = b.NotebookInfoFor("guide/plot_x.html")
	require.False(t, ok)
}

func TestBundleURL(t *testing.T) {
	b := New(WithConfig(galleryConfig()))

	// The bundle link is relative to the page, climbing one level per
	// path segment, so subpath-hosted sites resolve it correctly.
	tests := []struct {
		name     string
		page     string
		notebook string
		expected string
	}{
		{"top-level gallery", "auto_examples/plot_x.html", "plot_x",
			"../_static/marimo/gallery/plot_x.html"},
		{"nested gallery", "examples/gallery/plot_y.html", "plot_y",
			"../../_static/marimo/gallery/plot_y.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, b.bundleURL(tt.page, tt.notebook))
		})
	}
}

func TestBridgePrependsPageIntro(t *testing.T) {
	out := gallerySite(t, "plot_x")
	cfg := galleryConfig()
	cfg.PrependFromPage = true

	conv := &fakeConverter{}
	b := New(WithConfig(cfg), WithConverter(conv), WithOutputRoot(out))
	require.NoError(t, b.ConvertAll())

	// The scratch notebook fed to the exporter carries the intro
	// cell, when the converted content has cells to prepend to.
	py := filepath.Join(out, "_build", "marimo", "gallery", "plot_x.py")
	data, err := os.ReadFile(py)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "A short description") ||
		string(data) == `{"cells": []}`)
}
