// Package exporter wraps the external marimo command line tool to
// turn notebook source files into self-contained browser-runnable
// bundles.  Everything hard happens inside the tool; this package
// owns the invocation contract, output placement, and failure
// capture.  Exports are sequential and blocking with no timeout,
// mirroring the tool's own guarantees.
package exporter

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

const defaultCommand = "marimo"

// Exporter invokes the external tool to produce bundles.
type Exporter struct {
	l hclog.Logger

	cmd  string
	mode string
}

// New returns an exporter configured for use.
func New(opts ...Option) *Exporter {
	e := new(Exporter)
	e.l = hclog.NewNullLogger()
	e.cmd = defaultCommand
	e.mode = "edit"
	for _, o := range opts {
		o(e)
	}
	return e
}

// CheckTool reports whether the external export tool is available.  A
// missing tool is not fatal to a build; every export simply fails with
// a diagnostic.
func (e *Exporter) CheckTool() error {
	_, err := exec.LookPath(e.cmd)
	return err
}

// Export produces a bundle for src inside outDir, named after the
// notebook's file stem.
func (e *Exporter) Export(src, outDir string) *Result {
	return e.ExportNamed(src, outDir, Stem(filepath.Base(src)))
}

// ExportNamed is Export with an explicit bundle name, for callers that
// have flattened a relative path into a collision-free identifier.
func (e *Exporter) ExportNamed(src, outDir, name string) *Result {
	res := &Result{Source: src, OutputDir: outDir}

	if _, err := os.Stat(src); err != nil {
		res.Diagnostic = fmt.Sprintf("notebook source unavailable: %v", err)
		return res
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		res.Diagnostic = fmt.Sprintf("could not create output directory: %v", err)
		return res
	}

	outFile := filepath.Join(outDir, name+".html")
	args := []string{"export", "html-wasm", "--mode", e.mode, src, "-o", outFile}

	cmd := exec.Command(e.cmd, args...)
	output, err := cmd.CombinedOutput()
	e.l.Trace(string(output))
	if err != nil {
		res.Diagnostic = strings.TrimSpace(string(output) + "\n" + err.Error())
		return res
	}

	res.OutputFile = outFile
	res.OK = true
	e.l.Debug("Exported notebook", "src", src, "out", outFile)
	return res
}

// Convert rewrites a generated .ipynb file into a marimo notebook at
// dst.  The tool refuses to overwrite, so any stale output is removed
// first.
func (e *Exporter) Convert(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}

	cmd := exec.Command(e.cmd, "convert", src, "-o", dst)
	output, err := cmd.CombinedOutput()
	e.l.Trace(string(output))
	if err != nil {
		return fmt.Errorf("convert failed for %s: %s", filepath.Base(src), strings.TrimSpace(string(output)))
	}
	return nil
}

// Discover walks root and returns the relative paths of all notebook
// sources beneath it, sorted for deterministic build order.  Hidden
// and underscore-prefixed directories are skipped.
func (e *Exporter) Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			n := d.Name()
			if p != root && (strings.HasPrefix(n, ".") || strings.HasPrefix(n, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".py" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

// Cleanup removes a scratch directory.  Removal can race with editors
// and virus scanners holding files open, so it retries.
func (e *Exporter) Cleanup(dir string) error {
	cleanFunc := func() error {
		return os.RemoveAll(dir)
	}
	return backoff.Retry(cleanFunc, backoff.NewExponentialBackOff())
}

// Stem returns the bundle identifier for a notebook path: path
// separators become underscores and the extension is dropped.
func Stem(path string) string {
	p := strings.TrimSuffix(path, filepath.Ext(path))
	p = strings.ReplaceAll(p, string(filepath.Separator), "_")
	return strings.ReplaceAll(p, "/", "_")
}
