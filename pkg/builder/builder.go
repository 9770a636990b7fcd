// Package builder orchestrates the build phases of the embedding
// pipeline against a documentation site: notebook discovery and
// export at build start, directive processing across source pages,
// gallery conversion, and per-page metadata injection once pages are
// built.  Host-lifecycle integration is modeled as explicit callback
// registration, not global event state.
package builder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/marimo-docs/embedder/pkg/config"
	"github.com/marimo-docs/embedder/pkg/directive"
	"github.com/marimo-docs/embedder/pkg/exporter"
	"github.com/marimo-docs/embedder/pkg/gallery"
	"github.com/marimo-docs/embedder/pkg/manifest"
	"github.com/marimo-docs/embedder/pkg/static"
)

// Exporter is the external-tool surface the builder drives.  The
// concrete implementation shells out to marimo; tests substitute a
// fake.
type Exporter interface {
	CheckTool() error
	Convert(src, dst string) error
	ExportNamed(src, outDir, name string) *exporter.Result
	Discover(root string) ([]string, error)
	Cleanup(dir string) error
}

// Builder owns one site build.
type Builder struct {
	l   hclog.Logger
	cfg *config.Config

	srcDir string
	outDir string

	exp     Exporter
	bridge  *gallery.Bridge
	handler *directive.Handler

	man     *manifest.Manifest
	results []*exporter.Result

	onBuildStart []func() error
	onPageBuilt  []func(pageRel string) error
}

// buildSteps are phases of a build.
type buildStep func() error

// New returns a builder with the standard lifecycle hooks registered.
func New(opts ...Option) (*Builder, error) {
	b := new(Builder)
	b.l = hclog.NewNullLogger()
	b.cfg = config.Default()
	b.man = manifest.New()
	for _, o := range opts {
		o(b)
	}

	if b.exp == nil {
		b.exp = exporter.New(exporter.WithLogger(b.l))
	}

	var err error
	b.handler, err = directive.New(
		directive.WithLogger(b.l),
		directive.WithConfig(b.cfg),
		directive.WithNotebookRoot(filepath.Join(b.srcDir, b.cfg.NotebookDir)),
	)
	if err != nil {
		return nil, err
	}

	b.bridge = gallery.New(
		gallery.WithLogger(b.l),
		gallery.WithConfig(b.cfg),
		gallery.WithConverter(b.exp),
		gallery.WithOutputRoot(b.outDir),
	)

	b.OnBuildStart(b.exportNotebooks)
	b.OnBuildStart(b.writeManifest)
	b.OnBuildStart(b.installStatic)
	b.OnPageBuilt(b.annotateGalleryPage)

	return b, nil
}

// OnBuildStart registers a callback fired once before pages are
// processed.
func (b *Builder) OnBuildStart(fn func() error) {
	b.onBuildStart = append(b.onBuildStart, fn)
}

// OnPageBuilt registers a callback fired for each built gallery page.
func (b *Builder) OnPageBuilt(fn func(pageRel string) error) {
	b.onPageBuilt = append(b.onPageBuilt, fn)
}

// Run executes the full build pipeline.  Structural errors (a
// directive referencing a missing notebook) abort the build; export
// failures are logged and the build continues.
func (b *Builder) Run() error {
	steps := []buildStep{
		b.prepare,
		b.fireBuildStart,
		b.processPages,
		b.convertGallery,
		b.firePagesBuilt,
		b.cleanupScratch,
	}
	names := []string{"Prepare", "BuildStart", "ProcessPages", "Gallery", "PageHooks", "Cleanup"}

	for i, step := range steps {
		b.l.Info("Performing Step", "step", names[i])
		if err := step(); err != nil {
			b.l.Error("Halting build", "step", names[i], "error", err)
			return err
		}
	}
	return nil
}

// Results returns every export attempted during this build.
func (b *Builder) Results() []*exporter.Result {
	return b.results
}

// Manifest returns the manifest assembled during this build.
func (b *Builder) Manifest() *manifest.Manifest {
	return b.man
}

// Bridge returns the gallery bridge for this build.
func (b *Builder) Bridge() *gallery.Bridge {
	return b.bridge
}

func (b *Builder) prepare() error {
	for _, d := range []string{
		b.outDir,
		filepath.Join(b.outDir, b.cfg.OutputDir),
		filepath.Join(b.outDir, b.cfg.BuildDir),
	} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) fireBuildStart() error {
	for _, fn := range b.onBuildStart {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// exportNotebooks discovers and exports every notebook under the
// configured notebook directory.  A missing tool is not fatal: each
// export fails with its own diagnostic and the manifest simply stays
// small.
func (b *Builder) exportNotebooks() error {
	if err := b.exp.CheckTool(); err != nil {
		b.l.Warn("Export tool unavailable, all exports will fail", "error", err)
	}

	nbRoot := filepath.Join(b.srcDir, b.cfg.NotebookDir)
	if _, err := os.Stat(nbRoot); err != nil {
		b.l.Info("No notebook directory, skipping direct exports", "dir", nbRoot)
		return nil
	}

	found, err := b.exp.Discover(nbRoot)
	if err != nil {
		return err
	}
	b.l.Info("Discovered notebooks", "count", len(found))

	bundleDir := filepath.Join(b.outDir, b.cfg.OutputDir, "notebooks")
	for _, rel := range found {
		name := exporter.Stem(rel)
		res := b.exp.ExportNamed(filepath.Join(nbRoot, rel), bundleDir, name)
		b.results = append(b.results, res)

		if !res.OK {
			b.l.Error("Notebook export failed", "notebook", rel, "diagnostic", res.Diagnostic)
			if err := writePlaceholder(filepath.Join(bundleDir, name+".html"), rel); err != nil {
				b.l.Warn("Could not write placeholder bundle", "notebook", rel, "error", err)
			}
			continue
		}
		b.man.Add(name, urlJoin(filepath.Base(b.cfg.OutputDir), "notebooks", name+".html"))
	}
	return nil
}

func (b *Builder) writeManifest() error {
	return b.man.WriteFile(filepath.Join(b.outDir, b.cfg.OutputDir, "manifest.json"))
}

func (b *Builder) installStatic() error {
	return static.Install(filepath.Join(b.outDir, b.cfg.OutputDir))
}

// processPages rewrites embed directives across every source page,
// writing the transformed pages into the output tree.
func (b *Builder) processPages() error {
	return filepath.WalkDir(b.srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			n := d.Name()
			if p != b.srcDir && (strings.HasPrefix(n, ".") || strings.HasPrefix(n, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		format := ""
		switch filepath.Ext(p) {
		case ".rst":
			format = "rst"
		case ".md":
			format = "md"
		default:
			return nil
		}

		rel, err := filepath.Rel(b.srcDir, p)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		out, err := b.handler.ProcessPage(string(data), format)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}

		dst := filepath.Join(b.outDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return os.WriteFile(dst, []byte(out), 0644)
	})
}

func (b *Builder) convertGallery() error {
	return b.bridge.ConvertAll()
}

// firePagesBuilt runs the page-built hooks for every annotated
// gallery page.  Both button toggles off means the client never needs
// the metadata, so injection is skipped entirely.
func (b *Builder) firePagesBuilt() error {
	if !b.bridge.Active() {
		return nil
	}
	if !b.cfg.FooterButton && !b.cfg.SidebarButton {
		return nil
	}

	for _, d := range b.bridge.Descriptors() {
		if d.PagePath == "" {
			continue
		}
		for _, fn := range b.onPageBuilt {
			if err := fn(d.PagePath); err != nil {
				b.l.Warn("Page hook failed", "page", d.PagePath, "error", err)
			}
		}
	}
	return nil
}

func (b *Builder) annotateGalleryPage(pageRel string) error {
	info, ok := b.bridge.NotebookInfoFor(pageRel)
	if !ok {
		return nil
	}
	return b.bridge.InjectFile(filepath.Join(b.outDir, pageRel), info)
}

func (b *Builder) cleanupScratch() error {
	return b.exp.Cleanup(filepath.Join(b.outDir, b.cfg.BuildDir))
}

// urlJoin joins URL segments with forward slashes regardless of host
// platform.
func urlJoin(parts ...string) string {
	return strings.Join(parts, "/")
}
