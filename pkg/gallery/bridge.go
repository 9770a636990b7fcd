// Package gallery bridges gallery-generated example pages into the
// notebook export pipeline.  When the gallery collaborator is
// configured, generated notebooks are converted and exported under a
// distinct namespace, and each built example page is annotated so the
// client-side launcher can attach buttons.
package gallery

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/marimo-docs/embedder/pkg/config"
	"github.com/marimo-docs/embedder/pkg/exporter"
	"github.com/marimo-docs/embedder/pkg/transform"
)

// Converter is the subset of the exporter the bridge drives.
type Converter interface {
	Convert(src, dst string) error
	ExportNamed(src, outDir, name string) *exporter.Result
}

// Bridge coordinates gallery notebook conversion.  It starts inactive
// and activates exactly once at configuration time if the gallery
// collaborator is present.
type Bridge struct {
	l    hclog.Logger
	cfg  *config.Config
	conv Converter

	// outRoot is the built site's output directory.
	outRoot string

	active      bool
	descriptors map[string]Descriptor
}

// An Option configures a Bridge.
type Option func(b *Bridge)

// WithLogger configures the logging instance for this bridge.
func WithLogger(l hclog.Logger) Option {
	return func(b *Bridge) { b.l = l.Named("gallery") }
}

// WithConfig supplies the site configuration.
func WithConfig(c *config.Config) Option {
	return func(b *Bridge) { b.cfg = c }
}

// WithConverter supplies the exporter that performs conversions.
func WithConverter(c Converter) Option {
	return func(b *Bridge) { b.conv = c }
}

// WithOutputRoot sets the built site's output directory.
func WithOutputRoot(dir string) Option {
	return func(b *Bridge) { b.outRoot = dir }
}

// New returns a bridge and performs the one-time capability check.
func New(opts ...Option) *Bridge {
	b := new(Bridge)
	b.l = hclog.NewNullLogger()
	b.cfg = config.Default()
	b.descriptors = make(map[string]Descriptor)
	for _, o := range opts {
		o(b)
	}

	b.active = b.cfg.GalleryActive()
	if b.active {
		b.l.Info("Gallery integration detected, launcher will be enabled")
	}
	return b
}

// Active reports whether the gallery collaborator was detected.
func (b *Bridge) Active() bool {
	return b.active
}

// Descriptors returns the pages annotated by the last ConvertAll, in
// page order.
func (b *Bridge) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(b.descriptors))
	for _, d := range b.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PagePath < out[j].PagePath })
	return out
}

// ConvertAll finds every gallery-generated notebook, feeds it through
// the exporter under the gallery namespace, and writes the gallery
// manifest.  Individual failures are logged and skipped; the bridge
// never aborts the surrounding build.
func (b *Bridge) ConvertAll() error {
	if !b.active {
		return nil
	}

	downloads := b.cfg.Gallery.DownloadsDir
	if downloads == "" {
		downloads = "_downloads"
	}
	downloadsDir := filepath.Join(b.outRoot, downloads)

	notebooks, err := b.findGeneratedNotebooks(downloadsDir)
	if err != nil {
		b.l.Warn("Gallery downloads directory not searchable", "dir", downloadsDir, "error", err)
		return nil
	}
	b.l.Info("Found gallery notebooks to convert", "count", len(notebooks))

	scratchDir := filepath.Join(b.outRoot, b.cfg.BuildDir, "gallery")
	bundleDir := filepath.Join(b.outRoot, b.cfg.OutputDir, "gallery")

	for _, nb := range notebooks {
		name := exporter.Stem(filepath.Base(nb))
		pyFile := filepath.Join(scratchDir, name+".py")

		if err := b.conv.Convert(nb, pyFile); err != nil {
			b.l.Error("Failed to convert gallery notebook", "notebook", name, "error", err)
			continue
		}

		b.applyTransforms(name, pyFile)

		res := b.conv.ExportNamed(pyFile, bundleDir, name)
		if !res.OK {
			b.l.Error("Failed to export gallery notebook", "notebook", name, "diagnostic", res.Diagnostic)
			continue
		}

		b.record(name)
	}

	if err := b.writeManifest(bundleDir); err != nil {
		b.l.Error("Failed to write gallery manifest", "error", err)
	}
	b.l.Info("Converted gallery notebooks", "count", len(b.descriptors))
	return nil
}

// record registers the page descriptor for a successfully exported
// notebook, locating the generated page under the configured gallery
// dirs.
func (b *Bridge) record(name string) {
	page := ""
	for _, dir := range b.cfg.Gallery.GalleryDirs {
		candidate := filepath.Join(dir, name+".html")
		if _, err := os.Stat(filepath.Join(b.outRoot, candidate)); err == nil {
			page = candidate
			break
		}
	}

	b.descriptors[name] = Descriptor{
		PagePath:     page,
		NotebookName: name,
		NotebookURL:  b.bundleURL(page, name),
	}
}

// bundleURL builds the bundle link for a gallery page, relative to
// the page itself: a page at auto_examples/plot_x.html links one
// level up into the static tree, so sites hosted under a path prefix
// still resolve it.
func (b *Bridge) bundleURL(page, name string) string {
	depth := strings.Count(filepath.ToSlash(page), "/")
	return strings.Repeat("../", depth) + urlJoin(b.cfg.OutputDir, "gallery", name+".html")
}

// applyTransforms runs the configured content transforms in place.
// Transforms are best-effort: a failure is logged and the export
// proceeds on the untransformed file.
func (b *Bridge) applyTransforms(name, pyFile string) {
	opts := transform.Options{
		PrependMarkdown:  b.cfg.PrependMarkdown,
		MoveImportsToTop: b.cfg.MoveImportsToTop,
	}

	if opts.PrependMarkdown == "" && b.cfg.PrependFromPage {
		if intro := b.pageIntro(name); intro != "" {
			opts.PrependMarkdown = intro
		}
	}

	if opts.PrependMarkdown == "" && !opts.MoveImportsToTop {
		return
	}
	if err := transform.File(pyFile, "", opts); err != nil {
		b.l.Warn("Transform failed, exporting untransformed notebook", "notebook", name, "error", err)
	}
}

// findGeneratedNotebooks locates .ipynb files anywhere under the
// downloads tree; the gallery collaborator nests them in hash-named
// directories.
func (b *Bridge) findGeneratedNotebooks(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".ipynb" {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func (b *Bridge) writeManifest(bundleDir string) error {
	m := galleryManifest{
		GalleryNotebooks: make(map[string]string),
		TotalCount:       len(b.descriptors),
	}
	for name := range b.descriptors {
		m.GalleryNotebooks[name] = urlJoin(filepath.Base(b.cfg.OutputDir), "gallery", name+".html")
	}

	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(bundleDir, "gallery_manifest.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// NotebookInfoFor returns the launcher metadata for a built page, or
// false when the page is not a gallery page with a successful export.
func (b *Bridge) NotebookInfoFor(pageRel string) (PageInfo, bool) {
	if !b.active {
		return PageInfo{}, false
	}

	under := false
	for _, dir := range b.cfg.Gallery.GalleryDirs {
		if strings.HasPrefix(filepath.ToSlash(pageRel), strings.TrimSuffix(filepath.ToSlash(dir), "/")+"/") {
			under = true
			break
		}
	}
	if !under {
		return PageInfo{}, false
	}

	name := exporter.Stem(filepath.Base(pageRel))
	d, ok := b.descriptors[name]
	if !ok {
		return PageInfo{}, false
	}

	return PageInfo{
		Name:          d.NotebookName,
		URL:           d.NotebookURL,
		ButtonText:    b.cfg.ButtonText,
		FooterButton:  b.cfg.FooterButton,
		SidebarButton: b.cfg.SidebarButton,
	}, true
}

// urlJoin joins URL segments with forward slashes regardless of host
// platform.
func urlJoin(parts ...string) string {
	return strings.Join(parts, "/")
}
