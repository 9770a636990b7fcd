package builder

import (
	"github.com/hashicorp/go-hclog"

	"github.com/marimo-docs/embedder/pkg/config"
)

// An Option configures a Builder.
type Option func(b *Builder)

// WithLogger configures the logging instance for this builder.
func WithLogger(l hclog.Logger) Option {
	return func(b *Builder) { b.l = l.Named("builder") }
}

// WithConfig supplies the site configuration.
func WithConfig(c *config.Config) Option {
	return func(b *Builder) { b.cfg = c }
}

// WithSourceDir sets the site source directory containing pages and
// the notebook directory.
func WithSourceDir(dir string) Option {
	return func(b *Builder) { b.srcDir = dir }
}

// WithOutputDir sets the built site's output directory.
func WithOutputDir(dir string) Option {
	return func(b *Builder) { b.outDir = dir }
}

// WithExporter overrides the exporter, primarily for tests.
func WithExporter(e Exporter) Option {
	return func(b *Builder) { b.exp = e }
}
