// Package directive implements the build-time markup handler for
// notebook embeds.  It recognizes an embed directive naming a
// notebook path with optional rendering values, validates the path
// against the configured notebook directory, and replaces the block
// with an HTML container the client-side loader fills in.
//
// Option precedence is three-tier: directive values override
// page-level defaults, which override global configuration.
package directive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/marimo-docs/embedder/pkg/config"
	"github.com/marimo-docs/embedder/pkg/exporter"
)

var (
	embedRe    = regexp.MustCompile(`^\.\.\s+marimo::\s+(\S+)\s*$`)
	defaultsRe = regexp.MustCompile(`^\.\.\s+marimo-defaults::\s*$`)
	optionRe   = regexp.MustCompile(`^\s+:(height|width|class|theme):\s*(.*?)\s*$`)
)

// MissingSourceError is returned when a directive references a
// notebook that does not resolve under the notebook directory.  It
// fails the page build; silently continuing would produce a broken
// page.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("notebook source not found: %s", e.Path)
}

// Invocation is one parsed embed directive.  Empty option fields mean
// "inherit from the next tier down".
type Invocation struct {
	Path   string
	Height string
	Width  string
	Class  string
	Theme  string
}

// pageDefaults carries page-tier option values set by a defaults
// block earlier in the same document.
type pageDefaults struct {
	Height string
	Width  string
	Class  string
	Theme  string
}

// Handler processes pages for a single build.
type Handler struct {
	l   hclog.Logger
	cfg *config.Config

	// notebookRoot is the absolute directory holding notebook
	// sources for this site.
	notebookRoot string

	tpl    *templates
	serial int
}

// An Option configures a Handler.
type Option func(h *Handler)

// WithLogger configures the logging instance for this handler.
func WithLogger(l hclog.Logger) Option {
	return func(h *Handler) { h.l = l.Named("directive") }
}

// WithConfig supplies the global configuration tier.
func WithConfig(c *config.Config) Option {
	return func(h *Handler) { h.cfg = c }
}

// WithNotebookRoot sets the directory embed paths must resolve under.
func WithNotebookRoot(dir string) Option {
	return func(h *Handler) { h.notebookRoot = dir }
}

// New returns a handler ready to process pages.
func New(opts ...Option) (*Handler, error) {
	h := new(Handler)
	h.l = hclog.NewNullLogger()
	h.cfg = config.Default()
	for _, o := range opts {
		o(h)
	}
	if err := h.compileTemplates(); err != nil {
		return nil, err
	}
	return h, nil
}

// resolve finalizes an invocation against the page and global tiers
// and validates the notebook path.  The returned name is the mangled
// bundle identifier.
func (h *Handler) resolve(inv Invocation, pd pageDefaults) (name string, final Invocation, err error) {
	clean := filepath.Clean(inv.Path)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", final, &MissingSourceError{Path: inv.Path}
	}
	if _, serr := os.Stat(filepath.Join(h.notebookRoot, clean)); serr != nil {
		return "", final, &MissingSourceError{Path: inv.Path}
	}

	final = inv
	if final.Height == "" {
		final.Height = firstOf(pd.Height, h.cfg.DefaultHeight)
	}
	if final.Width == "" {
		final.Width = firstOf(pd.Width, h.cfg.DefaultWidth)
	}
	if final.Class == "" {
		final.Class = firstOf(pd.Class, h.cfg.DefaultClass)
	}
	if final.Theme == "" {
		final.Theme = firstOf(pd.Theme, h.cfg.DefaultTheme)
	}

	return exporter.Stem(clean), final, nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ProcessPage rewrites every embed directive in a page, returning the
// transformed content.  Format selects how the emitted HTML is
// wrapped: "rst" wraps it in a raw-html passthrough block, anything
// else inlines it.
func (h *Handler) ProcessPage(content, format string) (string, error) {
	lines := strings.Split(content, "\n")
	var out []string
	var pd pageDefaults
	embeds := 0

	for i := 0; i < len(lines); i++ {
		if defaultsRe.MatchString(lines[i]) {
			opts, next := consumeOptions(lines, i+1)
			pd.Height = firstOf(opts["height"], pd.Height)
			pd.Width = firstOf(opts["width"], pd.Width)
			pd.Class = firstOf(opts["class"], pd.Class)
			pd.Theme = firstOf(opts["theme"], pd.Theme)
			i = next - 1
			continue
		}

		m := embedRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		opts, next := consumeOptions(lines, i+1)
		inv := Invocation{
			Path:   m[1],
			Height: opts["height"],
			Width:  opts["width"],
			Class:  opts["class"],
			Theme:  opts["theme"],
		}
		i = next - 1

		name, final, err := h.resolve(inv, pd)
		if err != nil {
			return "", err
		}

		html, err := h.render(name, final)
		if err != nil {
			return "", err
		}
		if format == "rst" {
			html = wrapRaw(html)
		}
		out = append(out, html)
		embeds++
	}

	// A page with embeds must pull in the client loader and
	// stylesheet itself, since no host layer registers them.
	if embeds > 0 && !strings.Contains(content, "marimo-loader.js") {
		tags := h.assetTags()
		if format == "rst" {
			tags = wrapRaw(tags)
		}
		out = append(out, tags)
	}

	return strings.Join(out, "\n"), nil
}

// assetTags emits the stylesheet link and loader script reference for
// a page containing at least one embed.
func (h *Handler) assetTags() string {
	base := "/" + h.cfg.OutputDir
	return fmt.Sprintf("<link rel=\"stylesheet\" href=%q>\n<script defer src=%q></script>",
		base+"/marimo-embed.css", base+"/marimo-loader.js")
}

// consumeOptions gathers indented :key: value lines following a
// directive, returning the options and the index of the first line
// past the block.
func consumeOptions(lines []string, start int) (map[string]string, int) {
	opts := make(map[string]string)
	i := start
	for ; i < len(lines); i++ {
		m := optionRe.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		opts[m[1]] = m[2]
	}
	return opts, i
}

// wrapRaw embeds HTML into a reST raw passthrough block.
func wrapRaw(html string) string {
	var b strings.Builder
	b.WriteString(".. raw:: html\n\n")
	for _, line := range strings.Split(html, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("   " + line + "\n")
	}
	return b.String()
}
