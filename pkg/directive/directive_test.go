package directive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marimo-docs/embedder/pkg/config"
)

func newTestHandler(t *testing.T, notebooks ...string) *Handler {
	t.Helper()
	root := t.TempDir()
	for _, nb := range notebooks {
		p := filepath.Join(root, nb)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("import marimo\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	h, err := New(WithConfig(config.Default()), WithNotebookRoot(root))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return h
}

func TestProcessPageAppliesConfigDefaults(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	out, err := h.ProcessPage(".. marimo:: intro.py\n", "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}

	for _, want := range []string{
		`data-height="600px"`,
		`data-width="100%"`,
		`data-theme="light"`,
		`class="marimo-embed"`,
		`data-notebook="intro"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestProcessPagePrecedence(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	page := ".. marimo:: intro.py\n   :height: 400px\n"
	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}

	// Overridden value applies, untouched options keep defaults.
	if !strings.Contains(out, `data-height="400px"`) {
		t.Errorf("directive height not applied:\n%s", out)
	}
	if !strings.Contains(out, `data-width="100%"`) {
		t.Errorf("width should remain at default:\n%s", out)
	}
	if !strings.Contains(out, `data-theme="light"`) {
		t.Errorf("theme should remain at default:\n%s", out)
	}
}

func TestProcessPagePageDefaultsTier(t *testing.T) {
	h := newTestHandler(t, "intro.py", "deep.py")

	page := strings.Join([]string{
		".. marimo-defaults::",
		"   :theme: dark",
		"   :height: 800px",
		"",
		".. marimo:: intro.py",
		"   :height: 300px",
		"",
		".. marimo:: deep.py",
		"",
	}, "\n")

	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}

	// First embed: directive beats page tier for height, page tier
	// beats global for theme.
	if !strings.Contains(out, `data-height="300px"`) {
		t.Errorf("directive height should win over page default:\n%s", out)
	}
	if strings.Count(out, `data-theme="dark"`) != 2 {
		t.Errorf("page default theme should apply to both embeds:\n%s", out)
	}
	// Second embed inherits the page-tier height.
	if !strings.Contains(out, `data-height="800px"`) {
		t.Errorf("page default height should apply to second embed:\n%s", out)
	}
}

func TestProcessPageMissingSource(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	_, err := h.ProcessPage(".. marimo:: nope.py\n", "md")
	if err == nil {
		t.Fatal("expected an error for a missing notebook")
	}

	var mse *MissingSourceError
	if !errors.As(err, &mse) {
		t.Fatalf("expected MissingSourceError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "nope.py") {
		t.Errorf("diagnostic does not name the missing path: %v", err)
	}
}

func TestProcessPageRejectsEscapingPaths(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	for _, p := range []string{"../intro.py", "/etc/passwd"} {
		if _, err := h.ProcessPage(".. marimo:: "+p+"\n", "md"); err == nil {
			t.Errorf("path %q should not resolve", p)
		}
	}
}

func TestProcessPageMangling(t *testing.T) {
	h := newTestHandler(t, "examples/demo.py")

	out, err := h.ProcessPage(".. marimo:: examples/demo.py\n", "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	if !strings.Contains(out, `data-notebook="examples_demo"`) {
		t.Errorf("path not mangled to identifier:\n%s", out)
	}
	if !strings.Contains(out, "/_static/marimo/notebooks/examples_demo.html") {
		t.Errorf("iframe src not built from identifier:\n%s", out)
	}
}

func TestProcessPageRstWrapping(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	out, err := h.ProcessPage(".. marimo:: intro.py\n", "rst")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	if !strings.Contains(out, ".. raw:: html") {
		t.Errorf("rst output missing raw passthrough:\n%s", out)
	}
	if !strings.Contains(out, "   <div") {
		t.Errorf("rst raw block content not indented:\n%s", out)
	}
}

func TestProcessPageLeavesOtherContentAlone(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	page := "Title\n=====\n\nSome prose.\n\n.. marimo:: intro.py\n\nMore prose.\n"
	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	for _, want := range []string{"Title", "Some prose.", "More prose."} {
		if !strings.Contains(out, want) {
			t.Errorf("surrounding content %q lost:\n%s", want, out)
		}
	}
}

func TestProcessPageEmitsAssetReferences(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	page := ".. marimo:: intro.py\n\n.. marimo:: intro.py\n"
	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}

	// One loader and one stylesheet reference per page, no matter how
	// many embeds it carries.
	if got := strings.Count(out, "/_static/marimo/marimo-loader.js"); got != 1 {
		t.Errorf("loader referenced %d times, want 1:\n%s", got, out)
	}
	if got := strings.Count(out, "/_static/marimo/marimo-embed.css"); got != 1 {
		t.Errorf("stylesheet referenced %d times, want 1:\n%s", got, out)
	}
}

func TestProcessPageNoAssetsWithoutEmbeds(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	page := "Just prose.\n\n.. marimo-defaults::\n   :theme: dark\n"
	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	if strings.Contains(out, "marimo-loader.js") {
		t.Errorf("page without embeds should not pull in the loader:\n%s", out)
	}
}

func TestProcessPageAssetsWrappedForRst(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	out, err := h.ProcessPage(".. marimo:: intro.py\n", "rst")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	if !strings.Contains(out, "   <script defer") {
		t.Errorf("rst asset references must sit inside a raw block:\n%s", out)
	}
}

func TestContainerIDsUnique(t *testing.T) {
	h := newTestHandler(t, "intro.py")

	page := ".. marimo:: intro.py\n\n.. marimo:: intro.py\n"
	out, err := h.ProcessPage(page, "md")
	if err != nil {
		t.Fatalf("ProcessPage() error: %v", err)
	}
	if strings.Contains(out, `id="marimo-intro-0"`) && strings.Contains(out, `id="marimo-intro-1"`) {
		return
	}
	t.Errorf("repeated embeds must get distinct container ids:\n%s", out)
}
