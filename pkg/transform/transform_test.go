package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNotebook = `import marimo
app = marimo.App()

@app.cell
def __():
    x = 1
    return x,

@app.cell
def __():
    import marimo as mo
    return mo,

@app.cell
def __():
    y = 2
    return y,
`

func TestPrependMarkdownAddsContentBeforeExistingCells(t *testing.T) {
	notebook := `import marimo
app = marimo.App()

@app.cell
def __():
    x = 1
    return x,
`
	result := PrependMarkdown(notebook, "Warning text")

	warningPos := strings.Index(result, "Warning text")
	xPos := strings.Index(result, "x = 1")
	if warningPos <= 0 || warningPos >= xPos {
		t.Errorf("markdown not prepended before cells: warning at %d, x at %d", warningPos, xPos)
	}
}

func TestPrependMarkdownReusesExistingImport(t *testing.T) {
	result := PrependMarkdown(sampleNotebook, "Intro")

	if got := strings.Count(result, "import marimo as mo"); got != 1 {
		t.Errorf("expected existing mo import to be reused, found %d imports", got)
	}
}

func TestPrependMarkdownAddsImportWhenAbsent(t *testing.T) {
	notebook := `import marimo
app = marimo.App()

@app.cell
def __():
    x = 1
    return x,
`
	result := PrependMarkdown(notebook, "Intro")

	if !strings.Contains(result, "import marimo as mo") {
		t.Error("expected an import cell to be added")
	}
	importPos := strings.Index(result, "import marimo as mo")
	introPos := strings.Index(result, "Intro")
	if importPos >= introPos {
		t.Error("import cell should precede the markdown cell")
	}
}

func TestMoveImportsReordersCells(t *testing.T) {
	result := MoveImportsToTop(sampleNotebook)

	importPos := strings.Index(result, "import marimo as mo")
	xPos := strings.Index(result, "x = 1")
	yPos := strings.Index(result, "y = 2")
	if !(importPos < xPos && xPos < yPos) {
		t.Errorf("cells not reordered: import=%d x=%d y=%d", importPos, xPos, yPos)
	}
}

func TestMoveImportsHandlesMultipleImports(t *testing.T) {
	notebook := sampleNotebook + `
@app.cell
def __():
    import marimo
    return marimo,
`
	result := MoveImportsToTop(notebook)

	firstImport := strings.Index(result, "import marimo as mo")
	secondImport := strings.Index(result, "import marimo\n    return marimo")
	xPos := strings.Index(result, "x = 1")

	if firstImport >= xPos || secondImport >= xPos {
		t.Errorf("import cells not all moved before x: first=%d second=%d x=%d", firstImport, secondImport, xPos)
	}
}

func TestMoveImportsNoopWhenAlreadySorted(t *testing.T) {
	notebook := `import marimo
app = marimo.App()

@app.cell
def __():
    import marimo as mo
    return mo,

@app.cell
def __():
    x = 1
    return x,
`
	if result := MoveImportsToTop(notebook); result != notebook {
		t.Errorf("already-sorted notebook was modified:\n%s", result)
	}
}

func TestMoveImportsPreservesMainGuard(t *testing.T) {
	notebook := sampleNotebook + `
if __name__ == "__main__":
    app.run()
`
	result := MoveImportsToTop(notebook)

	guardPos := strings.Index(result, `if __name__ == "__main__"`)
	yPos := strings.Index(result, "y = 2")
	if guardPos < yPos {
		t.Error("__main__ guard must stay after all cells")
	}
	if !strings.Contains(result, "app.run()") {
		t.Error("postamble lost during reorder")
	}
}

func TestFileCombinesBothOperations(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "nb.py")
	if err := os.WriteFile(src, []byte(sampleNotebook), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.py")
	err := File(src, out, Options{PrependMarkdown: "Read this first", MoveImportsToTop: true})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	result := string(data)

	introPos := strings.Index(result, "Read this first")
	xPos := strings.Index(result, "x = 1")
	if introPos < 0 || introPos >= xPos {
		t.Error("markdown not first after combined transform")
	}
	if !strings.HasPrefix(result, "import marimo\napp = marimo.App()") {
		t.Error("preamble not preserved")
	}
}

func TestFileOverwritesInPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "nb.py")
	if err := os.WriteFile(src, []byte(sampleNotebook), 0644); err != nil {
		t.Fatal(err)
	}

	if err := File(src, "", Options{PrependMarkdown: "Banner"}); err != nil {
		t.Fatalf("File() error: %v", err)
	}

	data, _ := os.ReadFile(src)
	if !strings.Contains(string(data), "Banner") {
		t.Error("in-place rewrite did not apply")
	}
}
