// Package transform rewrites marimo notebook files at the cell level.
// The transforms are content conveniences applied before export, not
// correctness-critical steps; callers treat failures as best-effort
// and export the untransformed file.
package transform

import (
	"fmt"
	"os"
	"regexp"
)

var (
	cellStartRe    = regexp.MustCompile(`(?m)^@app\.cell(?:\([^)]*\))?`)
	mainGuardRe    = regexp.MustCompile(`(?m)^if __name__`)
	moImportRe     = regexp.MustCompile(`\bimport\s+marimo\s+as\s+mo\b`)
	marimoImportRe = regexp.MustCompile(`\bimport\s+marimo\b`)
)

// Options selects which transforms to apply.
type Options struct {
	// PrependMarkdown inserts the given markdown as a hidden-code
	// display cell ahead of all existing cells.
	PrependMarkdown string

	// MoveImportsToTop reorders cells importing marimo ahead of all
	// other cells, preserving relative order within each group.
	MoveImportsToTop bool
}

// splitNotebook separates a notebook into the preamble (imports and
// app construction), the decorated cells, and the __main__ guard
// postamble.  Cells are exact substrings so an unchanged ordering
// reassembles byte-for-byte.
func splitNotebook(content string) (preamble string, cells []string, postamble string) {
	locs := cellStartRe.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content, nil, ""
	}

	preamble = content[:locs[0][0]]
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		cells = append(cells, content[loc[0]:end])
	}

	last := cells[len(cells)-1]
	if m := mainGuardRe.FindStringIndex(last); m != nil {
		postamble = last[m[0]:]
		cells[len(cells)-1] = last[:m[0]]
	}
	return preamble, cells, postamble
}

func join(preamble string, cells []string, postamble string) string {
	out := preamble
	for _, c := range cells {
		out += c
	}
	return out + postamble
}

const markdownCellTpl = `@app.cell(hide_code=True)
def __(mo):
    mo.md(
        r"""
        %s
        """
    )
    return


`

const moImportCellTpl = `@app.cell
def __():
    import marimo as mo
    return (mo,)


`

// PrependMarkdown inserts a markdown display cell before all existing
// cells.  An existing "import marimo as mo" cell is reused; otherwise
// an import cell is added alongside the display cell.
func PrependMarkdown(content, markdown string) string {
	preamble, cells, postamble := splitNotebook(content)

	hasMoImport := false
	for _, c := range cells {
		if moImportRe.MatchString(c) {
			hasMoImport = true
			break
		}
	}

	mdCell := fmt.Sprintf(markdownCellTpl, markdown)
	if !hasMoImport {
		mdCell = moImportCellTpl + mdCell
	}

	cells = append([]string{mdCell}, cells...)
	return join(preamble, cells, postamble)
}

// MoveImportsToTop reorders cells that import marimo ahead of all
// other cells.  A notebook already in that order is returned
// unchanged.
func MoveImportsToTop(content string) string {
	preamble, cells, postamble := splitNotebook(content)

	var importCells, otherCells []string
	for _, c := range cells {
		if marimoImportRe.MatchString(c) {
			importCells = append(importCells, c)
		} else {
			otherCells = append(otherCells, c)
		}
	}

	return join(preamble, append(importCells, otherCells...), postamble)
}

// File applies the selected transforms to the notebook at path,
// writing the result to outPath.  An empty outPath overwrites the
// input in place.
func File(path, outPath string, o Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	content := string(data)
	if o.PrependMarkdown != "" {
		content = PrependMarkdown(content, o.PrependMarkdown)
	}
	if o.MoveImportsToTop {
		content = MoveImportsToTop(content)
	}

	if outPath == "" {
		outPath = path
	}
	return os.WriteFile(outPath, []byte(content), 0644)
}
