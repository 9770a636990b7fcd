package directive

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.p2
var tmplFS embed.FS

type templates struct {
	embed *pongo2.Template
}

func (h *Handler) compileTemplates() error {
	sub, _ := fs.Sub(tmplFS, "templates")
	set := pongo2.NewSet("directive", pongo2.NewFSLoader(sub))

	tpl, err := set.FromFile("embed.p2")
	if err != nil {
		return err
	}
	h.tpl = &templates{embed: tpl}
	return nil
}

// render produces the HTML container for a resolved invocation.  The
// container id is unique per page-processing run so that repeated
// embeds of the same notebook stay addressable.
func (h *Handler) render(name string, inv Invocation) (string, error) {
	id := fmt.Sprintf("marimo-%s-%d", name, h.serial)
	h.serial++

	src := fmt.Sprintf("/%s/notebooks/%s.html", h.cfg.OutputDir, name)

	out, err := h.tpl.embed.Execute(pongo2.Context{
		"container_id": id,
		"notebook":     name,
		"class":        inv.Class,
		"theme":        inv.Theme,
		"height":       inv.Height,
		"width":        inv.Width,
		"src":          src,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
