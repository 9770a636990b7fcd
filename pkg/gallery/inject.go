package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/PuerkitoBio/goquery"
)

// metadataScriptID marks a page that has already been annotated;
// injection is a no-op when it is present.
const metadataScriptID = "marimo-notebook-info"

// InjectPageMetadata appends a script tag exposing the launcher
// metadata to a built page, along with the loader script and
// stylesheet when the page does not already reference them.  The
// returned bool reports whether the document was changed.
func InjectPageMetadata(pageHTML []byte, info PageInfo) ([]byte, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, false, err
	}

	if doc.Find("script#" + metadataScriptID).Length() > 0 {
		return pageHTML, false, nil
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return nil, false, err
	}

	tag := fmt.Sprintf(`<script id=%q>window.marimoNotebookInfo = %s;</script>`,
		metadataScriptID, payload)
	doc.Find("body").AppendHtml(tag)

	if doc.Find(`script[src$="marimo-loader.js"]`).Length() == 0 {
		// The static tree sits two levels above the bundle URL, so
		// the asset references stay correct wherever the site is
		// mounted.
		base := path.Dir(path.Dir(info.URL))
		assets := fmt.Sprintf(`<link rel="stylesheet" href=%q><script defer src=%q></script>`,
			base+"/marimo-embed.css", base+"/marimo-loader.js")
		doc.Find("body").AppendHtml(assets)
	}

	out, err := doc.Html()
	if err != nil {
		return nil, false, err
	}
	return []byte(out), true, nil
}

// InjectFile annotates a built page on disk, rewriting it only when
// the injection changed the document.
func (b *Bridge) InjectFile(path string, info PageInfo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, changed, err := InjectPageMetadata(data, info)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return os.WriteFile(path, out, 0644)
}
