package gallery

import (
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// pageIntro pulls the example page's leading description paragraph
// and converts it to markdown for the prepend transform.  Any failure
// returns an empty string; the notebook simply exports without an
// intro cell.
func (b *Bridge) pageIntro(name string) string {
	for _, dir := range b.cfg.Gallery.GalleryDirs {
		page := filepath.Join(b.outRoot, dir, name+".html")
		data, err := os.ReadFile(page)
		if err != nil {
			continue
		}
		intro, err := extractIntro(data)
		if err != nil {
			b.l.Warn("Could not extract page intro", "page", page, "error", err)
			return ""
		}
		return intro
	}
	return ""
}

// extractIntro returns the first descriptive paragraph of an example
// page as markdown.
func extractIntro(pageHTML []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(pageHTML)))
	if err != nil {
		return "", err
	}

	para := doc.Find("main p, article p, body p").First()
	if para.Length() == 0 {
		return "", nil
	}

	html, err := goquery.OuterHtml(para)
	if err != nil {
		return "", err
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
