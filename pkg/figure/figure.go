// Package figure rewrites rendered HTML so that standalone images become
// figure elements with captions.
package figure

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WrapImages rewrites an HTML fragment, replacing each paragraph that
// consists of a single image with a figure. The caption comes from the
// image's title attribute, falling back to its alt text; an image with
// neither gets a bare figure.
func WrapImages(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		img := p.ChildrenFiltered("img")
		if img.Length() != 1 || strings.TrimSpace(p.Text()) != "" {
			return
		}
		imgHTML, err := goquery.OuterHtml(img)
		if err != nil {
			return
		}
		var sb strings.Builder
		sb.WriteString(`<figure class="image-caption">`)
		sb.WriteString(imgHTML)
		caption := img.AttrOr("title", "")
		if caption == "" {
			caption = img.AttrOr("alt", "")
		}
		if caption != "" {
			sb.WriteString("<figcaption>")
			sb.WriteString(html.EscapeString(caption))
			sb.WriteString("</figcaption>")
		}
		sb.WriteString("</figure>")
		p.ReplaceWithHtml(sb.String())
	})
	return doc.Find("body").Html()
}
