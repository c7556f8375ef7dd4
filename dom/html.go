package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"cssc/css"
)

// ParseHTML reads HTML document. contentType may carry charset, otherwise
// encoding is detected from the content. uri is the document location used
// as default base URI.
func ParseHTML(r io.Reader, contentType, uri string) (*Document, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	root, err := html.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML: %w", err)
	}

	doc := &Document{BaseURI: uri}
	var build func(n *html.Node, parent *Element)
	build = func(n *html.Node, parent *Element) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			e := newElement(strings.ToLower(c.Data), parent)
			for _, a := range c.Attr {
				key := strings.ToLower(a.Key)
				if a.Namespace != "" {
					key = a.Namespace + ":" + key
				}
				e.Attrs[key] = a.Val
			}
			e.finish()
			if doc.Root == nil {
				doc.Root = e
			}
			doc.collectHTML(e, c)
			build(c, e)
		}
	}
	build(root, nil)
	if doc.Root == nil {
		return nil, fmt.Errorf("HTML document has no elements")
	}
	return doc, nil
}

// collectHTML records base URI and stylesheets. Relative references are
// resolved against the base in effect at the element.
func (d *Document) collectHTML(e *Element, n *html.Node) {
	switch e.Name {
	case "base":
		if href, ok := e.Attrs["href"]; ok {
			d.BaseURI = css.ResolveURL(d.BaseURI, href)
		}
	case "link":
		href, ok := e.Attrs["href"]
		if !ok || !hasWord(e.Attrs["rel"], "stylesheet") || hasWord(e.Attrs["rel"], "alternate") {
			return
		}
		d.Sheets = append(d.Sheets, SheetRef{URL: css.ResolveURL(d.BaseURI, href), Media: e.Attrs["media"]})
	case "style":
		if t, ok := e.Attrs["type"]; ok && !strings.EqualFold(t, "text/css") {
			return
		}
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		d.Sheets = append(d.Sheets, SheetRef{Text: b.String(), Media: e.Attrs["media"]})
	}
}

func hasWord(list, word string) bool {
	for _, w := range strings.Fields(list) {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}
