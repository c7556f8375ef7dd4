package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"cssc/css"
)

// ParseXML reads XML document (including XHTML). Element names are local
// names, namespaced attributes are keyed as "prefix:name". Stylesheets are
// taken from xml-stylesheet processing instructions and from XHTML style
// and link elements.
func ParseXML(r io.Reader, uri string) (*Document, error) {
	xdoc := etree.NewDocument()
	xdoc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := xdoc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse XML: %w", err)
	}
	xroot := xdoc.Root()
	if xroot == nil {
		return nil, fmt.Errorf("XML document has no root element")
	}

	doc := &Document{BaseURI: uri}
	for _, tok := range xdoc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml-stylesheet" {
			doc.collectProcInst(pi.Inst)
		}
	}

	var build func(x *etree.Element, parent *Element) *Element
	build = func(x *etree.Element, parent *Element) *Element {
		e := newElement(x.Tag, parent)
		for _, a := range x.Attr {
			key := a.Key
			if a.Space != "" {
				key = a.Space + ":" + key
			}
			e.Attrs[key] = a.Value
		}
		e.finish()
		doc.collectXHTML(e, x)
		for _, c := range x.ChildElements() {
			build(c, e)
		}
		return e
	}
	doc.Root = build(xroot, nil)
	return doc, nil
}

// collectProcInst handles pseudo-attributes of xml-stylesheet instruction.
func (d *Document) collectProcInst(inst string) {
	// pseudo-attributes have attribute syntax, let etree parse them
	tmp := etree.NewDocument()
	if err := tmp.ReadFromString("<pi " + inst + "/>"); err != nil || tmp.Root() == nil {
		return
	}
	pi := tmp.Root()
	if t := pi.SelectAttrValue("type", "text/css"); !strings.EqualFold(t, "text/css") {
		return
	}
	if pi.SelectAttrValue("alternate", "no") == "yes" {
		return
	}
	href := pi.SelectAttrValue("href", "")
	if href == "" {
		return
	}
	d.Sheets = append(d.Sheets, SheetRef{URL: css.ResolveURL(d.BaseURI, href), Media: pi.SelectAttrValue("media", "")})
}

func (d *Document) collectXHTML(e *Element, x *etree.Element) {
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
		d.Sheets = append(d.Sheets, SheetRef{Text: x.Text(), Media: e.Attrs["media"]})
	}
}
