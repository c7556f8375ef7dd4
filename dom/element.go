// Package dom builds element trees from HTML and XML documents and exposes
// them to the selector matcher.
package dom

import (
	"strconv"
	"strings"
)

// Element is a document element. Text, comments and other node kinds are
// not kept.
type Element struct {
	Name     string
	Attrs    map[string]string
	Parent   *Element
	Children []*Element

	index   int // position among element siblings
	classes []string
	pseudo  []string
	lang    string // normalized own language, empty if not set
}

func newElement(name string, parent *Element) *Element {
	e := &Element{Name: name, Attrs: make(map[string]string), Parent: parent}
	if parent != nil {
		e.index = len(parent.Children)
		parent.Children = append(parent.Children, e)
	}
	return e
}

// finish computes derived fields once attributes are known.
func (e *Element) finish() {
	e.classes = strings.Fields(e.Attrs["class"])
	if v, ok := e.Attrs["xml:lang"]; ok {
		e.lang = normalizeLang(v)
	} else if v, ok := e.Attrs["lang"]; ok {
		e.lang = normalizeLang(v)
	}
	if e.index == 0 {
		e.pseudo = append(e.pseudo, "first-child")
	}
	if _, ok := e.Attrs["href"]; ok && e.Name == "a" {
		e.pseudo = append(e.pseudo, "link")
	}
}

// Attribute returns attribute value.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// ID returns value of the id attribute.
func (e *Element) ID() string { return e.Attrs["id"] }

// Classes returns whitespace separated words of the class attribute.
func (e *Element) Classes() []string { return e.classes }

// Style returns inline style attribute.
func (e *Element) Style() (string, bool) {
	v, ok := e.Attrs["style"]
	return v, ok
}

// Lang returns language of the element, inherited from the nearest
// ancestor declaring one.
func (e *Element) Lang() string {
	for p := e; p != nil; p = p.Parent {
		if p.lang != "" {
			return p.lang
		}
	}
	return ""
}

// PseudoClasses returns dynamic and structural pseudo-classes which apply
// to the element.
func (e *Element) PseudoClasses() []string { return e.pseudo }

// SetPseudoClass turns pseudo-class on or off, for example "hover".
func (e *Element) SetPseudoClass(name string, on bool) {
	name = strings.ToLower(name)
	for i, p := range e.pseudo {
		if p == name {
			if !on {
				e.pseudo = append(e.pseudo[:i:i], e.pseudo[i+1:]...)
			}
			return
		}
	}
	if on {
		e.pseudo = append(e.pseudo, name)
	}
}

// PrevSibling returns preceding element sibling.
func (e *Element) PrevSibling() *Element {
	if e.Parent == nil || e.index == 0 {
		return nil
	}
	return e.Parent.Children[e.index-1]
}

// Path returns position of the element in the tree, like
// "html/body/div[2]/p". Index is one based and only shown when element
// has preceding siblings of the same name.
func (e *Element) Path() string {
	var parts []string
	for p := e; p != nil; p = p.Parent {
		n := 1
		for s := p.PrevSibling(); s != nil; s = s.PrevSibling() {
			if s.Name == p.Name {
				n++
			}
		}
		part := p.Name
		if n > 1 {
			part += "[" + strconv.Itoa(n) + "]"
		}
		parts = append(parts, part)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Walk visits element and its descendants in document order. Returning
// false from fn skips children of the element.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(el *Element, depth int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}

// Document is a parsed document.
type Document struct {
	Root *Element
	// BaseURI is used to resolve stylesheet references, taken from
	// <base href> when present.
	BaseURI string
	// Sheets are stylesheets referenced or embedded by the document in
	// document order.
	Sheets []SheetRef
}

// SheetRef is a stylesheet linked from the document or embedded in it.
type SheetRef struct {
	URL   string // absolute URL of a linked sheet
	Text  string // content of an embedded sheet
	Media string
}

// Embedded reports whether stylesheet text is embedded in the document.
func (s SheetRef) Embedded() bool { return s.URL == "" }

// Find returns the first element matching predicate in document order.
func (d *Document) Find(pred func(*Element) bool) *Element {
	var found *Element
	d.Root.Walk(func(el *Element, _ int) bool {
		if found != nil {
			return false
		}
		if pred(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// ByID returns element with given id.
func (d *Document) ByID(id string) *Element {
	return d.Find(func(e *Element) bool { return e.ID() == id })
}
