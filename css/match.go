package css

import (
	"slices"
	"strings"
)

// Node is a cursor over a document tree positioned at some element. Parent
// and PrevSibling move the cursor and report false (without moving) when
// there is nowhere to go. Push saves the current position, Pop returns to
// the most recently saved one.
type Node interface {
	Name() string
	ID() string
	Lang() string
	Classes() []string
	PseudoClasses() []string
	Attribute(name string) (string, bool)
	Parent() bool
	PrevSibling() bool
	Push()
	Pop()
}

// Match reports whether chain selects the element at the node cursor. The
// cursor is back at its starting position when Match returns.
func Match(chain *SelectorChain, node Node) bool {
	if len(chain.Links) == 0 {
		return false
	}
	node.Push()
	defer node.Pop()
	return matchFrom(chain.Links, len(chain.Links)-1, node)
}

// matchFrom matches links[:i+1] right to left starting at the cursor.
func matchFrom(links []SelectorLink, i int, node Node) bool {
	for i >= 0 {
		l := &links[i]
		switch l.Kind {
		case LinkSimple:
			if !matchLink(l, node) {
				return false
			}
		case LinkChild:
			if !node.Parent() {
				return false
			}
		case LinkNextSibling:
			if !node.PrevSibling() {
				return false
			}
		case LinkDescendant:
			for node.Parent() {
				node.Push()
				ok := matchFrom(links, i-1, node)
				node.Pop()
				if ok {
					return true
				}
			}
			return false
		}
		i--
	}
	return true
}

func matchLink(l *SelectorLink, node Node) bool {
	if !l.IsUniversal() && !strings.EqualFold(l.Type, node.Name()) {
		return false
	}
	if l.ID != "" && l.ID != node.ID() {
		return false
	}
	if l.Lang != "" && !langMatches(node.Lang(), l.Lang) {
		return false
	}
	if len(l.Classes) > 0 {
		classes := node.Classes()
		for _, c := range l.Classes {
			if !slices.Contains(classes, c) {
				return false
			}
		}
	}
	if len(l.PseudoClasses) > 0 {
		pseudo := node.PseudoClasses()
		for _, p := range l.PseudoClasses {
			if !slices.ContainsFunc(pseudo, func(s string) bool { return strings.EqualFold(s, p) }) {
				return false
			}
		}
	}
	for _, a := range l.Attributes {
		if !matchAttribute(a, node) {
			return false
		}
	}
	return true
}

func matchAttribute(a AttributeSelector, node Node) bool {
	value, ok := node.Attribute(a.Name)
	if !ok {
		return false
	}
	switch a.Match {
	case AttrExists:
		return true
	case AttrExact:
		return strings.EqualFold(value, a.Value)
	case AttrWord:
		if a.Value == "" {
			return false
		}
		for _, w := range strings.Fields(value) {
			if strings.EqualFold(w, a.Value) {
				return true
			}
		}
		return false
	case AttrHyphen:
		return value == a.Value || strings.HasPrefix(value, a.Value+"-")
	case AttrLang:
		return langMatches(value, a.Value)
	}
	return false
}

// langMatches compares language tags: value equals want or starts with
// want followed by a subtag separator. ASCII case is ignored and '_' is
// accepted as a separator.
func langMatches(value, want string) bool {
	if len(value) < len(want) || !strings.EqualFold(value[:len(want)], want) {
		return false
	}
	return len(value) == len(want) || value[len(want)] == '-' || value[len(want)] == '_'
}
