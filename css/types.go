package css

import (
	"fmt"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes, double quotes and line breaks are escaped per CSS syntax.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, "\"\\\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Origin is the source of a stylesheet in the cascade. Larger values win
// over smaller ones.
type Origin int

const (
	OriginDefault Origin = iota // user agent stylesheet
	OriginUser
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginUser:
		return "user"
	case OriginAuthor:
		return "author"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// ParseOrigin converts origin name to Origin.
func ParseOrigin(name string) (Origin, error) {
	switch strings.ToLower(name) {
	case "default", "ua", "user-agent":
		return OriginDefault, nil
	case "user":
		return OriginUser, nil
	case "author":
		return OriginAuthor, nil
	}
	return 0, fmt.Errorf("unknown stylesheet origin %q", name)
}

// PseudoElement represents which pseudo-element a selector chain targets.
type PseudoElement int

const (
	PseudoNone   PseudoElement = iota // No pseudo-element
	PseudoBefore                      // :before
	PseudoAfter                       // :after
)

// String returns the pseudo-element name without colons.
func (p PseudoElement) String() string {
	switch p {
	case PseudoBefore:
		return "before"
	case PseudoAfter:
		return "after"
	default:
		return ""
	}
}

// ParsePseudoElement returns pseudo-element for a name. Empty name is
// PseudoNone.
func ParsePseudoElement(name string) (PseudoElement, bool) {
	switch strings.ToLower(name) {
	case "":
		return PseudoNone, true
	case "before":
		return PseudoBefore, true
	case "after":
		return PseudoAfter, true
	}
	return PseudoNone, false
}

// LinkKind distinguishes compound selectors from combinators in a chain.
type LinkKind int

const (
	LinkSimple      LinkKind = iota // type/universal selector with its decorations
	LinkDescendant                  // whitespace
	LinkChild                       // >
	LinkNextSibling                 // +
)

// AttributeMatch is the comparison performed by an attribute selector.
type AttributeMatch int

const (
	AttrExists AttributeMatch = iota // [name]
	AttrExact                        // [name=value]
	AttrWord                         // [name~=value]
	AttrHyphen                       // [name|=value], value or value followed by '-'
	AttrLang                         // [lang|=value], language tag prefix
)

// dashMatchKind returns the kind |= selects for attribute name. Language
// attributes compare as language tags, others as plain hyphen prefixes.
func dashMatchKind(name string) AttributeMatch {
	if strings.EqualFold(name, "lang") {
		return AttrLang
	}
	return AttrHyphen
}

// AttributeSelector is a single [...] predicate.
type AttributeSelector struct {
	Name  string
	Match AttributeMatch
	Value string
}

func (a AttributeSelector) String() string {
	var op string
	switch a.Match {
	case AttrExists:
		return "[" + escapeIdent(a.Name) + "]"
	case AttrExact:
		op = "="
	case AttrWord:
		op = "~="
	case AttrHyphen, AttrLang:
		// kind is restored from the name when read back
		op = "|="
	}
	return "[" + escapeIdent(a.Name) + op + `"` + cssEscapeDoubleQuoted(a.Value) + `"]`
}

// SelectorLink is one element of a selector chain. For LinkSimple all
// fields are predicates which must hold together; Type is empty or "*" for
// the universal selector. Other kinds carry no data.
type SelectorLink struct {
	Kind          LinkKind
	Type          string
	ID            string
	Lang          string // :lang() argument, only set on chains built in code
	Classes       []string
	PseudoClasses []string
	Attributes    []AttributeSelector
}

// IsUniversal reports whether simple link does not constrain element name.
func (l *SelectorLink) IsUniversal() bool {
	return l.Type == "" || l.Type == "*"
}

func (l *SelectorLink) String() string {
	switch l.Kind {
	case LinkDescendant:
		return " "
	case LinkChild:
		return " > "
	case LinkNextSibling:
		return " + "
	}
	var b strings.Builder
	decorated := l.ID != "" || len(l.Classes) > 0 || len(l.PseudoClasses) > 0 || len(l.Attributes) > 0 || l.Lang != ""
	switch {
	case !l.IsUniversal():
		b.WriteString(escapeIdent(l.Type))
	case !decorated:
		b.WriteByte('*')
	}
	if l.ID != "" {
		b.WriteString("#" + escapeName(l.ID, false))
	}
	for _, c := range l.Classes {
		b.WriteString("." + escapeIdent(c))
	}
	for _, a := range l.Attributes {
		b.WriteString(a.String())
	}
	for _, p := range l.PseudoClasses {
		b.WriteString(":" + escapeIdent(p))
	}
	if l.Lang != "" {
		b.WriteString(":lang(" + escapeIdent(l.Lang) + ")")
	}
	return b.String()
}

// SelectorChain is a complex selector: simple links separated by
// combinator links, subject last.
type SelectorChain struct {
	Links         []SelectorLink
	PseudoElement PseudoElement
}

// Subject returns the rightmost simple link.
func (c *SelectorChain) Subject() *SelectorLink {
	if len(c.Links) == 0 {
		return nil
	}
	return &c.Links[len(c.Links)-1]
}

func (c *SelectorChain) String() string {
	var b strings.Builder
	for i := range c.Links {
		b.WriteString(c.Links[i].String())
	}
	if c.PseudoElement != PseudoNone {
		b.WriteString(":" + c.PseudoElement.String())
	}
	return b.String()
}

// PropertyValue is a parsed declaration for a single property.
type PropertyValue interface {
	// PropertyName returns lower-case property name.
	PropertyName() string
	// String returns CSS text of the value.
	String() string
}

// ValueParser turns the tokens of a declaration value into property
// values. Shorthands produce several values. Unknown properties and
// invalid values return false.
type ValueParser interface {
	ParseValue(name string, tokens []Token) ([]PropertyValue, bool)
}

// RawValue keeps declaration tokens as they are. It is produced when
// parser has no ValueParser.
type RawValue struct {
	Name   string
	Tokens []Token
}

func (v *RawValue) PropertyName() string { return v.Name }

func (v *RawValue) String() string {
	return TokensString(v.Tokens)
}

// TokensString serializes tokens back to CSS text.
func TokensString(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// Ruleset is one or more selector chains sharing a declaration block.
type Ruleset struct {
	Selectors []SelectorChain
	Values    []PropertyValue
	Important []PropertyValue
}

// Add appends values to the normal or important list. A value replaces an
// earlier value of the same property in the same list.
func (r *Ruleset) Add(important bool, values ...PropertyValue) {
	list := &r.Values
	if important {
		list = &r.Important
	}
	for _, v := range values {
		name := v.PropertyName()
		kept := (*list)[:0]
		for _, old := range *list {
			if old.PropertyName() != name {
				kept = append(kept, old)
			}
		}
		*list = append(kept, v)
	}
}

// Lookup returns the effective declared value of a property within the
// ruleset, important declarations first.
func (r *Ruleset) Lookup(name string) (PropertyValue, bool) {
	for _, v := range r.Important {
		if v.PropertyName() == name {
			return v, true
		}
	}
	for _, v := range r.Values {
		if v.PropertyName() == name {
			return v, true
		}
	}
	return nil, false
}

// Empty reports whether ruleset has no declarations.
func (r *Ruleset) Empty() bool {
	return len(r.Values) == 0 && len(r.Important) == 0
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string   // font-family value
	Src    []string // absolute URLs and local() references from src
	Style  string   // font-style: normal, italic
	Weight string   // font-weight: normal, bold, 400, 700
}

// StyleSheet is a parsed stylesheet. Rulesets of imported sheets are
// inlined at the position of their @import rule.
type StyleSheet struct {
	Origin    Origin
	BaseURI   string
	Rulesets  []*Ruleset
	FontFaces []FontFace
	Imports   []string // absolute URLs of @import rules in source order
}

// RulesBySelector returns all rulesets having selector chain which
// serializes to the given text.
func (s *StyleSheet) RulesBySelector(selector string) []*Ruleset {
	var matches []*Ruleset
	for _, rs := range s.Rulesets {
		for i := range rs.Selectors {
			if rs.Selectors[i].String() == selector {
				matches = append(matches, rs)
				break
			}
		}
	}
	return matches
}
