package css_test

import (
	"slices"
	"testing"

	"go.uber.org/zap"

	"cssc/css"
)

// elem is a minimal document element used to exercise the matcher.
type elem struct {
	name     string
	id       string
	lang     string
	classes  []string
	pseudo   []string
	attrs    map[string]string
	parent   *elem
	children []*elem
}

func el(name string, children ...*elem) *elem {
	e := &elem{name: name, attrs: map[string]string{}}
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

func (e *elem) withID(id string) *elem            { e.id = id; return e }
func (e *elem) withClass(c ...string) *elem       { e.classes = append(e.classes, c...); return e }
func (e *elem) withPseudo(p ...string) *elem      { e.pseudo = append(e.pseudo, p...); return e }
func (e *elem) withAttr(name, value string) *elem { e.attrs[name] = value; return e }

// cursor implements css.Node over elem.
type cursor struct {
	cur   *elem
	stack []*elem
}

func at(e *elem) *cursor { return &cursor{cur: e} }

func (c *cursor) Name() string            { return c.cur.name }
func (c *cursor) ID() string              { return c.cur.id }
func (c *cursor) Classes() []string       { return c.cur.classes }
func (c *cursor) PseudoClasses() []string { return c.cur.pseudo }

func (c *cursor) Lang() string {
	for e := c.cur; e != nil; e = e.parent {
		if e.lang != "" {
			return e.lang
		}
	}
	return ""
}

func (c *cursor) Attribute(name string) (string, bool) {
	v, ok := c.cur.attrs[name]
	return v, ok
}

func (c *cursor) Parent() bool {
	if c.cur.parent == nil {
		return false
	}
	c.cur = c.cur.parent
	return true
}

func (c *cursor) PrevSibling() bool {
	if c.cur.parent == nil {
		return false
	}
	i := slices.Index(c.cur.parent.children, c.cur)
	if i <= 0 {
		return false
	}
	c.cur = c.cur.parent.children[i-1]
	return true
}

func (c *cursor) Push() { c.stack = append(c.stack, c.cur) }

func (c *cursor) Pop() {
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func mustChain(t *testing.T, sel string) *css.SelectorChain {
	t.Helper()
	chain, err := css.NewParser(zap.NewNop()).ParseSelector(sel)
	if err != nil {
		t.Fatalf("ParseSelector(%q) error = %v", sel, err)
	}
	return &chain
}

func TestMatch_Combinators(t *testing.T) {
	pDirect := el("p")
	pNested := el("p")
	span := el("span", pNested)
	h1 := el("h1")
	afterH1 := el("em")
	div := el("div", pDirect, span, h1, afterH1)
	el("body", div)

	tests := []struct {
		sel  string
		node *elem
		want bool
	}{
		{"div > p", pDirect, true},
		{"div > p", pNested, false},
		{"div p", pNested, true},
		{"body p", pNested, true},
		{"body > div > span > p", pNested, true},
		{"body > span p", pNested, false},
		{"body div span p", pNested, true},
		{"html p", pNested, false},
		{"h1 + em", afterH1, true},
		{"p + em", afterH1, false},
		{"p + span", span, true},
		{"div > h1 + em", afterH1, true},
		{"span + h1 + em", afterH1, true},
		{"p + em", pDirect, false},
		{"*", pNested, true},
		{"body *", pNested, true},
		{"DIV > P", pDirect, true},
	}
	for _, tt := range tests {
		c := at(tt.node)
		if got := css.Match(mustChain(t, tt.sel), c); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.sel, got, tt.want)
		}
		if c.cur != tt.node || len(c.stack) != 0 {
			t.Errorf("Match(%q) did not restore cursor", tt.sel)
		}
	}
}

func TestMatch_DescendantBacktracking(t *testing.T) {
	// a.x > b is satisfied only by the outer a, the nearest a ancestor does
	// not have the class; the matcher must keep walking after the first
	// candidate fails.
	target := el("c")
	inner := el("b", target)
	innerA := el("a", inner)
	outerB := el("b", innerA)
	el("a", outerB).withClass("x")

	if !css.Match(mustChain(t, "a.x > b c"), at(target)) {
		t.Error("expected a.x > b c to match through outer ancestors")
	}
	if css.Match(mustChain(t, "a.x > b > c"), at(target)) {
		t.Error("a.x > b > c must not match")
	}
}

func TestMatch_SimplePredicates(t *testing.T) {
	node := el("li").withID("Main").withClass("red", "level").withPseudo("first-child", "hover").
		withAttr("title", "Hello World").withAttr("lang", "en-US").withAttr("rel", "next-page")
	el("ul", node)

	tests := []struct {
		sel  string
		want bool
	}{
		{"li", true},
		{"ol", false},
		{"#Main", true},
		{"#main", false},
		{".red", true},
		{".red.level", true},
		{".red.blue", false},
		{".RED", false},
		{":first-child", true},
		{"li:HOVER", true},
		{":focus", false},
		{"[title]", true},
		{"[missing]", false},
		{`[title="hello world"]`, true},
		{"[title=Hello]", false},
		{"[title~=World]", true},
		{"[title~=Wor]", false},
		{"[lang|=en]", true},
		{"[lang|=en-us]", true},
		{"[lang|=e]", false},
		{"[rel|=next]", true},
		{"li#Main.red:first-child[title]", true},
		{"li#Main.red:focus[title]", false},
	}
	for _, tt := range tests {
		if got := css.Match(mustChain(t, tt.sel), at(node)); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.sel, got, tt.want)
		}
	}
}

func TestMatch_LangAttribute(t *testing.T) {
	for _, tt := range []struct {
		value string
		want  bool
	}{
		{"en", true},
		{"en-US", true},
		{"EN-gb", true},
		{"english", false},
		{"fr", false},
	} {
		node := el("p").withAttr("lang", tt.value)
		if got := css.Match(mustChain(t, "[lang|=en]"), at(node)); got != tt.want {
			t.Errorf("[lang|=en] on %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestMatch_ProgrammaticLinks(t *testing.T) {
	node := el("p").withAttr("class", "level-top")
	node.lang = "de-AT"
	el("body", node)

	chain := &css.SelectorChain{Links: []css.SelectorLink{{
		Kind: css.LinkSimple,
		Lang: "de",
		Attributes: []css.AttributeSelector{
			{Name: "class", Match: css.AttrHyphen, Value: "level"},
		},
	}}}
	if !css.Match(chain, at(node)) {
		t.Error("expected lang and hyphen prefix predicates to match")
	}
	chain.Links[0].Attributes[0].Value = "lev"
	if css.Match(chain, at(node)) {
		t.Error("partial hyphen segment must not match")
	}
	if css.Match(&css.SelectorChain{}, at(node)) {
		t.Error("empty chain must not match")
	}
}

func TestMatch_HyphenPrefix(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"level", true},
		{"level-x", true},
		{"level-top-x", true},
		{"top-level-x", false},
		{"top-level", false},
		{"levelx", false},
		{"Level", false},
	}
	for _, tt := range tests {
		node := el("p").withAttr("class", tt.value)
		if got := css.Match(mustChain(t, "[class|=level]"), at(node)); got != tt.want {
			t.Errorf("[class|=level] on %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestAttributeSelector_DashMatchRoundTrip(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	for _, attr := range []css.AttributeSelector{
		{Name: "class", Match: css.AttrHyphen, Value: "level"},
		{Name: "lang", Match: css.AttrLang, Value: "en"},
	} {
		chain, err := p.ParseSelector(attr.String())
		if err != nil {
			t.Fatalf("ParseSelector(%q) error = %v", attr.String(), err)
		}
		if got := chain.Subject().Attributes; len(got) != 1 || got[0] != attr {
			t.Errorf("%q read back as %+v, want %+v", attr.String(), got, attr)
		}
	}
}
