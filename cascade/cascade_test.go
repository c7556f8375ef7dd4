package cascade_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssc/cascade"
	"cssc/css"
	"cssc/dom"
	"cssc/props"
)

const page = `<html><body>
<div id="box" class="x y"><p id="para" class="x">text</p></div>
</body></html>`

type fixture struct {
	doc    *cascade.Document
	parser *css.Parser
	html   *dom.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	html, err := dom.ParseHTML(strings.NewReader(page), "", "")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	return &fixture{
		doc:    cascade.NewDocument(zap.NewNop()),
		parser: css.NewParser(zap.NewNop(), css.WithValueParser(props.NewRegistry(zap.NewNop()))),
		html:   html,
	}
}

func (f *fixture) add(t *testing.T, origin css.Origin, text string) {
	t.Helper()
	sheet, err := f.parser.Parse([]byte(text), origin, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	f.doc.AddSheet(sheet)
}

func (f *fixture) selectID(id string, pseudo css.PseudoElement) cascade.Result {
	return f.doc.Select(dom.NewCursor(f.html.ByID(id)), pseudo)
}

func winner(t *testing.T, r cascade.Result, name string) string {
	t.Helper()
	v, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("no value for %s", name)
	}
	return v.String()
}

func TestSelect_Specificity(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `#box.x.y { color: red } div.x.y { color: blue }`)
	if got := winner(t, f.selectID("box", css.PseudoNone), "color"); got != "#ff0000" {
		t.Errorf("color = %s, want red from #box.x.y", got)
	}
}

func TestSelect_DocumentOrder(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `.x { color: red } .x { color: blue }`)
	if got := winner(t, f.selectID("para", css.PseudoNone), "color"); got != "#0000ff" {
		t.Errorf("color = %s, want blue", got)
	}

	// order continues across sheets
	f.add(t, css.OriginAuthor, `.x { color: green }`)
	if got := winner(t, f.selectID("para", css.PseudoNone), "color"); got != "#008000" {
		t.Errorf("color = %s, want green from later sheet", got)
	}
}

func TestSelect_Important(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `.x { color: red !important } #para { color: blue }`)
	if got := winner(t, f.selectID("para", css.PseudoNone), "color"); got != "#ff0000" {
		t.Errorf("color = %s, want important red", got)
	}
}

func TestSelect_ImportantAcrossOrigins(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `p { width: 1px !important; height: 1px }`)
	f.add(t, css.OriginUser, `p { width: 2px !important; height: 2px !important }`)

	r := f.selectID("para", css.PseudoNone)
	if got := winner(t, r, "width"); got != "1px" {
		t.Errorf("width = %s, want author important over user important", got)
	}
	if got := winner(t, r, "height"); got != "2px" {
		t.Errorf("height = %s, want user important over author normal", got)
	}
}

func TestSelect_Origins(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `p { color: red; margin-left: 1px }`)
	f.add(t, css.OriginUser, `#para.x { color: blue; margin-left: 2px !important }`)
	f.add(t, css.OriginDefault, `html body div#box p#para.x { color: green; width: 5px }`)

	r := f.selectID("para", css.PseudoNone)
	if got := winner(t, r, "color"); got != "#ff0000" {
		t.Errorf("color = %s, want author red regardless of specificity", got)
	}
	if got := winner(t, r, "margin-left"); got != "2px" {
		t.Errorf("margin-left = %s, want user important", got)
	}
	if got := winner(t, r, "width"); got != "5px" {
		t.Errorf("width = %s, want default", got)
	}

	m := r.Matches()
	if len(m) != 3 || m[0].Origin != css.OriginAuthor || m[1].Origin != css.OriginUser || m[2].Origin != css.OriginDefault {
		t.Fatalf("matches are not ordered by origin: %+v", m)
	}
	if m[2].Specificity != (css.Specificity{B: 2, C: 1, D: 4}) {
		t.Errorf("specificity = %v", m[2].Specificity)
	}
}

func TestSelect_Order(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginDefault, `p { width: 1px !important; height: 1px }`)
	f.add(t, css.OriginAuthor, `p { width: 2px; height: 2px !important }`)
	r := f.selectID("para", css.PseudoNone)

	var got []string
	for v := range r.All() {
		got = append(got, v.PropertyName()+":"+v.String())
	}
	want := []string{"height:2px", "width:1px", "width:2px", "height:1px"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("All() = %v, want %v", got, want)
	}

	got = got[:0]
	for v := range r.Backward() {
		got = append(got, v.PropertyName()+":"+v.String())
	}
	want = []string{"height:1px", "width:2px", "width:1px", "height:2px"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Backward() = %v, want %v", got, want)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestSelect_Inline(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `#para { color: red; width: 1px !important }`)
	f.add(t, css.OriginUser, `p { height: 3px !important }`)
	inline := f.parser.ParseInline([]byte(`color: blue; width: 2px; height: 4px`), "")

	r := f.selectID("para", css.PseudoNone).WithInline(inline)
	if got := winner(t, r, "color"); got != "#0000ff" {
		t.Errorf("color = %s, want inline blue over author normal", got)
	}
	if got := winner(t, r, "width"); got != "1px" {
		t.Errorf("width = %s, want author important over inline normal", got)
	}
	if got := winner(t, r, "height"); got != "3px" {
		t.Errorf("height = %s, want user important over inline normal", got)
	}

	important := f.parser.ParseInline([]byte(`width: 9px !important`), "")
	r = r.WithInline(important)
	if got := winner(t, r, "width"); got != "9px" {
		t.Errorf("width = %s, want inline important", got)
	}
	if r.Inline() != important {
		t.Error("Inline() does not return merged ruleset")
	}
}

func TestSelect_PseudoElement(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `p { color: red } p:before { content: "x"; color: blue } p:after { color: green }`)
	if got := winner(t, f.selectID("para", css.PseudoBefore), "color"); got != "#0000ff" {
		t.Errorf(":before color = %s", got)
	}
	if got := winner(t, f.selectID("para", css.PseudoNone), "color"); got != "#ff0000" {
		t.Errorf("element color = %s", got)
	}
	if r := f.selectID("box", css.PseudoAfter); !r.Empty() {
		t.Errorf("div:after has %d values", r.Len())
	}
}

func TestSelect_HighestMatchingSelector(t *testing.T) {
	f := newFixture(t)
	f.add(t, css.OriginAuthor, `p, #para { color: red } .x { color: blue }`)
	if got := winner(t, f.selectID("para", css.PseudoNone), "color"); got != "#ff0000" {
		t.Errorf("color = %s, want red from #para in selector group", got)
	}
}
