package props_test

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"go.uber.org/zap"

	"cssc/css"
	"cssc/props"
)

// compute parses a style attribute body and computes it against parent.
func compute(t *testing.T, res props.Resources, parent *props.BoxValues, style string) *props.BoxValues {
	t.Helper()
	p := css.NewParser(zap.NewNop(), css.WithValueParser(props.NewRegistry(zap.NewNop())))
	rs := p.ParseInline([]byte(style), "")
	var b props.Builder
	for _, list := range [][]css.PropertyValue{rs.Values, rs.Important} {
		for _, v := range list {
			b.Apply(v.(*props.Value))
		}
	}
	var out props.BoxValues
	b.Compute(parent, res, &out)
	return &out
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompute_Inheritance(t *testing.T) {
	res := &props.StaticResources{}
	root := compute(t, res, nil, "color: red; margin-left: 5px; font-style: italic")
	child := compute(t, res, root, "")

	if child.Color() != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("child color = %v, want inherited red", child.Color())
	}
	if got := child.Length(props.MarginLeft); got != props.Px(0) {
		t.Errorf("child margin-left = %v, want initial 0px", got)
	}
	if child.Keyword(props.FontStyle) != "italic" {
		t.Errorf("child font-style = %q, want italic", child.Keyword(props.FontStyle))
	}

	explicit := compute(t, res, root, "margin-left: inherit")
	if got := explicit.Length(props.MarginLeft); got != props.Px(5) {
		t.Errorf("margin-left: inherit = %v, want 5px", got)
	}

	rootInherit := compute(t, res, nil, "margin-left: inherit; color: inherit")
	if got := rootInherit.Length(props.MarginLeft); got != props.Px(0) {
		t.Errorf("root margin-left: inherit = %v, want initial", got)
	}
	if rootInherit.Color() != (color.RGBA{A: 255}) {
		t.Errorf("root color: inherit = %v, want default black", rootInherit.Color())
	}
}

func TestCompute_FontRelativeUnits(t *testing.T) {
	res := &props.StaticResources{}
	parent := compute(t, res, nil, "font-size: 20px")

	child := compute(t, res, parent, "font-size: 2em; margin-left: 1em; padding-top: 2ex; text-indent: 10%")
	if got := child.FontSize(); !near(got, 40) {
		t.Errorf("font-size: 2em = %v, want 40", got)
	}
	if got := child.Length(props.MarginLeft).Value; !near(got, 40) {
		t.Errorf("margin-left: 1em = %v, want 40 (own font size)", got)
	}
	if got := child.Length(props.PaddingTop).Value; !near(got, 40) {
		t.Errorf("padding-top: 2ex = %v, want 40", got)
	}
	if got := child.Length(props.TextIndent); got != props.Percent(10) {
		t.Errorf("text-indent = %v, want 10%%", got)
	}

	pct := compute(t, res, parent, "font-size: 150%; line-height: 120%")
	if got := pct.FontSize(); !near(got, 30) {
		t.Errorf("font-size: 150%% = %v, want 30", got)
	}
	if got := pct.Length(props.LineHeight).Value; !near(got, 36) {
		t.Errorf("line-height: 120%% = %v, want 36", got)
	}
	number := compute(t, res, parent, "line-height: 1.2")
	if v := number.Get(props.LineHeight); v.Type != props.TypeNumber || v.Number != 1.2 {
		t.Errorf("line-height: 1.2 computed to %s", v.String())
	}
}

func TestCompute_FontSizeKeywords(t *testing.T) {
	res := &props.StaticResources{MediumSize: 16}
	root := compute(t, res, nil, "")
	if got := root.FontSize(); !near(got, 16) {
		t.Errorf("initial font size = %v, want 16", got)
	}
	tests := []struct {
		value string
		want  float64
	}{
		{"large", 19.2},
		{"xx-small", 9.6},
		{"xx-large", 32},
		{"larger", 19.2},
		{"smaller", 16 / 1.2},
	}
	for _, tt := range tests {
		got := compute(t, res, root, "font-size: "+tt.value).FontSize()
		if !near(got, tt.want) {
			t.Errorf("font-size: %s = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCompute_AbsoluteUnitsAndDPI(t *testing.T) {
	tests := []struct {
		dpi   float64
		value string
		want  float64
	}{
		{0, "10px", 10},
		{0, "1in", 96},
		{0, "72pt", 96},
		{0, "2.54cm", 96},
		{0, "25.4mm", 96},
		{0, "6pc", 96},
		{192, "10px", 20},
		{192, "1in", 192},
		{192, "36pt", 96},
	}
	for _, tt := range tests {
		res := &props.StaticResources{Resolution: tt.dpi}
		got := compute(t, res, nil, "width: "+tt.value).Length(props.Width)
		if got.Unit != props.UnitPx || !near(got.Value, tt.want) {
			t.Errorf("dpi %v width: %s = %v, want %vpx", tt.dpi, tt.value, got, tt.want)
		}
	}
}

func TestCompute_Borders(t *testing.T) {
	res := &props.StaticResources{}
	box := compute(t, res, nil, "color: blue; border-top: 2px solid; border-left-width: thick")
	if got := box.Length(props.BorderTopWidth); got != props.Px(2) {
		t.Errorf("border-top-width = %v, want 2px", got)
	}
	if got := box.Length(props.BorderLeftWidth); got != props.Px(0) {
		t.Errorf("border-left-width with style none = %v, want 0", got)
	}
	if got := box.Length(props.OutlineWidth); got != props.Px(0) {
		t.Errorf("outline-width with style none = %v, want 0", got)
	}
	if got := box.Get(props.BorderTopColor).Color; got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("border-top-color = %v, want color of the element", got)
	}

	thick := compute(t, res, nil, "border-style: solid; border-width: thin medium thick")
	for id, want := range map[props.ID]float64{
		props.BorderTopWidth:    1,
		props.BorderRightWidth:  3,
		props.BorderBottomWidth: 5,
		props.BorderLeftWidth:   3,
	} {
		if got := thick.Length(id); got != props.Px(want) {
			t.Errorf("%s = %v, want %vpx", id, got, want)
		}
	}
}

func TestCompute_DisplayFixup(t *testing.T) {
	res := &props.StaticResources{}
	root := compute(t, res, nil, "display: inline")
	if root.Display() != "block" {
		t.Errorf("root display = %q, want block", root.Display())
	}
	tests := []struct {
		style   string
		display string
		float   string
	}{
		{"", "inline", "none"},
		{"float: left", "block", "left"},
		{"float: left; display: inline-table", "table", "left"},
		{"position: absolute; float: right; display: table-cell", "block", "none"},
		{"position: fixed; display: inline-flex", "flex", "none"},
		{"position: relative; display: inline", "inline", "none"},
		{"float: left; display: none", "none", "left"},
		{"float: right; display: list-item", "list-item", "right"},
	}
	for _, tt := range tests {
		box := compute(t, res, root, tt.style)
		if box.Display() != tt.display || box.Keyword(props.Float) != tt.float {
			t.Errorf("%q: display %q float %q, want %q %q", tt.style, box.Display(), box.Keyword(props.Float), tt.display, tt.float)
		}
	}
}

func TestCompute_FontWeight(t *testing.T) {
	res := &props.StaticResources{}
	root := compute(t, res, nil, "")
	tests := []struct {
		parent string
		value  string
		want   float64
	}{
		{"normal", "bold", 700},
		{"normal", "bolder", 700},
		{"bold", "bolder", 900},
		{"300", "bolder", 400},
		{"bold", "lighter", 400},
		{"normal", "lighter", 100},
		{"900", "lighter", 700},
	}
	for _, tt := range tests {
		parent := compute(t, res, root, "font-weight: "+tt.parent)
		got := compute(t, res, parent, "font-weight: "+tt.value).Get(props.FontWeight).Number
		if got != tt.want {
			t.Errorf("%s under %s = %v, want %v", tt.value, tt.parent, got, tt.want)
		}
	}
}

func TestCompute_ColorsAndQuotes(t *testing.T) {
	res := &props.StaticResources{Foreground: color.RGBA{R: 1, G: 2, B: 3, A: 255}, Quotes: []string{"«", "»"}}
	root := compute(t, res, nil, "background-color: currentColor")
	if root.Color() != res.Foreground {
		t.Errorf("initial color = %v, want %v", root.Color(), res.Foreground)
	}
	if got := root.Get(props.BackgroundColor).Color; got != res.Foreground {
		t.Errorf("background-color: currentColor = %v", got)
	}
	if got := root.Get(props.Quotes).List; !slices.Equal(got, res.Quotes) {
		t.Errorf("initial quotes = %v, want %v", got, res.Quotes)
	}
	if v := root.Get(props.OutlineColor); v.Keyword != "invert" {
		t.Errorf("outline-color = %s, want invert", v.String())
	}

	child := compute(t, res, compute(t, res, nil, "color: green"), "color: currentColor; background-color: transparent")
	if child.Color() != (color.RGBA{G: 128, A: 255}) {
		t.Errorf("color: currentColor = %v, want parent green", child.Color())
	}
	if got := child.Get(props.BackgroundColor); got.Type != props.TypeColor || got.Color != (color.RGBA{}) {
		t.Errorf("background-color: transparent = %s", got.String())
	}
}

func TestCompute_FontFamilyFilter(t *testing.T) {
	res := &props.StaticResources{Families: []string{"Georgia", "DejaVu Sans"}}
	root := compute(t, res, nil, "font-family: Missing, georgia, monospace")
	if got := root.Get(props.FontFamily).List; !slices.Equal(got, []string{"georgia", "monospace"}) {
		t.Errorf("filtered families = %v", got)
	}
	child := compute(t, res, root, "font-family: Unknown")
	if got := child.Get(props.FontFamily).List; !slices.Equal(got, []string{"georgia", "monospace"}) {
		t.Errorf("unknown family did not fall back to parent: %v", got)
	}

	unfiltered := compute(t, &props.StaticResources{}, nil, "font-family: Missing")
	if got := unfiltered.Get(props.FontFamily).List; !slices.Equal(got, []string{"Missing"}) {
		t.Errorf("families without enumeration = %v", got)
	}
}

func TestCompute_Images(t *testing.T) {
	res := &props.StaticResources{Images: map[string]props.Image{"http://x/a.png": {Width: 10, Height: 20}}}
	box := compute(t, res, nil, `background-image: url(http://x/a.png); list-style-image: url(http://x/missing.png)`)
	bg := box.Get(props.BackgroundImage)
	if bg.Type != props.TypeURL || bg.Lengths[0] != props.Px(10) || bg.Lengths[1] != props.Px(20) {
		t.Errorf("background-image = %s %v", bg.String(), bg.Lengths)
	}
	if v := box.Get(props.ListStyleImage); !v.Is("none") {
		t.Errorf("missing list-style-image = %s, want none", v.String())
	}
}

func TestCompute_LaterApplyWins(t *testing.T) {
	reg := props.NewRegistry(zap.NewNop())
	red, _ := reg.Parse("color", tokens("red"))
	blue, _ := reg.Parse("color", tokens("blue"))

	var b props.Builder
	b.Apply(&red[0])
	b.Apply(&blue[0])
	var out props.BoxValues
	b.Compute(nil, &props.StaticResources{}, &out)
	if out.Color() != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("color = %v, want last applied blue", out.Color())
	}

	b.Reset()
	if _, ok := b.Specified(props.Color); ok {
		t.Error("Reset did not clear specified values")
	}
}

func TestBoxValues_Groups(t *testing.T) {
	box := props.Initial(&props.StaticResources{})
	total := 0
	for _, g := range props.Groups() {
		vals := box.Group(g)
		if len(vals) == 0 {
			t.Errorf("group %s is empty", g)
		}
		for _, v := range vals {
			if v.ID.Group() != g {
				t.Errorf("%s reported in group %s", v.ID, g)
			}
		}
		total += len(vals)
	}
	if total != props.Count {
		t.Errorf("groups cover %d properties, want %d", total, props.Count)
	}
	if !box.Equal(props.Initial(&props.StaticResources{})) {
		t.Error("initial boxes differ")
	}
}
