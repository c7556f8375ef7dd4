package props

import "strings"

// Builder collects specified values of a node. Values applied later
// replace earlier ones for the same property, so callers apply
// declarations from the lowest priority to the highest.
type Builder struct {
	specified [numIDs]*Value
}

// Reset forgets all applied values.
func (b *Builder) Reset() {
	clear(b.specified[:])
}

// Apply records v as specified value of its property. v is referenced, not
// copied, and must stay unchanged until Compute returns.
func (b *Builder) Apply(v *Value) {
	if v.ID.Valid() {
		b.specified[v.ID] = v
	}
}

// Specified returns value applied for a property.
func (b *Builder) Specified(id ID) (*Value, bool) {
	if !id.Valid() || b.specified[id] == nil {
		return nil, false
	}
	return b.specified[id], true
}

// Compute resolves specified values into out. parent holds the computed
// values of the parent node, nil for the root. Font size is computed first
// against the parent font size; other lengths use the node's own font
// size as em basis.
func (b *Builder) Compute(parent *BoxValues, res Resources, out *BoxValues) {
	dpi := res.DPI()
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := &computer{parent: parent, res: res, out: out, dpi: dpi, scale: dpi / DefaultDPI}

	c.em = c.parentFontSize()
	c.resolve(FontSize, b.specified[FontSize])
	c.em = out.FontSize()
	c.resolve(Color, b.specified[Color])
	for id := ID(1); id < numIDs; id++ {
		if id != FontSize && id != Color {
			c.resolve(id, b.specified[id])
		}
	}
	c.fixup()
}

type computer struct {
	parent *BoxValues
	res    Resources
	out    *BoxValues
	dpi    float64
	scale  float64 // device pixels per CSS pixel
	em     float64
}

func (c *computer) parentFontSize() float64 {
	if c.parent != nil {
		return c.parent.FontSize()
	}
	return c.res.FontSize("medium") * c.scale
}

func (c *computer) resolve(id ID, spec *Value) {
	if spec == nil || spec.Inherit {
		if (spec != nil || id.Inherited()) && c.parent != nil {
			c.out.values[id] = c.parent.values[id]
			return
		}
		iv := initial(id)
		spec = &iv
	}
	v := *spec
	v.ID, v.Inherit = id, false
	c.out.values[id] = c.compute(v)
}

func (c *computer) compute(v Value) Value {
	switch v.ID {
	case FontSize:
		return c.fontSize(v)
	case Color:
		switch {
		case v.Is("initial"):
			return Value{ID: Color, Type: TypeColor, Color: c.res.DefaultColor()}
		case v.Is("currentcolor"):
			if c.parent != nil {
				return c.parent.values[Color]
			}
			return Value{ID: Color, Type: TypeColor, Color: c.res.DefaultColor()}
		}
		return v
	case BackgroundColor, BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor, OutlineColor:
		return c.color(v)
	case FontWeight:
		return c.fontWeight(v)
	case FontFamily:
		return c.fontFamily(v)
	case LineHeight:
		if v.Type == TypeLength && v.Lengths[0].Unit == UnitPercent {
			return lengthWithID(v.ID, Px(c.em*v.Lengths[0].Value/100))
		}
	case Quotes:
		if v.Is("initial") {
			return Value{ID: Quotes, Type: TypeList, List: c.res.DefaultQuotes()}
		}
		return v
	case BackgroundImage, ListStyleImage:
		return c.image(v)
	case BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth, OutlineWidth:
		if v.Type == TypeKeyword {
			return lengthWithID(v.ID, Px(borderWidthPx(v.Keyword)*c.scale))
		}
	}
	switch v.Type {
	case TypeLength:
		v.Lengths[0] = c.length(v.Lengths[0])
	case TypePair:
		v.Lengths[0], v.Lengths[1] = c.length(v.Lengths[0]), c.length(v.Lengths[1])
	case TypeRect:
		for i := range v.Lengths {
			v.Lengths[i] = c.length(v.Lengths[i])
		}
	}
	return v
}

func lengthWithID(id ID, l Length) Value {
	v := lengthValue(l)
	v.ID = id
	return v
}

func borderWidthPx(kw string) float64 {
	switch kw {
	case "thin":
		return 1
	case "thick":
		return 5
	}
	return 3
}

// length converts absolute and font relative units to device pixels.
// Percentages and auto are kept.
func (c *computer) length(l Length) Length {
	switch l.Unit {
	case UnitNone, UnitPx:
		return Px(l.Value * c.scale)
	case UnitEm:
		return Px(l.Value * c.em)
	case UnitEx:
		return Px(l.Value * c.em / 2)
	case UnitIn:
		return Px(l.Value * c.dpi)
	case UnitCm:
		return Px(l.Value * c.dpi / 2.54)
	case UnitMm:
		return Px(l.Value * c.dpi / 25.4)
	case UnitPt:
		return Px(l.Value * c.dpi / 72)
	case UnitPc:
		return Px(l.Value * c.dpi / 6)
	}
	return l
}

// fontSize is computed while c.em holds the parent font size.
func (c *computer) fontSize(v Value) Value {
	parent := c.em
	var size float64
	switch {
	case v.Type == TypeKeyword && v.Keyword == "larger":
		size = c.res.LargerFontSize(parent)
	case v.Type == TypeKeyword && v.Keyword == "smaller":
		size = c.res.SmallerFontSize(parent)
	case v.Type == TypeKeyword:
		size = c.res.FontSize(v.Keyword) * c.scale
	case v.Lengths[0].Unit == UnitPercent:
		size = parent * v.Lengths[0].Value / 100
	default:
		size = c.length(v.Lengths[0]).Value
	}
	return lengthWithID(FontSize, Px(size))
}

func (c *computer) color(v Value) Value {
	switch {
	case v.Is("currentcolor"):
		return Value{ID: v.ID, Type: TypeColor, Color: c.out.Color()}
	case v.Is("transparent"):
		return Value{ID: v.ID, Type: TypeColor}
	}
	return v
}

// fontWeight computes numeric weight; bolder and lighter are relative to
// the parent weight.
func (c *computer) fontWeight(v Value) Value {
	parent := 400.0
	if c.parent != nil {
		parent = c.parent.values[FontWeight].Number
	}
	w := v.Number
	if v.Type == TypeKeyword {
		switch v.Keyword {
		case "normal":
			w = 400
		case "bold":
			w = 700
		case "bolder":
			switch {
			case parent < 400:
				w = 400
			case parent < 600:
				w = 700
			default:
				w = 900
			}
		case "lighter":
			switch {
			case parent < 600:
				w = 100
			case parent < 800:
				w = 400
			default:
				w = 700
			}
		}
	}
	n := numberValue(w)
	n.ID = FontWeight
	return n
}

// fontFamily drops families which are not installed when resources can
// enumerate them. Generic families are always kept.
func (c *computer) fontFamily(v Value) Value {
	installed := c.res.FontFamilies()
	if installed == nil || v.Type != TypeList {
		return v
	}
	var kept []string
	for _, name := range v.List {
		if isGenericFamily(name) {
			kept = append(kept, name)
			continue
		}
		for _, inst := range installed {
			if strings.EqualFold(inst, name) {
				kept = append(kept, name)
				break
			}
		}
	}
	if len(kept) == 0 {
		if c.parent != nil {
			return c.parent.values[FontFamily]
		}
		return initial(FontFamily)
	}
	v.List = kept
	return v
}

// image loads image and records its intrinsic size. Images which cannot be
// loaded compute to none.
func (c *computer) image(v Value) Value {
	if v.Type != TypeURL {
		return v
	}
	img, err := c.res.LoadImage(v.URL)
	if err != nil {
		none := keyword("none")
		none.ID = v.ID
		return none
	}
	v.Lengths[0], v.Lengths[1] = Px(float64(img.Width)), Px(float64(img.Height))
	return v
}

var borderSidesIDs = [...][2]ID{
	{BorderTopStyle, BorderTopWidth},
	{BorderRightStyle, BorderRightWidth},
	{BorderBottomStyle, BorderBottomWidth},
	{BorderLeftStyle, BorderLeftWidth},
	{OutlineStyle, OutlineWidth},
}

func (c *computer) fixup() {
	for _, s := range borderSidesIDs {
		if style := c.out.Keyword(s[0]); style == "none" || style == "hidden" {
			c.out.values[s[1]] = lengthWithID(s[1], Px(0))
		}
	}

	display := c.out.Display()
	if display == "none" {
		return
	}
	switch {
	case c.out.Keyword(Position) == "absolute" || c.out.Keyword(Position) == "fixed":
		c.setKeyword(Float, "none")
		c.setKeyword(Display, blockify(display))
	case c.out.Keyword(Float) != "none":
		c.setKeyword(Display, blockify(display))
	case c.parent == nil:
		c.setKeyword(Display, blockify(display))
	}
}

func (c *computer) setKeyword(id ID, kw string) {
	v := keyword(kw)
	v.ID = id
	c.out.values[id] = v
}

// blockify maps display of floated, absolutely positioned and root
// elements.
func blockify(display string) string {
	switch display {
	case "inline-table":
		return "table"
	case "inline-flex":
		return "flex"
	case "inline", "run-in", "table-row-group", "table-column", "table-column-group",
		"table-header-group", "table-footer-group", "table-row", "table-cell",
		"table-caption", "inline-block":
		return "block"
	}
	return display
}

// Initial computes values of a node without declarations and without
// parent.
func Initial(res Resources) *BoxValues {
	var (
		b   Builder
		out BoxValues
	)
	b.Compute(nil, res, &out)
	return &out
}
