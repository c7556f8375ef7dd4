package props

import (
	"slices"

	"cssc/css"
)

type shorthand struct {
	longhands []ID
	expand    func(c []component) ([]Value, bool)
}

var shorthands = map[string]shorthand{
	"margin":        box4(MarginTop, MarginRight, MarginBottom, MarginLeft),
	"padding":       box4(PaddingTop, PaddingRight, PaddingBottom, PaddingLeft),
	"border-width":  box4(BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth),
	"border-style":  box4(BorderTopStyle, BorderRightStyle, BorderBottomStyle, BorderLeftStyle),
	"border-color":  box4(BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor),
	"border-top":    borderSides(side{BorderTopWidth, BorderTopStyle, BorderTopColor}),
	"border-right":  borderSides(side{BorderRightWidth, BorderRightStyle, BorderRightColor}),
	"border-bottom": borderSides(side{BorderBottomWidth, BorderBottomStyle, BorderBottomColor}),
	"border-left":   borderSides(side{BorderLeftWidth, BorderLeftStyle, BorderLeftColor}),
	"border": borderSides(
		side{BorderTopWidth, BorderTopStyle, BorderTopColor},
		side{BorderRightWidth, BorderRightStyle, BorderRightColor},
		side{BorderBottomWidth, BorderBottomStyle, BorderBottomColor},
		side{BorderLeftWidth, BorderLeftStyle, BorderLeftColor},
	),
	"outline":       borderSides(side{OutlineWidth, OutlineStyle, OutlineColor}),
	"border-radius": {longhands: []ID{BorderTopLeftRadius, BorderTopRightRadius, BorderBottomRightRadius, BorderBottomLeftRadius}, expand: borderRadius},
	"background": {
		longhands: []ID{BackgroundColor, BackgroundImage, BackgroundRepeat, BackgroundAttachment, BackgroundPosition},
		expand:    background,
	},
	"font": {
		longhands: []ID{FontStyle, FontVariant, FontWeight, FontSize, LineHeight, FontFamily},
		expand:    font,
	},
	"list-style": {longhands: []ID{ListStyleType, ListStylePosition, ListStyleImage}, expand: listStyle},
	"flex":       {longhands: []ID{FlexGrow, FlexShrink, FlexBasis}, expand: flex},
	"flex-flow":  {longhands: []ID{FlexDirection, FlexWrap}, expand: anyOrder(FlexDirection, FlexWrap)},
}

// IsShorthand reports whether name is a supported shorthand property.
func IsShorthand(name string) bool {
	_, ok := shorthands[name]
	return ok
}

// Longhands returns properties set by a shorthand.
func Longhands(name string) []ID {
	return slices.Clone(shorthands[name].longhands)
}

func parseAs(id ID, c []component) (Value, bool) {
	v, ok := descriptors[id].parse(c)
	v.ID = id
	return v, ok
}

func initial(id ID) Value {
	return descriptors[id].initial
}

// box4 expands 1 to 4 values into top, right, bottom and left.
func box4(top, right, bottom, left ID) shorthand {
	ids := []ID{top, right, bottom, left}
	return shorthand{longhands: ids, expand: func(c []component) ([]Value, bool) {
		if len(c) == 0 || len(c) > 4 {
			return nil, false
		}
		parsed := make([]Value, len(c))
		for i := range c {
			v, ok := parseAs(top, c[i:i+1])
			if !ok {
				return nil, false
			}
			parsed[i] = v
		}
		// index of the specified value used for each side
		var from [4]int
		switch len(c) {
		case 1:
			from = [4]int{0, 0, 0, 0}
		case 2:
			from = [4]int{0, 1, 0, 1}
		case 3:
			from = [4]int{0, 1, 2, 1}
		case 4:
			from = [4]int{0, 1, 2, 3}
		}
		out := make([]Value, 4)
		for i, id := range ids {
			out[i] = parsed[from[i]].Clone()
			out[i].ID = id
		}
		return out, true
	}}
}

type side struct{ width, style, color ID }

// borderSides expands "width || style || color" onto every given side.
// Omitted parts are reset to initial values.
func borderSides(sides ...side) shorthand {
	var ids []ID
	for _, s := range sides {
		ids = append(ids, s.width, s.style, s.color)
	}
	first := sides[0]
	return shorthand{longhands: ids, expand: func(c []component) ([]Value, bool) {
		vals, ok := anyOrderValues(c, first.width, first.style, first.color)
		if !ok {
			return nil, false
		}
		out := make([]Value, 0, len(ids))
		for _, s := range sides {
			for i, id := range []ID{s.width, s.style, s.color} {
				v := vals[i].Clone()
				v.ID = id
				out = append(out, v)
			}
		}
		return out, true
	}}
}

// anyOrder expands components each of which matches exactly one of ids,
// at most once per id.
func anyOrder(ids ...ID) func(c []component) ([]Value, bool) {
	return func(c []component) ([]Value, bool) {
		return anyOrderValues(c, ids...)
	}
}

func anyOrderValues(c []component, ids ...ID) ([]Value, bool) {
	if len(c) == 0 || len(c) > len(ids) {
		return nil, false
	}
	vals := make([]Value, len(ids))
	set := make([]bool, len(ids))
next:
	for i := range c {
		for j, id := range ids {
			if set[j] {
				continue
			}
			if v, ok := parseAs(id, c[i:i+1]); ok {
				vals[j], set[j] = v, true
				continue next
			}
		}
		return nil, false
	}
	for j, id := range ids {
		if !set[j] {
			vals[j] = initial(id)
		}
	}
	return vals, true
}

// borderRadius parses 1 to 4 horizontal radii, optionally followed by '/'
// and 1 to 4 vertical radii.
func borderRadius(c []component) ([]Value, bool) {
	h, v := c, []component(nil)
	for i := range c {
		if c[i].tok.Kind == css.TokenDelim && c[i].tok.Value == "/" {
			h, v = c[:i], c[i+1:]
			if len(v) == 0 {
				return nil, false
			}
			break
		}
	}
	expand := func(c []component) ([4]Length, bool) {
		var out [4]Length
		if len(c) == 0 || len(c) > 4 {
			return out, false
		}
		ls := make([]Length, len(c))
		for i := range c {
			l, ok := length(c[i], allowPercent)
			if !ok {
				return out, false
			}
			ls[i] = l
		}
		switch len(ls) {
		case 1:
			out = [4]Length{ls[0], ls[0], ls[0], ls[0]}
		case 2:
			out = [4]Length{ls[0], ls[1], ls[0], ls[1]}
		case 3:
			out = [4]Length{ls[0], ls[1], ls[2], ls[1]}
		case 4:
			out = [4]Length{ls[0], ls[1], ls[2], ls[3]}
		}
		return out, true
	}
	hs, ok := expand(h)
	if !ok {
		return nil, false
	}
	vs := hs
	if v != nil {
		if vs, ok = expand(v); !ok {
			return nil, false
		}
	}
	ids := []ID{BorderTopLeftRadius, BorderTopRightRadius, BorderBottomRightRadius, BorderBottomLeftRadius}
	out := make([]Value, 4)
	for i, id := range ids {
		out[i] = pairValue(hs[i], vs[i])
		out[i].ID = id
	}
	return out, true
}

// background parses "color || image || repeat || attachment || position".
// Position may take two adjacent components.
func background(c []component) ([]Value, bool) {
	ids := []ID{BackgroundColor, BackgroundImage, BackgroundRepeat, BackgroundAttachment, BackgroundPosition}
	vals := make([]Value, len(ids))
	set := make([]bool, len(ids))
	if len(c) == 0 {
		return nil, false
	}
next:
	for i := 0; i < len(c); i++ {
		if !set[4] {
			// two component positions first, so "left top" is not split
			if i+1 < len(c) {
				if v, ok := parseAs(BackgroundPosition, c[i:i+2]); ok {
					vals[4], set[4] = v, true
					i++
					continue
				}
			}
		}
		for j, id := range ids {
			if set[j] {
				continue
			}
			if v, ok := parseAs(id, c[i:i+1]); ok {
				vals[j], set[j] = v, true
				continue next
			}
		}
		return nil, false
	}
	for j, id := range ids {
		if !set[j] {
			vals[j] = initial(id)
		}
	}
	return vals, true
}

// font parses "[style || variant || weight]? size [/ line-height]? family".
func font(c []component) ([]Value, bool) {
	style, variant, weight := initial(FontStyle), initial(FontVariant), initial(FontWeight)
	lineH := initial(LineHeight)
	var setStyle, setVariant, setWeight bool
	i := 0
prefix:
	for ; i < len(c) && i < 3; i++ {
		one := c[i : i+1]
		if c[i].isIdent("normal") {
			continue
		}
		switch {
		case !setStyle && c[i].isIdent("italic", "oblique"):
			style, _ = parseAs(FontStyle, one)
			setStyle = true
		case !setVariant && c[i].isIdent("small-caps"):
			variant, _ = parseAs(FontVariant, one)
			setVariant = true
		case !setWeight:
			v, ok := parseAs(FontWeight, one)
			if !ok {
				break prefix
			}
			weight, setWeight = v, true
		default:
			break prefix
		}
	}
	if i >= len(c) {
		return nil, false
	}
	size, ok := parseAs(FontSize, c[i:i+1])
	if !ok {
		return nil, false
	}
	i++
	if i < len(c) && c[i].tok.Kind == css.TokenDelim && c[i].tok.Value == "/" {
		if i+1 >= len(c) {
			return nil, false
		}
		if lineH, ok = parseAs(LineHeight, c[i+1:i+2]); !ok {
			return nil, false
		}
		i += 2
	}
	family, ok := parseAs(FontFamily, c[i:])
	if !ok || i >= len(c) {
		return nil, false
	}
	return []Value{style, variant, weight, size, lineH, family}, true
}

// listStyle parses "type || position || image"; "none" sets whichever of
// type and image is not given otherwise.
func listStyle(c []component) ([]Value, bool) {
	if len(c) == 0 || len(c) > 3 {
		return nil, false
	}
	var rest []component
	nones := 0
	for _, one := range c {
		if one.isIdent("none") {
			nones++
			continue
		}
		rest = append(rest, one)
	}
	ids := []ID{ListStyleType, ListStylePosition, ListStyleImage}
	vals := make([]Value, 3)
	set := make([]bool, 3)
next:
	for i := range rest {
		for j, id := range ids {
			if set[j] {
				continue
			}
			if v, ok := parseAs(id, rest[i:i+1]); ok {
				vals[j], set[j] = v, true
				continue next
			}
		}
		return nil, false
	}
	for _, j := range []int{0, 2} {
		if !set[j] && nones > 0 {
			vals[j], set[j] = Value{ID: ids[j], Type: TypeKeyword, Keyword: "none"}, true
			nones--
		}
	}
	if nones > 0 {
		return nil, false
	}
	for j, id := range ids {
		if !set[j] {
			vals[j] = initial(id)
		}
	}
	return vals, true
}

// flex parses "none | auto | grow shrink? || basis". An omitted basis is
// 0%.
func flex(c []component) ([]Value, bool) {
	mk := func(grow, shrink float64, basis Value) []Value {
		g, s := numberValue(grow), numberValue(shrink)
		g.ID, s.ID, basis.ID = FlexGrow, FlexShrink, FlexBasis
		return []Value{g, s, basis}
	}
	if len(c) == 1 && c[0].isIdent("none") {
		return mk(0, 0, keyword("auto")), true
	}
	if len(c) == 1 && c[0].isIdent("auto") {
		return mk(1, 1, keyword("auto")), true
	}
	if len(c) == 0 || len(c) > 3 {
		return nil, false
	}
	var nums []float64
	basis := lengthValue(Percent(0))
	basisSet, prevNumber := false, false
	for i := range c {
		if f, ok := number(c[i]); ok && f >= 0 {
			switch {
			case len(nums) == 0, len(nums) == 1 && prevNumber:
				nums = append(nums, f)
				prevNumber = true
				continue
			case f != 0 || basisSet:
				return nil, false
			}
			// unitless zero after grow and shrink is the basis
		}
		if basisSet {
			return nil, false
		}
		v, ok := parseAs(FlexBasis, c[i:i+1])
		if !ok {
			return nil, false
		}
		basis, basisSet, prevNumber = v, true, false
	}
	if len(nums) == 0 {
		return mk(1, 1, basis), true
	}
	shrink := 1.0
	if len(nums) == 2 {
		shrink = nums[1]
	}
	return mk(nums[0], shrink, basis), true
}
