package props

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Type tells which payload fields of Value are meaningful.
type Type uint8

const (
	TypeKeyword Type = iota // Keyword
	TypeLength              // Lengths[0]
	TypeNumber              // Number
	TypeColor               // Color
	TypeURL                 // URL, intrinsic image size in Lengths[0:2] once computed
	TypeList                // List: font families, quote strings, decoration keywords
	TypeItems               // Items: content, counter-reset, counter-increment
	TypePair                // Lengths[0:2]
	TypeRect                // Lengths[0:4], top right bottom left
)

// Unit of a Length.
type Unit uint8

const (
	UnitNone Unit = iota // unitless zero
	UnitPx
	UnitEm
	UnitEx
	UnitIn
	UnitCm
	UnitMm
	UnitPt
	UnitPc
	UnitPercent
	UnitAuto // "auto" component of a pair or rect
)

var unitNames = map[string]Unit{
	"px": UnitPx,
	"em": UnitEm,
	"ex": UnitEx,
	"in": UnitIn,
	"cm": UnitCm,
	"mm": UnitMm,
	"pt": UnitPt,
	"pc": UnitPc,
}

var unitText = [...]string{"", "px", "em", "ex", "in", "cm", "mm", "pt", "pc", "%", "auto"}

func (u Unit) String() string {
	if int(u) < len(unitText) {
		return unitText[u]
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Length is a number with a unit. Computed lengths are in device pixels
// (UnitPx), percentages are kept as they are relative to layout.
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns a length in pixels.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Percent returns a percentage length.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// IsAuto reports whether length is the "auto" component of a pair or rect.
func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

func (l Length) String() string {
	if l.Unit == UnitAuto {
		return "auto"
	}
	return formatNumber(l.Value) + l.Unit.String()
}

// ItemKind is the kind of a generated content or counter entry.
type ItemKind uint8

const (
	ItemString ItemKind = iota
	ItemURL
	ItemCounter  // counter(name, style)
	ItemCounters // counters(name, separator, style)
	ItemAttr
	ItemOpenQuote
	ItemCloseQuote
	ItemNoOpenQuote
	ItemNoCloseQuote
	ItemCounterValue // name and number of counter-reset or counter-increment
)

// Item is one entry of content, counter-reset or counter-increment.
type Item struct {
	Kind      ItemKind
	Name      string // text, URL, counter or attribute name
	Separator string
	Style     string
	Number    int
}

func (it Item) String() string {
	switch it.Kind {
	case ItemString:
		return quote(it.Name)
	case ItemURL:
		return `url(` + quote(it.Name) + `)`
	case ItemCounter:
		if it.Style != "" && it.Style != "decimal" {
			return "counter(" + it.Name + ", " + it.Style + ")"
		}
		return "counter(" + it.Name + ")"
	case ItemCounters:
		s := "counters(" + it.Name + ", " + quote(it.Separator)
		if it.Style != "" && it.Style != "decimal" {
			s += ", " + it.Style
		}
		return s + ")"
	case ItemAttr:
		return "attr(" + it.Name + ")"
	case ItemOpenQuote:
		return "open-quote"
	case ItemCloseQuote:
		return "close-quote"
	case ItemNoOpenQuote:
		return "no-open-quote"
	case ItemNoCloseQuote:
		return "no-close-quote"
	case ItemCounterValue:
		return it.Name + " " + strconv.Itoa(it.Number)
	}
	return ""
}

// Value is the specified or computed value of a single property. It is a
// tagged union: ID names the property, Type selects the payload. Inherit
// marks the "inherit" keyword and is never set on computed values. Color
// channels are not alpha premultiplied.
type Value struct {
	ID      ID
	Type    Type
	Inherit bool
	Keyword string
	Lengths [4]Length
	Number  float64
	Color   color.RGBA
	URL     string
	List    []string
	Items   []Item
}

// PropertyName implements css.PropertyValue.
func (v *Value) PropertyName() string { return v.ID.Name() }

// Length returns the first length of the value.
func (v *Value) Length() Length { return v.Lengths[0] }

// Is reports whether value is the given keyword.
func (v *Value) Is(keyword string) bool {
	return v.Type == TypeKeyword && !v.Inherit && v.Keyword == keyword
}

// Clone returns a copy which does not share slices with v.
func (v *Value) Clone() Value {
	c := *v
	if c.List != nil {
		c.List = append([]string(nil), c.List...)
	}
	if c.Items != nil {
		c.Items = append([]Item(nil), c.Items...)
	}
	return c
}

// Equal reports whether both values carry the same payload.
func (v *Value) Equal(o *Value) bool {
	if v.ID != o.ID || v.Type != o.Type || v.Inherit != o.Inherit || v.Keyword != o.Keyword ||
		v.Lengths != o.Lengths || v.Number != o.Number || v.Color != o.Color || v.URL != o.URL {
		return false
	}
	if len(v.List) != len(o.List) || len(v.Items) != len(o.Items) {
		return false
	}
	for i := range v.List {
		if v.List[i] != o.List[i] {
			return false
		}
	}
	for i := range v.Items {
		if v.Items[i] != o.Items[i] {
			return false
		}
	}
	return true
}

// String returns CSS text of the value.
func (v *Value) String() string {
	if v.Inherit {
		return "inherit"
	}
	switch v.Type {
	case TypeKeyword:
		return v.Keyword
	case TypeLength:
		return v.Lengths[0].String()
	case TypeNumber:
		return formatNumber(v.Number)
	case TypeColor:
		return formatColor(v.Color)
	case TypeURL:
		return `url(` + quote(v.URL) + `)`
	case TypeList:
		parts := make([]string, len(v.List))
		for i, s := range v.List {
			switch v.ID {
			case FontFamily:
				if isGenericFamily(s) {
					parts[i] = s
				} else {
					parts[i] = quote(s)
				}
			case Quotes:
				parts[i] = quote(s)
			default:
				parts[i] = s
			}
		}
		if v.ID == FontFamily {
			return strings.Join(parts, ", ")
		}
		return strings.Join(parts, " ")
	case TypeItems:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.String()
		}
		return strings.Join(parts, " ")
	case TypePair:
		if v.Lengths[0] == v.Lengths[1] && v.ID != BackgroundPosition {
			return v.Lengths[0].String()
		}
		return v.Lengths[0].String() + " " + v.Lengths[1].String()
	case TypeRect:
		return fmt.Sprintf("rect(%s, %s, %s, %s)", v.Lengths[0], v.Lengths[1], v.Lengths[2], v.Lengths[3])
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatColor(c color.RGBA) string {
	switch c.A {
	case 0:
		if c == (color.RGBA{}) {
			return "transparent"
		}
	case 255:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64))
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// keyword returns specified keyword value.
func keyword(k string) Value { return Value{Type: TypeKeyword, Keyword: k} }

func lengthValue(l Length) Value { return Value{Type: TypeLength, Lengths: [4]Length{l}} }

func numberValue(n float64) Value { return Value{Type: TypeNumber, Number: n} }

func pairValue(a, b Length) Value { return Value{Type: TypePair, Lengths: [4]Length{a, b}} }
