// Package props holds the closed set of supported CSS properties: their
// descriptors, value parsing, unit resolution and computation of final
// values for a node.
package props

import "fmt"

// ID identifies a longhand property.
type ID uint8

const (
	Invalid ID = iota

	// box
	Display
	Position
	Float
	Clear
	ZIndex
	Top
	Right
	Bottom
	Left
	Width
	Height
	MinWidth
	MinHeight
	MaxWidth
	MaxHeight
	MarginTop
	MarginRight
	MarginBottom
	MarginLeft
	PaddingTop
	PaddingRight
	PaddingBottom
	PaddingLeft
	Overflow
	Visibility
	Clip
	VerticalAlign
	LineHeight

	// font
	FontFamily
	FontSize
	FontStyle
	FontVariant
	FontWeight

	// background
	Color
	BackgroundColor
	BackgroundImage
	BackgroundRepeat
	BackgroundAttachment
	BackgroundPosition
	BackgroundOrigin
	BackgroundClip
	BackgroundSize

	// border
	BorderTopWidth
	BorderRightWidth
	BorderBottomWidth
	BorderLeftWidth
	BorderTopStyle
	BorderRightStyle
	BorderBottomStyle
	BorderLeftStyle
	BorderTopColor
	BorderRightColor
	BorderBottomColor
	BorderLeftColor
	BorderTopLeftRadius
	BorderTopRightRadius
	BorderBottomRightRadius
	BorderBottomLeftRadius
	OutlineWidth
	OutlineStyle
	OutlineColor

	// text
	TextAlign
	TextDecoration
	TextIndent
	TextTransform
	LetterSpacing
	WordSpacing
	WhiteSpace
	Direction
	UnicodeBidi

	// table
	BorderCollapse
	BorderSpacing
	CaptionSide
	EmptyCells
	TableLayout

	// misc
	ListStyleType
	ListStyleImage
	ListStylePosition
	Content
	Quotes
	CounterIncrement
	CounterReset
	Cursor
	Orphans
	Widows
	PageBreakBefore
	PageBreakAfter
	PageBreakInside

	// flex
	FlexDirection
	FlexWrap
	Order
	FlexGrow
	FlexShrink
	FlexBasis
	JustifyContent
	AlignItems
	AlignSelf
	AlignContent

	numIDs
)

// Count is the number of valid property IDs. Valid IDs are 1..Count.
const Count = int(numIDs) - 1

// Group is a set of related properties which layout code usually reads
// together.
type Group uint8

const (
	GroupBox Group = iota
	GroupFont
	GroupBackground
	GroupBorder
	GroupText
	GroupTable
	GroupMisc
	GroupFlex

	numGroups
)

var groupNames = [numGroups]string{
	GroupBox:        "box",
	GroupFont:       "font",
	GroupBackground: "background",
	GroupBorder:     "border",
	GroupText:       "text",
	GroupTable:      "table",
	GroupMisc:       "misc",
	GroupFlex:       "flex",
}

func (g Group) String() string {
	if g < numGroups {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// Groups returns all property groups in order.
func Groups() []Group {
	gs := make([]Group, 0, numGroups)
	for g := range numGroups {
		gs = append(gs, g)
	}
	return gs
}

// parseFunc turns value components of a longhand into its specified
// value. The ID of the returned value is set by the caller.
type parseFunc func(c []component) (Value, bool)

type descriptor struct {
	name      string
	group     Group
	inherited bool
	initial   Value
	parse     parseFunc
}

var descriptors [numIDs]descriptor

// byName is the name to ID lookup table, built once.
var byName map[string]ID

func init() {
	descriptors = table()
	byName = make(map[string]ID, numIDs)
	for id := ID(1); id < numIDs; id++ {
		d := &descriptors[id]
		if d.name == "" || d.parse == nil {
			panic(fmt.Sprintf("property %d has no descriptor", id))
		}
		d.initial.ID = id
		byName[d.name] = id
	}
}

// Lookup returns the ID of a longhand property by its lower-case name.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// All returns every valid property ID in order.
func All() []ID {
	ids := make([]ID, 0, Count)
	for id := ID(1); id < numIDs; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Valid reports whether id names a property.
func (id ID) Valid() bool { return id > Invalid && id < numIDs }

// Name returns CSS property name.
func (id ID) Name() string {
	if !id.Valid() {
		return ""
	}
	return descriptors[id].name
}

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return descriptors[id].name
}

// Inherited reports whether property is inherited by default.
func (id ID) Inherited() bool { return id.Valid() && descriptors[id].inherited }

// Group returns the group property belongs to.
func (id ID) Group() Group {
	if !id.Valid() {
		return numGroups
	}
	return descriptors[id].group
}

// Initial returns initial specified value of the property.
func (id ID) Initial() Value {
	if !id.Valid() {
		return Value{}
	}
	return descriptors[id].initial
}
