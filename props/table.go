package props

import "math"

const (
	inherited = true
	reset     = false
)

func table() [numIDs]descriptor {
	var (
		autoLength    = lengthOr(allowPercent|allowNegative, "auto")
		autoSize      = lengthOr(allowPercent, "auto")
		minSize       = lengthOr(allowPercent)
		maxSize       = lengthOr(allowPercent, "none")
		padding       = lengthOr(allowPercent)
		borderStyle   = keywords(borderStyles...)
		borderColor   = colorOr()
		radius        = lengthPair(allowPercent)
		spacing       = lengthOr(allowNegative, "normal")
		pageBreak     = keywords("auto", "always", "avoid", "left", "right")
		zeroPx        = lengthValue(Px(0))
		zeroPair      = pairValue(Px(0), Px(0))
		medium        = keyword("medium")
		none          = keyword("none")
		auto          = keyword("auto")
		normal        = keyword("normal")
		currentColor  = keyword("currentcolor")
		positiveInt   = numberOr(1, true)
		nonNegNumber  = numberOr(0, false)
		integerOrAuto = numberOr(math.MinInt32, true, "auto")
	)

	d := func(name string, g Group, inh bool, initial Value, parse parseFunc) descriptor {
		return descriptor{name: name, group: g, inherited: inh, initial: initial, parse: parse}
	}

	return [numIDs]descriptor{
		Display: d("display", GroupBox, reset, keyword("inline"), keywords(
			"inline", "block", "list-item", "run-in", "inline-block", "table", "inline-table",
			"table-row-group", "table-header-group", "table-footer-group", "table-row",
			"table-column-group", "table-column", "table-cell", "table-caption", "none",
			"flex", "inline-flex")),
		Position:      d("position", GroupBox, reset, keyword("static"), keywords("static", "relative", "absolute", "fixed")),
		Float:         d("float", GroupBox, reset, none, keywords("left", "right", "none")),
		Clear:         d("clear", GroupBox, reset, none, keywords("none", "left", "right", "both")),
		ZIndex:        d("z-index", GroupBox, reset, auto, integerOrAuto),
		Top:           d("top", GroupBox, reset, auto, autoLength),
		Right:         d("right", GroupBox, reset, auto, autoLength),
		Bottom:        d("bottom", GroupBox, reset, auto, autoLength),
		Left:          d("left", GroupBox, reset, auto, autoLength),
		Width:         d("width", GroupBox, reset, auto, autoSize),
		Height:        d("height", GroupBox, reset, auto, autoSize),
		MinWidth:      d("min-width", GroupBox, reset, zeroPx, minSize),
		MinHeight:     d("min-height", GroupBox, reset, zeroPx, minSize),
		MaxWidth:      d("max-width", GroupBox, reset, none, maxSize),
		MaxHeight:     d("max-height", GroupBox, reset, none, maxSize),
		MarginTop:     d("margin-top", GroupBox, reset, zeroPx, autoLength),
		MarginRight:   d("margin-right", GroupBox, reset, zeroPx, autoLength),
		MarginBottom:  d("margin-bottom", GroupBox, reset, zeroPx, autoLength),
		MarginLeft:    d("margin-left", GroupBox, reset, zeroPx, autoLength),
		PaddingTop:    d("padding-top", GroupBox, reset, zeroPx, padding),
		PaddingRight:  d("padding-right", GroupBox, reset, zeroPx, padding),
		PaddingBottom: d("padding-bottom", GroupBox, reset, zeroPx, padding),
		PaddingLeft:   d("padding-left", GroupBox, reset, zeroPx, padding),
		Overflow:      d("overflow", GroupBox, reset, keyword("visible"), keywords("visible", "hidden", "scroll", "auto")),
		Visibility:    d("visibility", GroupBox, inherited, keyword("visible"), keywords("visible", "hidden", "collapse")),
		Clip:          d("clip", GroupBox, reset, auto, clip),
		VerticalAlign: d("vertical-align", GroupBox, reset, keyword("baseline"), lengthOr(allowPercent|allowNegative,
			"baseline", "sub", "super", "top", "text-top", "middle", "bottom", "text-bottom")),
		LineHeight: d("line-height", GroupBox, inherited, normal, lineHeight),

		FontFamily:  d("font-family", GroupFont, inherited, Value{Type: TypeList, List: []string{"serif"}}, fontFamily),
		FontSize:    d("font-size", GroupFont, inherited, medium, lengthOr(allowPercent, fontSizeKeywords...)),
		FontStyle:   d("font-style", GroupFont, inherited, normal, keywords("normal", "italic", "oblique")),
		FontVariant: d("font-variant", GroupFont, inherited, normal, keywords("normal", "small-caps")),
		FontWeight:  d("font-weight", GroupFont, inherited, normal, fontWeight),

		Color:                d("color", GroupBackground, inherited, keyword("initial"), colorOr()),
		BackgroundColor:      d("background-color", GroupBackground, reset, keyword("transparent"), colorOr()),
		BackgroundImage:      d("background-image", GroupBackground, reset, none, imageOrNone),
		BackgroundRepeat:     d("background-repeat", GroupBackground, reset, keyword("repeat"), keywords("repeat", "repeat-x", "repeat-y", "no-repeat")),
		BackgroundAttachment: d("background-attachment", GroupBackground, reset, keyword("scroll"), keywords("scroll", "fixed")),
		BackgroundPosition:   d("background-position", GroupBackground, reset, pairValue(Percent(0), Percent(0)), backgroundPosition),
		BackgroundOrigin:     d("background-origin", GroupBackground, reset, keyword("padding-box"), keywords("border-box", "padding-box", "content-box")),
		BackgroundClip:       d("background-clip", GroupBackground, reset, keyword("border-box"), keywords("border-box", "padding-box", "content-box")),
		BackgroundSize:       d("background-size", GroupBackground, reset, pairValue(Length{Unit: UnitAuto}, Length{Unit: UnitAuto}), backgroundSize),

		BorderTopWidth:          d("border-top-width", GroupBorder, reset, medium, borderWidth),
		BorderRightWidth:        d("border-right-width", GroupBorder, reset, medium, borderWidth),
		BorderBottomWidth:       d("border-bottom-width", GroupBorder, reset, medium, borderWidth),
		BorderLeftWidth:         d("border-left-width", GroupBorder, reset, medium, borderWidth),
		BorderTopStyle:          d("border-top-style", GroupBorder, reset, none, borderStyle),
		BorderRightStyle:        d("border-right-style", GroupBorder, reset, none, borderStyle),
		BorderBottomStyle:       d("border-bottom-style", GroupBorder, reset, none, borderStyle),
		BorderLeftStyle:         d("border-left-style", GroupBorder, reset, none, borderStyle),
		BorderTopColor:          d("border-top-color", GroupBorder, reset, currentColor, borderColor),
		BorderRightColor:        d("border-right-color", GroupBorder, reset, currentColor, borderColor),
		BorderBottomColor:       d("border-bottom-color", GroupBorder, reset, currentColor, borderColor),
		BorderLeftColor:         d("border-left-color", GroupBorder, reset, currentColor, borderColor),
		BorderTopLeftRadius:     d("border-top-left-radius", GroupBorder, reset, zeroPair, radius),
		BorderTopRightRadius:    d("border-top-right-radius", GroupBorder, reset, zeroPair, radius),
		BorderBottomRightRadius: d("border-bottom-right-radius", GroupBorder, reset, zeroPair, radius),
		BorderBottomLeftRadius:  d("border-bottom-left-radius", GroupBorder, reset, zeroPair, radius),
		OutlineWidth:            d("outline-width", GroupBorder, reset, medium, borderWidth),
		OutlineStyle:            d("outline-style", GroupBorder, reset, none, keywords(borderStyles...)),
		OutlineColor:            d("outline-color", GroupBorder, reset, keyword("invert"), colorOr("invert")),

		TextAlign:      d("text-align", GroupText, inherited, keyword("left"), keywords("left", "right", "center", "justify")),
		TextDecoration: d("text-decoration", GroupText, reset, none, textDecoration),
		TextIndent:     d("text-indent", GroupText, inherited, zeroPx, lengthOr(allowPercent|allowNegative)),
		TextTransform:  d("text-transform", GroupText, inherited, none, keywords("capitalize", "uppercase", "lowercase", "none")),
		LetterSpacing:  d("letter-spacing", GroupText, inherited, normal, spacing),
		WordSpacing:    d("word-spacing", GroupText, inherited, normal, spacing),
		WhiteSpace:     d("white-space", GroupText, inherited, normal, keywords("normal", "pre", "nowrap", "pre-wrap", "pre-line")),
		Direction:      d("direction", GroupText, inherited, keyword("ltr"), keywords("ltr", "rtl")),
		UnicodeBidi:    d("unicode-bidi", GroupText, reset, normal, keywords("normal", "embed", "bidi-override")),

		BorderCollapse: d("border-collapse", GroupTable, inherited, keyword("separate"), keywords("collapse", "separate")),
		BorderSpacing:  d("border-spacing", GroupTable, inherited, zeroPair, lengthPair(0)),
		CaptionSide:    d("caption-side", GroupTable, inherited, keyword("top"), keywords("top", "bottom")),
		EmptyCells:     d("empty-cells", GroupTable, inherited, keyword("show"), keywords("show", "hide")),
		TableLayout:    d("table-layout", GroupTable, reset, auto, keywords("auto", "fixed")),

		ListStyleType:     d("list-style-type", GroupMisc, inherited, keyword("disc"), keywords(listStyleTypes...)),
		ListStyleImage:    d("list-style-image", GroupMisc, inherited, none, imageOrNone),
		ListStylePosition: d("list-style-position", GroupMisc, inherited, keyword("outside"), keywords("inside", "outside")),
		Content:           d("content", GroupMisc, reset, normal, content),
		Quotes:            d("quotes", GroupMisc, inherited, keyword("initial"), quotes),
		CounterIncrement:  d("counter-increment", GroupMisc, reset, none, counterList(1)),
		CounterReset:      d("counter-reset", GroupMisc, reset, none, counterList(0)),
		Cursor:            d("cursor", GroupMisc, inherited, auto, cursor),
		Orphans:           d("orphans", GroupMisc, inherited, numberValue(2), positiveInt),
		Widows:            d("widows", GroupMisc, inherited, numberValue(2), positiveInt),
		PageBreakBefore:   d("page-break-before", GroupMisc, reset, auto, pageBreak),
		PageBreakAfter:    d("page-break-after", GroupMisc, reset, auto, pageBreak),
		PageBreakInside:   d("page-break-inside", GroupMisc, reset, auto, keywords("avoid", "auto")),

		FlexDirection:  d("flex-direction", GroupFlex, reset, keyword("row"), keywords("row", "row-reverse", "column", "column-reverse")),
		FlexWrap:       d("flex-wrap", GroupFlex, reset, keyword("nowrap"), keywords("nowrap", "wrap", "wrap-reverse")),
		Order:          d("order", GroupFlex, reset, numberValue(0), numberOr(math.MinInt32, true)),
		FlexGrow:       d("flex-grow", GroupFlex, reset, numberValue(0), nonNegNumber),
		FlexShrink:     d("flex-shrink", GroupFlex, reset, numberValue(1), nonNegNumber),
		FlexBasis:      d("flex-basis", GroupFlex, reset, auto, lengthOr(allowPercent, "auto")),
		JustifyContent: d("justify-content", GroupFlex, reset, keyword("flex-start"), keywords("flex-start", "flex-end", "center", "space-between", "space-around")),
		AlignItems:     d("align-items", GroupFlex, reset, keyword("stretch"), keywords(alignItems...)),
		AlignSelf:      d("align-self", GroupFlex, reset, auto, keywords(append([]string{"auto"}, alignItems...)...)),
		AlignContent:   d("align-content", GroupFlex, reset, keyword("stretch"), keywords("flex-start", "flex-end", "center", "space-between", "space-around", "stretch")),
	}
}
