package props

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"cssc/css"
)

// component is a value token, or a function token together with its
// arguments. Whitespace is dropped, commas are kept as components.
type component struct {
	tok  css.Token
	args []component
}

// components groups declaration tokens. The second result is false when
// the tokens contain something no property accepts (unbalanced brackets,
// invalid tokens).
func components(toks []css.Token) ([]component, bool) {
	c, rest, ok := componentsUntil(toks, false)
	return c, ok && len(rest) == 0
}

func componentsUntil(toks []css.Token, inFunc bool) ([]component, []css.Token, bool) {
	var out []component
	for len(toks) > 0 {
		tok := toks[0]
		toks = toks[1:]
		switch tok.Kind {
		case css.TokenWhitespace, css.TokenComment:
		case css.TokenParenClose:
			if inFunc {
				return out, toks, true
			}
			return nil, nil, false
		case css.TokenFunction:
			args, rest, ok := componentsUntil(toks, true)
			if !ok {
				return nil, nil, false
			}
			out = append(out, component{tok: tok, args: args})
			toks = rest
		case css.TokenInvalid, css.TokenParenOpen, css.TokenSquareOpen, css.TokenSquareClose,
			css.TokenCurlyOpen, css.TokenCurlyClose, css.TokenSemicolon:
			return nil, nil, false
		default:
			out = append(out, component{tok: tok})
		}
	}
	// unterminated function at the end of value is closed implicitly
	return out, nil, true
}

func (c component) ident() (string, bool) {
	if c.tok.Kind != css.TokenIdent {
		return "", false
	}
	return strings.ToLower(c.tok.Value), true
}

func (c component) isIdent(names ...string) bool {
	id, ok := c.ident()
	return ok && slices.Contains(names, id)
}

func (c component) isComma() bool { return c.tok.Kind == css.TokenComma }

func (c component) isFunction(name string) bool {
	return c.tok.Kind == css.TokenFunction && strings.EqualFold(c.tok.Value, name)
}

// splitCommas splits components on top level commas. Empty parts make the
// result invalid.
func splitCommas(c []component) ([][]component, bool) {
	var parts [][]component
	start := 0
	for i := range c {
		if c[i].isComma() {
			if i == start {
				return nil, false
			}
			parts = append(parts, c[start:i])
			start = i + 1
		}
	}
	if start >= len(c) {
		return nil, false
	}
	return append(parts, c[start:]), true
}

type lengthFlags uint8

const (
	allowPercent lengthFlags = 1 << iota
	allowNegative
)

func number(c component) (float64, bool) {
	if c.tok.Kind != css.TokenNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.tok.Value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func integer(c component) (int, bool) {
	if c.tok.Kind != css.TokenNumber {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(c.tok.Value, "+"))
	return n, err == nil
}

// length parses a length or, with allowPercent, a percentage. A unitless
// zero is a length.
func length(c component, flags lengthFlags) (Length, bool) {
	var l Length
	switch c.tok.Kind {
	case css.TokenNumber:
		f, ok := number(c)
		if !ok || f != 0 {
			return l, false
		}
		l = Length{Unit: UnitPx}
	case css.TokenDimension:
		unit, ok := unitNames[strings.ToLower(c.tok.Unit)]
		if !ok {
			return l, false
		}
		f, err := strconv.ParseFloat(c.tok.Value, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return l, false
		}
		l = Length{Value: f, Unit: unit}
	case css.TokenPercentage:
		if flags&allowPercent == 0 {
			return l, false
		}
		f, err := strconv.ParseFloat(c.tok.Value, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return l, false
		}
		l = Percent(f)
	default:
		return l, false
	}
	if l.Value < 0 && flags&allowNegative == 0 {
		return l, false
	}
	return l, true
}

func single(c []component) (component, bool) {
	if len(c) != 1 {
		return component{}, false
	}
	return c[0], true
}

func keywords(kws ...string) parseFunc {
	return func(c []component) (Value, bool) {
		one, ok := single(c)
		if !ok {
			return Value{}, false
		}
		if id, ok := one.ident(); ok && slices.Contains(kws, id) {
			return keyword(id), true
		}
		return Value{}, false
	}
}

func lengthOr(flags lengthFlags, kws ...string) parseFunc {
	return func(c []component) (Value, bool) {
		one, ok := single(c)
		if !ok {
			return Value{}, false
		}
		if id, ok := one.ident(); ok {
			if slices.Contains(kws, id) {
				return keyword(id), true
			}
			return Value{}, false
		}
		l, ok := length(one, flags)
		if !ok {
			return Value{}, false
		}
		return lengthValue(l), true
	}
}

func numberOr(minimum float64, isInteger bool, kws ...string) parseFunc {
	return func(c []component) (Value, bool) {
		one, ok := single(c)
		if !ok {
			return Value{}, false
		}
		if id, ok := one.ident(); ok {
			if slices.Contains(kws, id) {
				return keyword(id), true
			}
			return Value{}, false
		}
		var f float64
		if isInteger {
			n, ok := integer(one)
			if !ok {
				return Value{}, false
			}
			f = float64(n)
		} else if f, ok = number(one); !ok {
			return Value{}, false
		}
		if f < minimum {
			return Value{}, false
		}
		return numberValue(f), true
	}
}

func colorOr(kws ...string) parseFunc {
	return func(c []component) (Value, bool) {
		one, ok := single(c)
		if !ok {
			return Value{}, false
		}
		if id, ok := one.ident(); ok && (id == "currentcolor" || slices.Contains(kws, id)) {
			return keyword(id), true
		}
		rgba, ok := parseColor(one)
		if !ok {
			return Value{}, false
		}
		return Value{Type: TypeColor, Color: rgba}, true
	}
}

// imageOrNone parses "none | <uri>".
func imageOrNone(c []component) (Value, bool) {
	one, ok := single(c)
	if !ok {
		return Value{}, false
	}
	if one.isIdent("none") {
		return keyword("none"), true
	}
	if one.tok.Kind == css.TokenURI {
		return Value{Type: TypeURL, URL: one.tok.Value}, true
	}
	return Value{}, false
}

var (
	borderStyles   = []string{"none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset"}
	borderWidths   = []string{"thin", "medium", "thick"}
	listStyleTypes = []string{
		"disc", "circle", "square", "decimal", "decimal-leading-zero", "lower-roman", "upper-roman",
		"lower-greek", "lower-latin", "upper-latin", "armenian", "georgian", "lower-alpha", "upper-alpha", "none",
	}
	fontSizeKeywords = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large", "larger", "smaller"}
	genericFamilies  = []string{"serif", "sans-serif", "cursive", "fantasy", "monospace"}
	cursorKeywords   = []string{
		"auto", "crosshair", "default", "pointer", "move", "e-resize", "ne-resize", "nw-resize", "n-resize",
		"se-resize", "sw-resize", "s-resize", "w-resize", "text", "wait", "help", "progress",
	}
	alignItems = []string{"flex-start", "flex-end", "center", "baseline", "stretch"}
)

func isGenericFamily(name string) bool {
	return slices.Contains(genericFamilies, name)
}

func borderWidth(c []component) (Value, bool) {
	return lengthOr(0, borderWidths...)(c)
}

func fontWeight(c []component) (Value, bool) {
	one, ok := single(c)
	if !ok {
		return Value{}, false
	}
	if id, ok := one.ident(); ok {
		switch id {
		case "normal", "bold", "bolder", "lighter":
			return keyword(id), true
		}
		return Value{}, false
	}
	n, ok := integer(one)
	if !ok || n < 100 || n > 900 || n%100 != 0 {
		return Value{}, false
	}
	return numberValue(float64(n)), true
}

func lineHeight(c []component) (Value, bool) {
	one, ok := single(c)
	if !ok {
		return Value{}, false
	}
	if one.isIdent("normal") {
		return keyword("normal"), true
	}
	if f, ok := number(one); ok {
		if f < 0 {
			return Value{}, false
		}
		return numberValue(f), true
	}
	l, ok := length(one, allowPercent)
	if !ok {
		return Value{}, false
	}
	return lengthValue(l), true
}

// fontFamily parses a comma separated list of quoted names and runs of
// identifiers.
func fontFamily(c []component) (Value, bool) {
	parts, ok := splitCommas(c)
	if !ok {
		return Value{}, false
	}
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) == 1 && part[0].tok.Kind == css.TokenString {
			names = append(names, part[0].tok.Value)
			continue
		}
		words := make([]string, 0, len(part))
		for _, w := range part {
			if w.tok.Kind != css.TokenIdent {
				return Value{}, false
			}
			words = append(words, w.tok.Value)
		}
		name := strings.Join(words, " ")
		if lower := strings.ToLower(name); isGenericFamily(lower) {
			name = lower
		} else if len(words) == 1 && slices.Contains([]string{"inherit", "initial", "default"}, lower) {
			return Value{}, false
		}
		names = append(names, name)
	}
	return Value{Type: TypeList, List: names}, true
}

func textDecoration(c []component) (Value, bool) {
	if len(c) == 1 && c[0].isIdent("none") {
		return keyword("none"), true
	}
	if len(c) == 0 {
		return Value{}, false
	}
	var list []string
	for _, one := range c {
		id, ok := one.ident()
		if !ok || !slices.Contains([]string{"underline", "overline", "line-through", "blink"}, id) || slices.Contains(list, id) {
			return Value{}, false
		}
		list = append(list, id)
	}
	return Value{Type: TypeList, List: list}, true
}

func quotes(c []component) (Value, bool) {
	if len(c) == 1 && c[0].isIdent("none") {
		return keyword("none"), true
	}
	if len(c) == 0 || len(c)%2 != 0 {
		return Value{}, false
	}
	list := make([]string, 0, len(c))
	for _, one := range c {
		if one.tok.Kind != css.TokenString {
			return Value{}, false
		}
		list = append(list, one.tok.Value)
	}
	return Value{Type: TypeList, List: list}, true
}

// counterList parses counter-reset and counter-increment: "none" or
// identifiers each optionally followed by an integer.
func counterList(def int) parseFunc {
	return func(c []component) (Value, bool) {
		if len(c) == 1 && c[0].isIdent("none") {
			return keyword("none"), true
		}
		if len(c) == 0 {
			return Value{}, false
		}
		var items []Item
		for i := 0; i < len(c); i++ {
			if c[i].tok.Kind != css.TokenIdent || c[i].isIdent("none", "inherit", "initial") {
				return Value{}, false
			}
			it := Item{Kind: ItemCounterValue, Name: c[i].tok.Value, Number: def}
			if i+1 < len(c) {
				if n, ok := integer(c[i+1]); ok {
					it.Number = n
					i++
				}
			}
			items = append(items, it)
		}
		return Value{Type: TypeItems, Items: items}, true
	}
}

func content(c []component) (Value, bool) {
	if len(c) == 1 && c[0].isIdent("normal", "none") {
		id, _ := c[0].ident()
		return keyword(id), true
	}
	if len(c) == 0 {
		return Value{}, false
	}
	items := make([]Item, 0, len(c))
	for _, one := range c {
		it, ok := contentItem(one)
		if !ok {
			return Value{}, false
		}
		items = append(items, it)
	}
	return Value{Type: TypeItems, Items: items}, true
}

func contentItem(c component) (Item, bool) {
	switch c.tok.Kind {
	case css.TokenString:
		return Item{Kind: ItemString, Name: c.tok.Value}, true
	case css.TokenURI:
		return Item{Kind: ItemURL, Name: c.tok.Value}, true
	case css.TokenIdent:
		switch id, _ := c.ident(); id {
		case "open-quote":
			return Item{Kind: ItemOpenQuote}, true
		case "close-quote":
			return Item{Kind: ItemCloseQuote}, true
		case "no-open-quote":
			return Item{Kind: ItemNoOpenQuote}, true
		case "no-close-quote":
			return Item{Kind: ItemNoCloseQuote}, true
		}
	case css.TokenFunction:
		parts, ok := splitCommas(c.args)
		if !ok {
			return Item{}, false
		}
		name := func(i int) (string, bool) {
			if i >= len(parts) || len(parts[i]) != 1 || parts[i][0].tok.Kind != css.TokenIdent {
				return "", false
			}
			return parts[i][0].tok.Value, true
		}
		style := func(i int) (string, bool) {
			if i >= len(parts) {
				return "decimal", true
			}
			s, ok := name(i)
			s = strings.ToLower(s)
			return s, ok && slices.Contains(listStyleTypes, s)
		}
		switch strings.ToLower(c.tok.Value) {
		case "attr":
			n, ok := name(0)
			return Item{Kind: ItemAttr, Name: n}, ok && len(parts) == 1
		case "counter":
			n, ok1 := name(0)
			s, ok2 := style(1)
			return Item{Kind: ItemCounter, Name: n, Style: s}, ok1 && ok2 && len(parts) <= 2
		case "counters":
			n, ok1 := name(0)
			if len(parts) < 2 || len(parts[1]) != 1 || parts[1][0].tok.Kind != css.TokenString {
				return Item{}, false
			}
			s, ok2 := style(2)
			return Item{Kind: ItemCounters, Name: n, Separator: parts[1][0].tok.Value, Style: s}, ok1 && ok2 && len(parts) <= 3
		}
	}
	return Item{}, false
}

// clip parses "auto | rect(top, right, bottom, left)". Commas between
// offsets are optional.
func clip(c []component) (Value, bool) {
	one, ok := single(c)
	if !ok {
		return Value{}, false
	}
	if one.isIdent("auto") {
		return keyword("auto"), true
	}
	if !one.isFunction("rect") {
		return Value{}, false
	}
	v := Value{Type: TypeRect}
	n := 0
	for i, arg := range one.args {
		if arg.isComma() {
			if i == 0 || one.args[i-1].isComma() {
				return Value{}, false
			}
			continue
		}
		if n == 4 {
			return Value{}, false
		}
		if arg.isIdent("auto") {
			v.Lengths[n] = Length{Unit: UnitAuto}
		} else if l, ok := length(arg, allowNegative); ok {
			v.Lengths[n] = l
		} else {
			return Value{}, false
		}
		n++
	}
	return v, n == 4
}

// backgroundPosition parses one or two offsets. Keywords are stored as
// percentages.
func backgroundPosition(c []component) (Value, bool) {
	if len(c) == 0 || len(c) > 2 {
		return Value{}, false
	}
	type pos struct {
		l        Length
		kw       string
		vertical bool // keyword only valid vertically
		horiz    bool // keyword only valid horizontally
	}
	var ps []pos
	for _, one := range c {
		if id, ok := one.ident(); ok {
			p := pos{kw: id}
			switch id {
			case "left":
				p.l, p.horiz = Percent(0), true
			case "right":
				p.l, p.horiz = Percent(100), true
			case "top":
				p.l, p.vertical = Percent(0), true
			case "bottom":
				p.l, p.vertical = Percent(100), true
			case "center":
				p.l = Percent(50)
			default:
				return Value{}, false
			}
			ps = append(ps, p)
			continue
		}
		l, ok := length(one, allowPercent|allowNegative)
		if !ok {
			return Value{}, false
		}
		ps = append(ps, pos{l: l})
	}
	if len(ps) == 1 {
		if ps[0].vertical {
			return pairValue(Percent(50), ps[0].l), true
		}
		return pairValue(ps[0].l, Percent(50)), true
	}
	x, y := ps[0], ps[1]
	if x.vertical || y.horiz {
		// "top left" order is allowed for keyword pairs only
		if x.kw == "" || y.kw == "" {
			return Value{}, false
		}
		x, y = y, x
	}
	if x.vertical || y.horiz {
		return Value{}, false
	}
	return pairValue(x.l, y.l), true
}

func backgroundSize(c []component) (Value, bool) {
	if len(c) == 1 && c[0].isIdent("cover", "contain") {
		id, _ := c[0].ident()
		return keyword(id), true
	}
	if len(c) == 0 || len(c) > 2 {
		return Value{}, false
	}
	ls := [2]Length{{Unit: UnitAuto}, {Unit: UnitAuto}}
	for i, one := range c {
		if one.isIdent("auto") {
			continue
		}
		l, ok := length(one, allowPercent)
		if !ok {
			return Value{}, false
		}
		ls[i] = l
	}
	return pairValue(ls[0], ls[1]), true
}

// lengthPair parses one or two lengths, the second defaulting to the first.
func lengthPair(flags lengthFlags) parseFunc {
	return func(c []component) (Value, bool) {
		if len(c) == 0 || len(c) > 2 {
			return Value{}, false
		}
		a, ok := length(c[0], flags)
		if !ok {
			return Value{}, false
		}
		b := a
		if len(c) == 2 {
			if b, ok = length(c[1], flags); !ok {
				return Value{}, false
			}
		}
		return pairValue(a, b), true
	}
}

// cursor parses "[<uri> ,]* keyword"; the first URI is kept.
func cursor(c []component) (Value, bool) {
	if len(c) == 0 {
		return Value{}, false
	}
	v, ok := keywords(cursorKeywords...)(c[len(c)-1:])
	if !ok {
		return Value{}, false
	}
	rest := c[:len(c)-1]
	for i := 0; i < len(rest); i += 2 {
		if rest[i].tok.Kind != css.TokenURI || i+1 >= len(rest) || !rest[i+1].isComma() {
			return Value{}, false
		}
		if v.URL == "" {
			v.URL = rest[i].tok.Value
		}
	}
	return v, true
}
