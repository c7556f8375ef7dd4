package props

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"cssc/css"
)

// ParseColor parses color text as it may appear in a declaration value.
func ParseColor(text string) (color.RGBA, bool) {
	var toks []css.Token
	tz := css.NewTokenizer([]byte(text))
	for tok := tz.NextSignificant(); tok.Kind != css.TokenEOF; tok = tz.NextSignificant() {
		toks = append(toks, tok)
	}
	c, ok := components(toks)
	if !ok || len(c) != 1 {
		return color.RGBA{}, false
	}
	return parseColor(c[0])
}

// parseColor parses named colors, "transparent", #rgb, #rrggbb, rgb() and
// rgba().
func parseColor(c component) (color.RGBA, bool) {
	switch c.tok.Kind {
	case css.TokenIdent:
		name := strings.ToLower(c.tok.Value)
		if name == "transparent" {
			return color.RGBA{}, true
		}
		rgba, ok := colornames.Map[name]
		return rgba, ok
	case css.TokenHash:
		return parseHexColor(c.tok.Value)
	case css.TokenFunction:
		switch strings.ToLower(c.tok.Value) {
		case "rgb":
			return parseRGBFunction(c.args, false)
		case "rgba":
			return parseRGBFunction(c.args, true)
		}
	}
	return color.RGBA{}, false
}

func parseHexColor(hex string) (color.RGBA, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, true
}

// parseRGBFunction parses comma separated arguments of rgb() and rgba().
// Channels are integers or percentages, all of the same kind, clipped to
// the valid range.
func parseRGBFunction(args []component, alpha bool) (color.RGBA, bool) {
	parts, ok := splitCommas(args)
	want := 3
	if alpha {
		want = 4
	}
	if !ok || len(parts) != want {
		return color.RGBA{}, false
	}
	var ch [3]uint8
	kind := parts[0][0].tok.Kind
	for i := range 3 {
		one, ok := single(parts[i])
		if !ok || one.tok.Kind != kind {
			return color.RGBA{}, false
		}
		f, err := strconv.ParseFloat(one.tok.Value, 64)
		if err != nil {
			return color.RGBA{}, false
		}
		switch kind {
		case css.TokenNumber:
		case css.TokenPercentage:
			f = f * 255 / 100
		default:
			return color.RGBA{}, false
		}
		ch[i] = clampChannel(f)
	}
	rgba := color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if alpha {
		a, ok := single(parts[3])
		if !ok {
			return color.RGBA{}, false
		}
		f, ok := number(a)
		if !ok {
			return color.RGBA{}, false
		}
		rgba.A = clampChannel(f * 255)
	}
	return rgba, true
}

func clampChannel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}
