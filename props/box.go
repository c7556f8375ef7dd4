package props

import "image/color"

// BoxValues holds computed values of every property of a node.
type BoxValues struct {
	values [numIDs]Value
}

// Get returns computed value of a property. The value must not be
// modified.
func (b *BoxValues) Get(id ID) *Value {
	return &b.values[id]
}

// Group returns computed values of all properties of the group in ID
// order.
func (b *BoxValues) Group(g Group) []Value {
	var out []Value
	for id := ID(1); id < numIDs; id++ {
		if descriptors[id].group == g {
			out = append(out, b.values[id])
		}
	}
	return out
}

// Each calls fn for every property in ID order.
func (b *BoxValues) Each(fn func(v *Value)) {
	for id := ID(1); id < numIDs; id++ {
		fn(&b.values[id])
	}
}

// Equal reports whether both boxes hold the same computed values.
func (b *BoxValues) Equal(o *BoxValues) bool {
	for id := ID(1); id < numIDs; id++ {
		if !b.values[id].Equal(&o.values[id]) {
			return false
		}
	}
	return true
}

// FontSize returns computed font size in pixels.
func (b *BoxValues) FontSize() float64 { return b.values[FontSize].Lengths[0].Value }

// Color returns computed foreground color.
func (b *BoxValues) Color() color.RGBA { return b.values[Color].Color }

// Display returns computed display keyword.
func (b *BoxValues) Display() string { return b.values[Display].Keyword }

// Length returns the first computed length of a property.
func (b *BoxValues) Length(id ID) Length { return b.values[id].Lengths[0] }

// Keyword returns computed keyword of a property, empty when property
// computed to something else.
func (b *BoxValues) Keyword(id ID) string {
	if b.values[id].Type != TypeKeyword {
		return ""
	}
	return b.values[id].Keyword
}
