package css

import (
	"fmt"
	"math"
)

// Specificity is CSS2.1 selector specificity without the inline-style
// component: B counts ids, C classes, attributes and pseudo-classes, D
// element names and pseudo-elements.
type Specificity struct {
	B, C, D int
}

// MaxSpecificity outranks specificity of any selector.
var MaxSpecificity = Specificity{B: math.MaxInt32, C: math.MaxInt32, D: math.MaxInt32}

// Compare returns -1, 0 or 1.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.B != o.B:
		return cmpInt(s.B, o.B)
	case s.C != o.C:
		return cmpInt(s.C, o.C)
	default:
		return cmpInt(s.D, o.D)
	}
}

// Less reports whether s has lower priority than o.
func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("%d,%d,%d", s.B, s.C, s.D)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Specificity computes specificity of the chain. It is not cached.
func (c *SelectorChain) Specificity() Specificity {
	var s Specificity
	for i := range c.Links {
		l := &c.Links[i]
		if l.Kind != LinkSimple {
			continue
		}
		if l.ID != "" {
			s.B++
		}
		s.C += len(l.Classes) + len(l.PseudoClasses) + len(l.Attributes)
		if l.Lang != "" {
			s.C++
		}
		if !l.IsUniversal() {
			s.D++
		}
	}
	if c.PseudoElement != PseudoNone {
		s.D++
	}
	return s
}
