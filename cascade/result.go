package cascade

import (
	"iter"

	"cssc/css"
)

// Result is the ordered view of declarations applying to a node. It
// references values owned by stylesheets and must be treated as read-only.
//
// Order, highest priority first: important declarations of the inline
// style, important declarations of matched rulesets, normal declarations of
// the inline style, normal declarations of matched rulesets. Matched
// rulesets are ordered by origin (author, user, default), then by
// specificity, then by document order, later first.
//
// Importance splits the order before origin does: every important
// declaration, of any origin, outranks every normal one. So user important
// declarations beat author normal ones but lose to author important ones,
// unlike the CSS 2.1 rule where user important wins over all author
// declarations.
type Result struct {
	matches []Match // highest priority first
	inline  *css.Ruleset
}

// WithInline returns result with node inline style merged as the last
// author ruleset with maximum specificity.
func (r Result) WithInline(rs *css.Ruleset) Result {
	if rs != nil && rs.Empty() {
		rs = nil
	}
	r.inline = rs
	return r
}

// Inline returns inline style merged into the result.
func (r Result) Inline() *css.Ruleset { return r.inline }

// Matches returns matched rulesets, highest priority first.
func (r Result) Matches() []Match { return r.matches }

// Empty reports whether result has no declarations.
func (r Result) Empty() bool { return r.Len() == 0 }

// Len returns number of declarations.
func (r Result) Len() int {
	n := 0
	if r.inline != nil {
		n += len(r.inline.Values) + len(r.inline.Important)
	}
	for _, m := range r.matches {
		n += len(m.Ruleset.Values) + len(m.Ruleset.Important)
	}
	return n
}

// layers returns declaration lists, highest priority first.
func (r Result) layers() [][]css.PropertyValue {
	out := make([][]css.PropertyValue, 0, 2*len(r.matches)+2)
	if r.inline != nil {
		out = append(out, r.inline.Important)
	}
	for _, m := range r.matches {
		out = append(out, m.Ruleset.Important)
	}
	if r.inline != nil {
		out = append(out, r.inline.Values)
	}
	for _, m := range r.matches {
		out = append(out, m.Ruleset.Values)
	}
	return out
}

// All yields declarations, highest priority first.
func (r Result) All() iter.Seq[css.PropertyValue] {
	return func(yield func(css.PropertyValue) bool) {
		for _, list := range r.layers() {
			for _, v := range list {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Backward yields declarations, lowest priority first. Applying them in
// this order leaves the winning value of every property last.
func (r Result) Backward() iter.Seq[css.PropertyValue] {
	return func(yield func(css.PropertyValue) bool) {
		layers := r.layers()
		for i := len(layers) - 1; i >= 0; i-- {
			list := layers[i]
			for j := len(list) - 1; j >= 0; j-- {
				if !yield(list[j]) {
					return
				}
			}
		}
	}
}

// Lookup returns winning declaration of a property.
func (r Result) Lookup(name string) (css.PropertyValue, bool) {
	for v := range r.All() {
		if v.PropertyName() == name {
			return v, true
		}
	}
	return nil, false
}
