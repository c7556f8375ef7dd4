package styler

import (
	"io"
	"sort"

	"github.com/maruel/natural"

	"cssc/css"
	"cssc/props"
	"cssc/utils/debug"
)

// Changed returns names and values of properties of entry i which differ
// from its parent entry, or from initial values for the root. Names are in
// natural order.
func (s *Styled) Changed(i int) ([]string, map[string]string) {
	var base *props.BoxValues
	if p := s.Entries[i].Parent; p >= 0 {
		base = s.Box(p)
	} else {
		base = props.Initial(s.Tree.Resources())
	}
	box := s.Box(i)

	values := make(map[string]string)
	box.Each(func(v *props.Value) {
		if !v.Equal(base.Get(v.ID)) {
			values[v.ID.Name()] = v.String()
		}
	})
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Sort(natural.StringSlice(names))
	return names, values
}

// WriteText writes indented dump of entries with properties that changed
// relative to the parent entry.
func (s *Styled) WriteText(w io.Writer) (int64, error) {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Document %s", s.Doc.BaseURI)
	for i, sheet := range s.Cascade.Sheets() {
		tw.Line(1, "Sheet[%d] origin=%s base=%q rulesets=%d", i, sheet.Origin, sheet.BaseURI, len(sheet.Rulesets))
	}
	for i := range s.Entries {
		en := &s.Entries[i]
		tw.Line(en.Depth+1, "%s", en.Label())
		if style, ok := en.Element.Style(); ok && en.Pseudo == css.PseudoNone {
			tw.TextBlock(en.Depth+2, "@style", style)
		}
		names, values := s.Changed(i)
		width := 0
		for _, n := range names {
			width = max(width, len(n))
		}
		for _, n := range names {
			tw.Property(en.Depth+2, width, n, values[n])
		}
	}
	return tw.WriteTo(w)
}
