// Package cascade orders declarations of all loaded stylesheets which apply
// to a document node.
package cascade

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"cssc/css"
)

// Document holds stylesheets of all origins in the order they were added.
type Document struct {
	log    *zap.Logger
	sheets []*css.StyleSheet
	rules  int // number of rulesets in all sheets, base of next sheet order
	bases  []int
}

// NewDocument returns empty document.
func NewDocument(log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{log: log.Named("cascade")}
}

// AddSheet appends stylesheet. Rulesets of later sheets follow rulesets of
// earlier ones in document order regardless of origin.
func (d *Document) AddSheet(sheet *css.StyleSheet) {
	if sheet == nil {
		return
	}
	d.sheets = append(d.sheets, sheet)
	d.bases = append(d.bases, d.rules)
	d.rules += len(sheet.Rulesets)
	d.log.Debug("Stylesheet added",
		zap.Stringer("origin", sheet.Origin),
		zap.String("base", sheet.BaseURI),
		zap.Int("rulesets", len(sheet.Rulesets)))
}

// Sheets returns added stylesheets.
func (d *Document) Sheets() []*css.StyleSheet {
	return d.sheets
}

// Select returns declarations of every ruleset having a selector for the
// pseudo-element which matches node, highest priority first.
func (d *Document) Select(node css.Node, pseudo css.PseudoElement) Result {
	var matches []Match
	for si, sheet := range d.sheets {
		for ri, rs := range sheet.Rulesets {
			if rs.Empty() {
				continue
			}
			spec, ok := matchRuleset(rs, node, pseudo)
			if !ok {
				continue
			}
			matches = append(matches, Match{
				Ruleset:     rs,
				Origin:      sheet.Origin,
				Specificity: spec,
				Order:       d.bases[si] + ri,
			})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return -a.compare(b) })
	return Result{matches: matches}
}

// matchRuleset returns the highest specificity among matching selectors.
func matchRuleset(rs *css.Ruleset, node css.Node, pseudo css.PseudoElement) (css.Specificity, bool) {
	var (
		best    css.Specificity
		matched bool
	)
	for i := range rs.Selectors {
		chain := &rs.Selectors[i]
		if chain.PseudoElement != pseudo || !css.Match(chain, node) {
			continue
		}
		if s := chain.Specificity(); !matched || best.Less(s) {
			best = s
		}
		matched = true
	}
	return best, matched
}

// Match is a ruleset which applies to a node.
type Match struct {
	Ruleset     *css.Ruleset
	Origin      css.Origin
	Specificity css.Specificity // highest among matching selectors
	Order       int             // position of the ruleset in the document
}

// compare orders matches from lowest to highest priority.
func (m Match) compare(o Match) int {
	if c := cmp.Compare(m.Origin, o.Origin); c != 0 {
		return c
	}
	if c := m.Specificity.Compare(o.Specificity); c != 0 {
		return c
	}
	return cmp.Compare(m.Order, o.Order)
}
