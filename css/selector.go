package css

import (
	"strings"

	"go.uber.org/zap"
)

// readSelectors reads a selector group up to and including the opening
// brace of the declaration block. Invalid selectors are dropped one by one.
// False means there is no declaration block to read.
func (p *Parser) readSelectors(r *reader) ([]SelectorChain, bool) {
	var (
		groups [][]Token
		cur    []Token
		depth  int
	)
	for {
		tok := r.next()
		switch tok.Kind {
		case TokenEOF:
			return nil, false
		case TokenComment:
			continue
		case TokenCurlyClose:
			r.unread(tok)
			p.log.Debug("Dropping selector without declaration block")
			return nil, false
		case TokenParenOpen, TokenFunction, TokenSquareOpen:
			depth++
		case TokenParenClose, TokenSquareClose:
			if depth > 0 {
				depth--
			}
		case TokenCurlyOpen:
			if depth == 0 {
				groups = append(groups, cur)
				return p.parseChains(groups), true
			}
		case TokenComma:
			if depth == 0 {
				groups = append(groups, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, tok)
	}
}

func (p *Parser) parseChains(groups [][]Token) []SelectorChain {
	chains := make([]SelectorChain, 0, len(groups))
	for _, g := range groups {
		chain, ok := parseChain(g)
		if !ok {
			p.log.Debug("Dropping unsupported selector", zap.String("selector", strings.TrimSpace(TokensString(g))))
			continue
		}
		chains = append(chains, chain)
	}
	return chains
}

// parseChain builds a selector chain from the tokens of a single selector.
func parseChain(toks []Token) (SelectorChain, bool) {
	toks = trimWhitespace(toks)
	var (
		chain   SelectorChain
		pending = LinkSimple // combinator waiting for the next compound
		cur     = -1         // index of the compound being decorated
	)

	// startLink opens a new compound selector, emitting the pending
	// combinator before it.
	startLink := func(typ string) bool {
		if chain.PseudoElement != PseudoNone {
			return false
		}
		if cur >= 0 {
			if pending == LinkSimple {
				return false
			}
			chain.Links = append(chain.Links, SelectorLink{Kind: pending})
		} else if pending != LinkSimple {
			return false
		}
		chain.Links = append(chain.Links, SelectorLink{Kind: LinkSimple, Type: typ})
		cur = len(chain.Links) - 1
		pending = LinkSimple
		return true
	}
	// decorate returns compound to attach #id, .class, :pseudo or [attr]
	// to, opening an implicit universal one when needed.
	decorate := func() *SelectorLink {
		if cur < 0 || pending != LinkSimple {
			if !startLink("") {
				return nil
			}
		}
		if chain.PseudoElement != PseudoNone {
			return nil
		}
		return &chain.Links[cur]
	}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok.Kind == TokenWhitespace:
			if cur >= 0 && pending == LinkSimple {
				pending = LinkDescendant
			}
		case tok.IsDelim(">"):
			if cur < 0 || (pending != LinkSimple && pending != LinkDescendant) {
				return SelectorChain{}, false
			}
			pending = LinkChild
		case tok.IsDelim("+"):
			if cur < 0 || (pending != LinkSimple && pending != LinkDescendant) {
				return SelectorChain{}, false
			}
			pending = LinkNextSibling
		case tok.Kind == TokenIdent:
			if !startLink(tok.Value) {
				return SelectorChain{}, false
			}
		case tok.IsDelim("*"):
			if !startLink("*") {
				return SelectorChain{}, false
			}
		case tok.Kind == TokenHash:
			l := decorate()
			if l == nil || l.ID != "" {
				return SelectorChain{}, false
			}
			l.ID = tok.Value
		case tok.IsDelim("."):
			l := decorate()
			if l == nil || i+1 >= len(toks) || toks[i+1].Kind != TokenIdent {
				return SelectorChain{}, false
			}
			i++
			l.Classes = append(l.Classes, toks[i].Value)
		case tok.Kind == TokenColon:
			l := decorate()
			if l == nil || i+1 >= len(toks) || toks[i+1].Kind != TokenIdent {
				// ::element and :function(...) are not supported
				return SelectorChain{}, false
			}
			i++
			name := strings.ToLower(toks[i].Value)
			if pe, ok := ParsePseudoElement(name); ok && pe != PseudoNone {
				chain.PseudoElement = pe
				continue
			}
			l.PseudoClasses = append(l.PseudoClasses, name)
		case tok.Kind == TokenSquareOpen:
			l := decorate()
			if l == nil {
				return SelectorChain{}, false
			}
			attr, n, ok := parseAttribute(toks[i+1:])
			if !ok {
				return SelectorChain{}, false
			}
			l.Attributes = append(l.Attributes, attr)
			i += n
		default:
			return SelectorChain{}, false
		}
	}
	if cur < 0 || (pending != LinkSimple && pending != LinkDescendant) {
		return SelectorChain{}, false
	}
	return chain, true
}

// parseAttribute parses attribute selector after '['. It returns number of
// tokens consumed including the closing bracket.
func parseAttribute(toks []Token) (AttributeSelector, int, bool) {
	i := 0
	skipWS := func() {
		for i < len(toks) && toks[i].Kind == TokenWhitespace {
			i++
		}
	}
	skipWS()
	if i >= len(toks) || toks[i].Kind != TokenIdent {
		return AttributeSelector{}, 0, false
	}
	attr := AttributeSelector{Name: toks[i].Value, Match: AttrExists}
	i++
	skipWS()
	if i >= len(toks) {
		return AttributeSelector{}, 0, false
	}
	switch {
	case toks[i].Kind == TokenSquareClose:
		return attr, i + 1, true
	case toks[i].IsDelim("="):
		attr.Match = AttrExact
	case toks[i].Kind == TokenIncludes:
		attr.Match = AttrWord
	case toks[i].Kind == TokenDashMatch:
		attr.Match = dashMatchKind(attr.Name)
	default:
		return AttributeSelector{}, 0, false
	}
	i++
	skipWS()
	if i >= len(toks) || (toks[i].Kind != TokenIdent && toks[i].Kind != TokenString) {
		return AttributeSelector{}, 0, false
	}
	attr.Value = toks[i].Value
	i++
	skipWS()
	if i >= len(toks) || toks[i].Kind != TokenSquareClose {
		return AttributeSelector{}, 0, false
	}
	return attr, i + 1, true
}

func trimWhitespace(toks []Token) []Token {
	for len(toks) > 0 && (toks[0].Kind == TokenWhitespace || toks[0].Kind == TokenComment) {
		toks = toks[1:]
	}
	for len(toks) > 0 && (toks[len(toks)-1].Kind == TokenWhitespace || toks[len(toks)-1].Kind == TokenComment) {
		toks = toks[:len(toks)-1]
	}
	return toks
}
