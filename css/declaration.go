package css

import (
	"strings"

	"go.uber.org/zap"
)

// readDeclarations reads declarations up to the closing brace of the block
// (or end of input) and reports each one to fn with a lower-case property
// name.
func (p *Parser) readDeclarations(r *reader, fn func(name string, value []Token, important bool)) {
	for {
		tok := r.nextSignificant()
		switch tok.Kind {
		case TokenEOF, TokenCurlyClose:
			return
		case TokenSemicolon:
			continue
		case TokenIdent:
			colon := r.nextSignificant()
			if colon.Kind != TokenColon {
				r.unread(colon)
				p.log.Debug("Dropping malformed declaration", zap.String("property", tok.Value))
				if r.skipDeclaration() {
					return
				}
				continue
			}
			value, important, ended := r.readPropertyValue()
			if len(value) == 0 {
				p.log.Debug("Dropping empty declaration", zap.String("property", tok.Value))
			} else {
				fn(strings.ToLower(tok.Value), value, important)
			}
			if ended {
				return
			}
		default:
			r.unread(tok)
			if r.skipDeclaration() {
				return
			}
		}
	}
}

// skipDeclaration consumes a malformed declaration. It returns true when
// the enclosing block ended as well.
func (r *reader) skipDeclaration() bool {
	depth := 0
	for {
		tok := r.next()
		switch tok.Kind {
		case TokenEOF:
			return true
		case TokenCurlyOpen, TokenParenOpen, TokenFunction, TokenSquareOpen:
			depth++
		case TokenParenClose, TokenSquareClose:
			if depth > 0 {
				depth--
			}
		case TokenCurlyClose:
			if depth == 0 {
				return true
			}
			depth--
		case TokenSemicolon:
			if depth == 0 {
				return false
			}
		}
	}
}

// readPropertyValue collects value tokens up to the next top level ';' or
// '}'. URIs are made absolute, comments dropped, surrounding whitespace
// trimmed and a trailing "!important" removed. ended reports that the
// declaration block was closed (or input ended).
func (r *reader) readPropertyValue() (value []Token, important, ended bool) {
	var curly, nested int
loop:
	for {
		tok := r.next()
		switch tok.Kind {
		case TokenEOF:
			ended = true
			break loop
		case TokenComment:
			continue
		case TokenSemicolon:
			if curly == 0 && nested == 0 {
				break loop
			}
		case TokenCurlyOpen:
			curly++
		case TokenCurlyClose:
			if curly == 0 {
				ended = true
				break loop
			}
			curly--
		case TokenParenOpen, TokenFunction, TokenSquareOpen:
			nested++
		case TokenParenClose, TokenSquareClose:
			if nested > 0 {
				nested--
			}
		case TokenURI:
			tok.Value = ResolveURL(r.base, tok.Value)
		case TokenWhitespace:
			if n := len(value); n > 0 && value[n-1].Kind == TokenWhitespace {
				continue
			}
		}
		value = append(value, tok)
	}
	value = trimWhitespace(value)
	value, important = stripImportant(value)
	return value, important, ended
}

func stripImportant(value []Token) ([]Token, bool) {
	n := len(value)
	if n < 2 || !value[n-1].IsIdent("important") {
		return value, false
	}
	rest := trimWhitespace(value[:n-1])
	if m := len(rest); m > 0 && rest[m-1].IsDelim("!") {
		return trimWhitespace(rest[:m-1]), true
	}
	return value, false
}
