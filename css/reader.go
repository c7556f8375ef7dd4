package css

import "strings"

// reader adds pushback and structural skipping on top of Tokenizer.
type reader struct {
	tk   *Tokenizer
	base string
	back []Token
}

func newReader(data []byte, base string) *reader {
	return &reader{tk: NewTokenizer(data), base: base}
}

func (r *reader) next() Token {
	if n := len(r.back); n > 0 {
		tok := r.back[n-1]
		r.back = r.back[:n-1]
		return tok
	}
	return r.tk.Next()
}

func (r *reader) nextSignificant() Token {
	for {
		tok := r.next()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment {
			return tok
		}
	}
}

func (r *reader) unread(tok Token) {
	r.back = append(r.back, tok)
}

// skipAtRule consumes the rest of an at-rule: everything up to and including
// the next semicolon or the next block, whichever comes first. A closing
// brace of an enclosing block is left in the stream.
func (r *reader) skipAtRule() {
	depth := 0
	for {
		tok := r.next()
		switch tok.Kind {
		case TokenEOF:
			return
		case TokenParenOpen, TokenFunction, TokenSquareOpen:
			depth++
		case TokenParenClose, TokenSquareClose:
			if depth > 0 {
				depth--
			}
		case TokenSemicolon:
			if depth == 0 {
				return
			}
		case TokenCurlyOpen:
			r.skipBlock()
			return
		case TokenCurlyClose:
			r.unread(tok)
			return
		}
	}
}

// skipBlock consumes tokens up to and including the brace closing a block
// whose opening brace was already read.
func (r *reader) skipBlock() {
	depth := 1
	for {
		switch r.next().Kind {
		case TokenEOF:
			return
		case TokenCurlyOpen:
			depth++
		case TokenCurlyClose:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// readMediaList reads comma separated media types up to end token (or end
// of input). When the list is malformed the rest of the at-rule is skipped
// and false is returned.
func (r *reader) readMediaList(end TokenKind) ([]string, bool) {
	var (
		media     []string
		valid     = true
		wantIdent = true
	)
	for {
		tok := r.nextSignificant()
		switch {
		case tok.Kind == end:
			if !valid || (wantIdent && len(media) > 0) {
				if end == TokenCurlyOpen {
					r.skipBlock()
				}
				return nil, false
			}
			return media, true
		case tok.Kind == TokenEOF:
			return media, valid && end == TokenSemicolon
		case tok.Kind == TokenIdent && wantIdent:
			media = append(media, strings.ToLower(tok.Value))
			wantIdent = false
		case tok.Kind == TokenComma && !wantIdent:
			wantIdent = true
		case end == TokenCurlyOpen && tok.Kind == TokenSemicolon:
			// @media without a block
			return nil, false
		case tok.Kind == TokenCurlyClose:
			r.unread(tok)
			return nil, false
		case end == TokenSemicolon && tok.Kind == TokenCurlyOpen:
			r.skipBlock()
			return nil, false
		default:
			valid = false
		}
	}
}
