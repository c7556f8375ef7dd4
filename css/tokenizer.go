package css

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Tokenizer produces CSS2.1 tokens from raw stylesheet text. It never fails:
// anything it cannot classify comes back as a delimiter or an invalid token,
// and every call consumes input until TokenEOF is returned.
type Tokenizer struct {
	lex     *css.Lexer
	pending []rawToken
	done    bool
}

type rawToken struct {
	tt   css.TokenType
	data []byte
}

// NewTokenizer creates tokenizer over data. The slice is not modified.
func NewTokenizer(data []byte) *Tokenizer {
	if bytes.IndexByte(data, 0) >= 0 {
		data = bytes.ReplaceAll(data, []byte{0}, []byte(string(utf8.RuneError)))
	}
	return &Tokenizer{lex: css.NewLexer(parse.NewInput(bytes.NewReader(data)))}
}

// Next returns the next token with whitespace and comments visible.
func (t *Tokenizer) Next() Token {
	for {
		raw := t.read()
		if tok, ok := t.convert(raw); ok {
			return tok
		}
	}
}

// NextSignificant returns the next token which is neither whitespace nor a
// comment.
func (t *Tokenizer) NextSignificant() Token {
	for {
		tok := t.Next()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment {
			return tok
		}
	}
}

func (t *Tokenizer) read() rawToken {
	if n := len(t.pending); n > 0 {
		raw := t.pending[0]
		t.pending = t.pending[1:]
		return raw
	}
	if t.done {
		return rawToken{tt: css.ErrorToken}
	}
	tt, data := t.lex.Next()
	if tt == css.ErrorToken {
		t.done = true
	}
	// lexer reuses its buffer
	return rawToken{tt: tt, data: bytes.Clone(data)}
}

func (t *Tokenizer) unread(raw ...rawToken) {
	t.pending = append(raw, t.pending...)
}

func (t *Tokenizer) convert(raw rawToken) (Token, bool) {
	data := raw.data
	switch raw.tt {
	case css.ErrorToken:
		return Token{Kind: TokenEOF}, true
	case css.IdentToken:
		return Token{Kind: TokenIdent, Value: unescape(data)}, true
	case css.FunctionToken:
		name := unescape(data[:len(data)-1])
		if strings.EqualFold(name, "url") {
			if tok, ok := t.quotedURL(); ok {
				return tok, true
			}
		}
		return Token{Kind: TokenFunction, Value: name}, true
	case css.AtKeywordToken:
		return Token{Kind: TokenAtKeyword, Value: unescape(data[1:])}, true
	case css.HashToken:
		return Token{Kind: TokenHash, Value: unescape(data[1:])}, true
	case css.StringToken:
		return Token{Kind: TokenString, Value: unquoteString(data)}, true
	case css.URLToken:
		return Token{Kind: TokenURI, Value: urlValue(data)}, true
	case css.BadStringToken, css.BadURLToken:
		return Token{Kind: TokenInvalid, Value: string(data)}, true
	case css.NumberToken:
		return Token{Kind: TokenNumber, Value: string(data)}, true
	case css.PercentageToken:
		return Token{Kind: TokenPercentage, Value: string(data[:len(data)-1])}, true
	case css.DimensionToken:
		num, unit := splitDimension(data)
		return Token{Kind: TokenDimension, Value: num, Unit: strings.ToLower(unescape(unit))}, true
	case css.IncludeMatchToken:
		return Token{Kind: TokenIncludes, Value: "~="}, true
	case css.DashMatchToken:
		return Token{Kind: TokenDashMatch, Value: "|="}, true
	case css.WhitespaceToken:
		return Token{Kind: TokenWhitespace, Value: " "}, true
	case css.CommentToken:
		body := bytes.TrimPrefix(data, []byte("/*"))
		body = bytes.TrimSuffix(body, []byte("*/"))
		return Token{Kind: TokenComment, Value: string(body)}, true
	case css.CDOToken:
		return Token{Kind: TokenCDO, Value: "<!--"}, true
	case css.CDCToken:
		return Token{Kind: TokenCDC, Value: "-->"}, true
	case css.ColonToken:
		return Token{Kind: TokenColon, Value: ":"}, true
	case css.SemicolonToken:
		return Token{Kind: TokenSemicolon, Value: ";"}, true
	case css.CommaToken:
		return Token{Kind: TokenComma, Value: ","}, true
	case css.LeftBraceToken:
		return Token{Kind: TokenCurlyOpen, Value: "{"}, true
	case css.RightBraceToken:
		return Token{Kind: TokenCurlyClose, Value: "}"}, true
	case css.LeftBracketToken:
		return Token{Kind: TokenSquareOpen, Value: "["}, true
	case css.RightBracketToken:
		return Token{Kind: TokenSquareClose, Value: "]"}, true
	case css.LeftParenthesisToken:
		return Token{Kind: TokenParenOpen, Value: "("}, true
	case css.RightParenthesisToken:
		return Token{Kind: TokenParenClose, Value: ")"}, true
	case css.EmptyToken:
		return Token{}, false
	case css.DelimToken:
		return Token{Kind: TokenDelim, Value: string(data)}, true
	default:
		// CSS3 operators (^=, $=, *=, ||) and unicode ranges are not part of
		// the CSS2.1 grammar; keep them as opaque delimiters.
		if len(data) == 0 {
			return Token{}, false
		}
		return Token{Kind: TokenDelim, Value: string(data)}, true
	}
}

// quotedURL folds `url(` whitespace? string whitespace? `)` into a single URI
// token. If the sequence does not follow, everything read is pushed back.
func (t *Tokenizer) quotedURL() (Token, bool) {
	var seen []rawToken
	next := func() rawToken {
		raw := t.read()
		seen = append(seen, raw)
		return raw
	}
	raw := next()
	if raw.tt == css.WhitespaceToken {
		raw = next()
	}
	if raw.tt != css.StringToken {
		t.unread(seen...)
		return Token{}, false
	}
	value := unquoteString(raw.data)
	raw = next()
	if raw.tt == css.WhitespaceToken {
		raw = next()
	}
	if raw.tt != css.RightParenthesisToken {
		t.unread(seen...)
		return Token{}, false
	}
	return Token{Kind: TokenURI, Value: value}, true
}

// splitDimension separates the numeric prefix of a dimension token from its
// unit.
func splitDimension(data []byte) (string, []byte) {
	i := 0
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}
	for i < len(data) && isDigit(data[i]) {
		i++
	}
	if i+1 < len(data) && data[i] == '.' && isDigit(data[i+1]) {
		i++
		for i < len(data) && isDigit(data[i]) {
			i++
		}
	}
	if i+1 < len(data) && (data[i] == 'e' || data[i] == 'E') {
		j := i + 1
		if j < len(data) && (data[j] == '+' || data[j] == '-') {
			j++
		}
		if j < len(data) && isDigit(data[j]) {
			for j < len(data) && isDigit(data[j]) {
				j++
			}
			i = j
		}
	}
	return string(data[:i]), data[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// unescape decodes CSS escape sequences.
func unescape(data []byte) string {
	if bytes.IndexByte(data, '\\') < 0 {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(data) {
			b.WriteRune(utf8.RuneError)
			break
		}
		if data[i+1] == '\n' || data[i+1] == '\f' {
			// escaped newline is a line continuation inside strings
			i++
			continue
		}
		if data[i+1] == '\r' {
			i++
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			continue
		}
		if !isHex(data[i+1]) {
			r, size := utf8.DecodeRune(data[i+1:])
			b.WriteRune(r)
			i += size
			continue
		}
		j := i + 1
		for j < len(data) && j-i <= 6 && isHex(data[j]) {
			j++
		}
		code, _ := strconv.ParseUint(string(data[i+1:j]), 16, 32)
		r := rune(code)
		if r == 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
		// a single whitespace terminates the escape
		if j < len(data) {
			switch data[j] {
			case ' ', '\t', '\n', '\f':
				j++
			case '\r':
				j++
				if j < len(data) && data[j] == '\n' {
					j++
				}
			}
		}
		i = j - 1
	}
	return b.String()
}

func unquoteString(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	q := data[0]
	if q != '"' && q != '\'' {
		return unescape(data)
	}
	data = data[1:]
	if n := len(data); n > 0 && data[n-1] == q {
		// closing quote unless it is escaped by an odd run of backslashes
		slashes := 0
		for i := n - 2; i >= 0 && data[i] == '\\'; i-- {
			slashes++
		}
		if slashes%2 == 0 {
			data = data[:n-1]
		}
	}
	return unescape(data)
}

func urlValue(data []byte) string {
	if len(data) >= 4 && strings.EqualFold(string(data[:4]), "url(") {
		data = data[4:]
	}
	data = bytes.TrimSuffix(data, []byte(")"))
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '"' || data[0] == '\'') {
		return unquoteString(data)
	}
	return unescape(data)
}
