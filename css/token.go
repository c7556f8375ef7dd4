package css

import (
	"strconv"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenInvalid
	TokenIdent
	TokenAtKeyword
	TokenString
	TokenHash
	TokenNumber
	TokenPercentage
	TokenDimension
	TokenURI
	TokenFunction
	TokenDelim
	TokenIncludes   // ~=
	TokenDashMatch  // |=
	TokenWhitespace
	TokenComment
	TokenCDO
	TokenCDC
	TokenColon
	TokenSemicolon
	TokenComma
	TokenCurlyOpen
	TokenCurlyClose
	TokenSquareOpen
	TokenSquareClose
	TokenParenOpen
	TokenParenClose
)

var tokenKindNames = [...]string{
	TokenEOF:         "eof",
	TokenInvalid:     "invalid",
	TokenIdent:       "ident",
	TokenAtKeyword:   "at-keyword",
	TokenString:      "string",
	TokenHash:        "hash",
	TokenNumber:      "number",
	TokenPercentage:  "percentage",
	TokenDimension:   "dimension",
	TokenURI:         "uri",
	TokenFunction:    "function",
	TokenDelim:       "delim",
	TokenIncludes:    "includes",
	TokenDashMatch:   "dashmatch",
	TokenWhitespace:  "whitespace",
	TokenComment:     "comment",
	TokenCDO:         "cdo",
	TokenCDC:         "cdc",
	TokenColon:       "colon",
	TokenSemicolon:   "semicolon",
	TokenComma:       "comma",
	TokenCurlyOpen:   "curly-open",
	TokenCurlyClose:  "curly-close",
	TokenSquareOpen:  "square-open",
	TokenSquareClose: "square-close",
	TokenParenOpen:   "paren-open",
	TokenParenClose:  "paren-close",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical token. Value holds the decoded payload: the
// identifier or keyword name without its sigil ('@', '#'), the string
// without quotes, the URI without the url() wrapper, the function name
// without the opening parenthesis, or the numeric part of a number. Unit
// is set for dimension tokens only.
type Token struct {
	Kind  TokenKind
	Value string
	Unit  string
}

// IsIdent reports whether t is an identifier equal to name (ASCII case
// insensitive).
func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && strings.EqualFold(t.Value, name)
}

// IsDelim reports whether t is the delimiter d.
func (t Token) IsDelim(d string) bool {
	return t.Kind == TokenDelim && t.Value == d
}

// Float returns the numeric value of number, percentage and dimension
// tokens.
func (t Token) Float() (float64, bool) {
	switch t.Kind {
	case TokenNumber, TokenPercentage, TokenDimension:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String returns CSS text for the token, suitable for re-serialization.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return ""
	case TokenIdent:
		return escapeIdent(t.Value)
	case TokenAtKeyword:
		return "@" + escapeIdent(t.Value)
	case TokenHash:
		return "#" + escapeName(t.Value, false)
	case TokenString:
		return `"` + cssEscapeDoubleQuoted(t.Value) + `"`
	case TokenURI:
		return `url("` + cssEscapeDoubleQuoted(t.Value) + `")`
	case TokenFunction:
		return escapeIdent(t.Value) + "("
	case TokenPercentage:
		return t.Value + "%"
	case TokenDimension:
		return t.Value + t.Unit
	case TokenIncludes:
		return "~="
	case TokenDashMatch:
		return "|="
	case TokenWhitespace:
		return " "
	case TokenComment:
		return "/*" + t.Value + "*/"
	case TokenCDO:
		return "<!--"
	case TokenCDC:
		return "-->"
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenComma:
		return ","
	case TokenCurlyOpen:
		return "{"
	case TokenCurlyClose:
		return "}"
	case TokenSquareOpen:
		return "["
	case TokenSquareClose:
		return "]"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	default:
		return t.Value
	}
}

// escapeIdent escapes characters which would otherwise terminate an
// identifier when written back.
func escapeIdent(s string) string {
	return escapeName(s, true)
}

func escapeName(s string, ident bool) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r >= 0x80:
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if ident && i == 0 {
				b.WriteString(`\3` + string(r) + " ")
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
