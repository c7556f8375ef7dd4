package css

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// BaseURIRule is the at-rule which overrides base URI for the rest of the
// stylesheet: @-cssc-base-uri "http://example.com/styles/";
const BaseURIRule = "-cssc-base-uri"

// ErrImportCycle is reported when a stylesheet imports itself, directly or
// through other sheets.
var ErrImportCycle = errors.New("import cycle")

// Importer fetches stylesheets referenced by @import. It returns the
// stylesheet text and the base URI to resolve its relative references
// against.
type Importer interface {
	Import(uri string) (data []byte, baseURI string, err error)
}

// Parser parses CSS stylesheets into rulesets.
type Parser struct {
	log      *zap.Logger
	values   ValueParser
	importer Importer
	media    []string
}

// Option configures Parser.
type Option func(*Parser)

// WithValueParser sets parser used for declaration values. Without it
// declarations are kept as RawValue.
func WithValueParser(vp ValueParser) Option {
	return func(p *Parser) { p.values = vp }
}

// WithImporter sets collaborator which loads @import-ed stylesheets.
// Without it @import rules are recorded but not followed.
func WithImporter(imp Importer) Option {
	return func(p *Parser) { p.importer = imp }
}

// WithMedia sets media types honored by @media and @import rules. "all"
// always matches.
func WithMedia(types ...string) Option {
	return func(p *Parser) {
		p.media = p.media[:0]
		for _, t := range types {
			p.media = append(p.media, strings.ToLower(strings.TrimSpace(t)))
		}
	}
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger, opts ...Option) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Parser{log: log.Named("css-parser"), media: []string{"screen"}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses stylesheet text. Malformed constructs are skipped, so the
// returned sheet is never nil. The error, if any, aggregates failures to
// load imported stylesheets.
func (p *Parser) Parse(data []byte, origin Origin, baseURI string) (*StyleSheet, error) {
	sheet := &StyleSheet{Origin: origin, BaseURI: baseURI}
	st := &sheetState{p: p, sheet: sheet, loading: map[string]bool{}}
	if baseURI != "" {
		st.loading[baseURI] = true
	}
	p.log.Debug("Parsing stylesheet", zap.Stringer("origin", origin), zap.String("base", baseURI), zap.Int("bytes", len(data)))
	st.parseSheet(data, baseURI)
	p.log.Debug("Parsed stylesheet", zap.String("base", baseURI), zap.Int("rulesets", len(sheet.Rulesets)), zap.Int("imports", len(sheet.Imports)))
	return sheet, st.err
}

// ParseInline parses the body of a style attribute into a ruleset without
// selectors.
func (p *Parser) ParseInline(data []byte, baseURI string) *Ruleset {
	r := newReader(data, baseURI)
	rs := &Ruleset{}
	p.readDeclarations(r, func(name string, value []Token, important bool) {
		p.addDeclaration(rs, name, value, important)
	})
	return rs
}

// ParseSelector parses a single selector chain.
func (p *Parser) ParseSelector(text string) (SelectorChain, error) {
	r := newReader([]byte(text), "")
	var toks []Token
	for tok := r.next(); tok.Kind != TokenEOF; tok = r.next() {
		toks = append(toks, tok)
	}
	chain, ok := parseChain(toks)
	if !ok {
		return SelectorChain{}, fmt.Errorf("invalid selector %q", text)
	}
	return chain, nil
}

// MatchesMedia reports whether comma separated media list, as found in
// media attribute of link and style elements, applies. Empty list always
// applies, malformed one never does.
func (p *Parser) MatchesMedia(list string) bool {
	if strings.TrimSpace(list) == "" {
		return true
	}
	media, ok := newReader([]byte(list), "").readMediaList(TokenSemicolon)
	return ok && p.matchesMedia(media)
}

func (p *Parser) matchesMedia(types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == "all" {
			return true
		}
		for _, m := range p.media {
			if t == m || m == "all" {
				return true
			}
		}
	}
	return false
}

// sheetState holds things shared by the top level sheet and all sheets it
// imports.
type sheetState struct {
	p       *Parser
	sheet   *StyleSheet
	loading map[string]bool
	err     error
}

func (st *sheetState) parseSheet(data []byte, baseURI string) {
	r := newReader(data, baseURI)
	seenRuleset := false
	for {
		tok := r.nextSignificant()
		switch tok.Kind {
		case TokenEOF:
			return
		case TokenCDO, TokenCDC, TokenSemicolon, TokenCurlyClose:
			continue
		case TokenAtKeyword:
			name := strings.ToLower(tok.Value)
			switch name {
			case "import":
				if seenRuleset {
					st.p.log.Debug("Ignoring @import after rulesets", zap.String("base", r.base))
					r.skipAtRule()
					continue
				}
				st.readImport(r)
			case "media":
				st.readMedia(r)
				seenRuleset = true
			case "font-face":
				st.readFontFace(r)
				seenRuleset = true
			case BaseURIRule:
				st.readBaseURI(r)
			default:
				st.p.log.Debug("Skipping @-rule", zap.String("rule", name))
				r.skipAtRule()
			}
		default:
			r.unread(tok)
			st.readRuleset(r)
			seenRuleset = true
		}
	}
}

func (st *sheetState) readImport(r *reader) {
	tok := r.nextSignificant()
	var ref string
	switch tok.Kind {
	case TokenString, TokenURI:
		ref = tok.Value
	default:
		st.p.log.Debug("Malformed @import", zap.Stringer("token", tok.Kind))
		r.unread(tok)
		r.skipAtRule()
		return
	}
	media, ok := r.readMediaList(TokenSemicolon)
	if !ok {
		return
	}
	uri := ResolveURL(r.base, ref)
	st.sheet.Imports = append(st.sheet.Imports, uri)
	if !st.p.matchesMedia(media) {
		st.p.log.Debug("Skipping @import for other media", zap.String("url", uri), zap.Strings("media", media))
		return
	}
	if st.p.importer == nil {
		st.p.log.Debug("No importer, @import not followed", zap.String("url", uri))
		return
	}
	if st.loading[uri] {
		st.err = multierr.Append(st.err, fmt.Errorf("unable to import %q: %w", uri, ErrImportCycle))
		return
	}
	data, base, err := st.p.importer.Import(uri)
	if err != nil {
		st.err = multierr.Append(st.err, fmt.Errorf("unable to import %q: %w", uri, err))
		return
	}
	if base == "" {
		base = uri
	}
	st.p.log.Debug("Following @import", zap.String("url", uri), zap.Int("bytes", len(data)))
	st.loading[uri] = true
	st.parseSheet(data, base)
	delete(st.loading, uri)
}

// readMedia handles @media. Rulesets of a block for other media are never
// added; rulesets of a block which is not closed before the end of input
// are rolled back.
func (st *sheetState) readMedia(r *reader) {
	media, ok := r.readMediaList(TokenCurlyOpen)
	if !ok {
		return
	}
	if !st.p.matchesMedia(media) {
		st.p.log.Debug("Skipping @media block", zap.Strings("media", media))
		r.skipBlock()
		return
	}
	start := len(st.sheet.Rulesets)
	for {
		tok := r.nextSignificant()
		switch tok.Kind {
		case TokenEOF:
			st.p.log.Debug("Unterminated @media block, rolling back", zap.Int("rulesets", len(st.sheet.Rulesets)-start))
			clear(st.sheet.Rulesets[start:])
			st.sheet.Rulesets = st.sheet.Rulesets[:start]
			return
		case TokenCurlyClose:
			return
		case TokenSemicolon, TokenCDO, TokenCDC:
			continue
		case TokenAtKeyword:
			st.p.log.Debug("Skipping nested @-rule", zap.String("rule", tok.Value))
			r.skipAtRule()
		default:
			r.unread(tok)
			st.readRuleset(r)
		}
	}
}

func (st *sheetState) readBaseURI(r *reader) {
	tok := r.nextSignificant()
	if tok.Kind != TokenString && tok.Kind != TokenURI {
		r.unread(tok)
		r.skipAtRule()
		return
	}
	end := r.nextSignificant()
	if end.Kind != TokenSemicolon && end.Kind != TokenEOF {
		r.unread(end)
		r.skipAtRule()
		return
	}
	r.base = ResolveURL(r.base, tok.Value)
	st.p.log.Debug("Base URI changed", zap.String("base", r.base))
}

func (st *sheetState) readFontFace(r *reader) {
	tok := r.nextSignificant()
	if tok.Kind != TokenCurlyOpen {
		r.unread(tok)
		r.skipAtRule()
		return
	}
	var ff FontFace
	st.p.readDeclarations(r, func(name string, value []Token, _ bool) {
		switch name {
		case "font-family":
			ff.Family = fontFamilyName(value)
		case "src":
			ff.Src = append(ff.Src, fontFaceSources(value)...)
		case "font-style":
			ff.Style = strings.ToLower(TokensString(value))
		case "font-weight":
			ff.Weight = strings.ToLower(TokensString(value))
		}
	})
	if ff.Family == "" {
		st.p.log.Debug("Ignoring @font-face without family")
		return
	}
	st.sheet.FontFaces = append(st.sheet.FontFaces, ff)
}

func (st *sheetState) readRuleset(r *reader) {
	chains, ok := st.p.readSelectors(r)
	if !ok {
		return
	}
	rs := &Ruleset{Selectors: chains}
	st.p.readDeclarations(r, func(name string, value []Token, important bool) {
		st.p.addDeclaration(rs, name, value, important)
	})
	if len(chains) == 0 || rs.Empty() {
		return
	}
	st.sheet.Rulesets = append(st.sheet.Rulesets, rs)
}

func (p *Parser) addDeclaration(rs *Ruleset, name string, value []Token, important bool) {
	if p.values == nil {
		rs.Add(important, &RawValue{Name: name, Tokens: value})
		return
	}
	values, ok := p.values.ParseValue(name, value)
	if !ok {
		p.log.Debug("Dropping declaration", zap.String("property", name), zap.String("value", TokensString(value)))
		return
	}
	rs.Add(important, values...)
}

// fontFamilyName joins a family given as a string or as a sequence of
// identifiers.
func fontFamilyName(value []Token) string {
	var parts []string
	for _, t := range value {
		switch t.Kind {
		case TokenString:
			return t.Value
		case TokenIdent:
			parts = append(parts, t.Value)
		case TokenComma:
			return strings.Join(parts, " ")
		}
	}
	return strings.Join(parts, " ")
}

// fontFaceSources extracts url() and local() entries from src descriptor.
func fontFaceSources(value []Token) []string {
	var srcs []string
	for i := 0; i < len(value); i++ {
		t := value[i]
		switch {
		case t.Kind == TokenURI:
			srcs = append(srcs, t.Value)
		case t.Kind == TokenFunction && strings.EqualFold(t.Value, "local"):
			var parts []string
			for i++; i < len(value) && value[i].Kind != TokenParenClose; i++ {
				if value[i].Kind == TokenString || value[i].Kind == TokenIdent {
					parts = append(parts, value[i].Value)
				}
			}
			srcs = append(srcs, "local("+strings.Join(parts, " ")+")")
		}
	}
	return srcs
}
