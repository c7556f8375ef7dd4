// Package styler computes styles of whole documents: it loads stylesheets
// of every origin, runs the cascade for each element and its generated
// pseudo-elements and mirrors the element tree in a computed.Tree.
package styler

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssc/cascade"
	"cssc/computed"
	"cssc/config"
	"cssc/css"
	"cssc/dom"
	"cssc/loader"
	"cssc/props"
	"cssc/resources"
)

// Engine keeps what is shared by all documents: parser, loader,
// resources and the default and user stylesheets.
type Engine struct {
	log    *zap.Logger
	pseudo bool
	loader *loader.Loader
	parser *css.Parser
	res    *resources.Cache
	shared []*css.StyleSheet // default and user origin
	extra  []*css.StyleSheet // author sheets following document sheets
}

// Options are per run additions to configuration.
type Options struct {
	// DefaultStyle replaces user agent stylesheet, nil disables it.
	DefaultStyle []byte
	// UserSheets are paths or URLs of user stylesheets added after the
	// configured ones.
	UserSheets []string
	// AuthorSheets are paths or URLs of author stylesheets applied after
	// stylesheets of the document.
	AuthorSheets []string
	// Pseudo enables :before and :after generation.
	Pseudo bool
	// Loader options, for example code page of archive names.
	LoaderOptions []loader.Option
}

// New prepares engine. Failure to load a user stylesheet is an error,
// problems with their imports are only logged.
func New(cfg *config.EngineConfig, opts Options, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{log: log.Named("styler"), pseudo: opts.Pseudo}
	e.loader = loader.New(log, opts.LoaderOptions...)

	res, err := resources.New(resources.Settings{
		DPI:            cfg.DPI,
		MediumFontSize: cfg.FontSize,
		Color:          cfg.Color,
		Quotes:         cfg.Quotes,
		Families:       cfg.FontFamilies,
		FontDirs:       cfg.FontDirs,
	}, e.loader, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare resources: %w", err)
	}
	e.res = res

	e.parser = css.NewParser(log,
		css.WithValueParser(props.NewRegistry(log)),
		css.WithImporter(e.loader),
		css.WithMedia(cfg.Media...))

	if opts.DefaultStyle != nil {
		sheet, err := e.parser.Parse(opts.DefaultStyle, css.OriginDefault, "")
		if err != nil {
			e.log.Warn("Problems loading user agent stylesheet", zap.Error(err))
		}
		e.shared = append(e.shared, sheet)
	}
	for _, uri := range append(append([]string(nil), cfg.UserStylesheets...), opts.UserSheets...) {
		sheet, err := e.load(uri, css.OriginUser)
		if err != nil {
			return nil, err
		}
		e.shared = append(e.shared, sheet)
	}
	for _, uri := range opts.AuthorSheets {
		sheet, err := e.load(uri, css.OriginAuthor)
		if err != nil {
			return nil, err
		}
		e.extra = append(e.extra, sheet)
	}
	return e, nil
}

func (e *Engine) load(uri string, origin css.Origin) (*css.StyleSheet, error) {
	data, base, err := e.loader.Import(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s stylesheet: %w", origin, err)
	}
	sheet, err := e.parser.Parse(data, origin, base)
	if err != nil {
		e.log.Warn("Problems loading stylesheet", zap.Stringer("origin", origin), zap.String("url", base), zap.Error(err))
	}
	return sheet, nil
}

// Loader returns loader used for stylesheets, documents and images.
func (e *Engine) Loader() *loader.Loader { return e.loader }

// Parser returns stylesheet parser configured for engine media.
func (e *Engine) Parser() *css.Parser { return e.parser }

// Resources returns resource cache shared by all documents.
func (e *Engine) Resources() *resources.Cache { return e.res }

// Entry is a styled element or a generated pseudo-element of it.
type Entry struct {
	Element *dom.Element
	Pseudo  css.PseudoElement
	Node    computed.NodeID
	Depth   int
	Parent  int // index of parent entry, -1 for the root
}

// Label returns element path with pseudo-element suffix.
func (en *Entry) Label() string {
	if en.Pseudo == css.PseudoNone {
		return en.Element.Path()
	}
	return en.Element.Path() + "::" + en.Pseudo.String()
}

// Styled is a document with computed styles. Entries are in document
// order, :before precedes and :after follows children of its element.
type Styled struct {
	Doc     *dom.Document
	Cascade *cascade.Document
	Tree    *computed.Tree
	Entries []Entry
}

// Box returns computed values of entry i.
func (s *Styled) Box(i int) *props.BoxValues {
	return s.Tree.Box(s.Entries[i].Node)
}

// Style computes styles of document. Problems with author stylesheets are
// returned together with the result, which is always usable.
func (e *Engine) Style(doc *dom.Document) (*Styled, error) {
	var errs error

	cd := cascade.NewDocument(e.log)
	for _, sheet := range e.shared {
		cd.AddSheet(sheet)
	}
	for _, ref := range doc.Sheets {
		if !e.parser.MatchesMedia(ref.Media) {
			e.log.Debug("Skipping stylesheet for other media", zap.String("url", ref.URL), zap.String("media", ref.Media))
			continue
		}
		sheet, err := e.authorSheet(ref, doc.BaseURI)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		cd.AddSheet(sheet)
	}
	for _, sheet := range e.extra {
		cd.AddSheet(sheet)
	}

	s := &Styled{Doc: doc, Cascade: cd, Tree: computed.NewTree(e.res, e.log)}
	cur := dom.NewCursor(doc.Root)

	var build func(el *dom.Element, parent, depth int)
	build = func(el *dom.Element, parent, depth int) {
		cur.Reset(el)
		r := cd.Select(cur, css.PseudoNone)
		if style, ok := el.Style(); ok {
			r = r.WithInline(e.parser.ParseInline([]byte(style), doc.BaseURI))
		}
		idx := s.add(el, css.PseudoNone, r, parent, depth)

		if e.pseudo {
			s.generate(cd, cur, el, css.PseudoBefore, idx, depth+1)
		}
		for _, c := range el.Children {
			build(c, idx, depth+1)
		}
		if e.pseudo {
			s.generate(cd, cur, el, css.PseudoAfter, idx, depth+1)
		}
	}
	build(doc.Root, -1, 0)

	e.log.Debug("Document styled",
		zap.String("base", doc.BaseURI),
		zap.Int("sheets", len(cd.Sheets())),
		zap.Int("nodes", s.Tree.Len()))
	return s, errs
}

func (e *Engine) authorSheet(ref dom.SheetRef, base string) (*css.StyleSheet, error) {
	if ref.Embedded() {
		return e.parser.Parse([]byte(ref.Text), css.OriginAuthor, base)
	}
	data, sheetBase, err := e.loader.Import(ref.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to load stylesheet: %w", err)
	}
	return e.parser.Parse(data, css.OriginAuthor, sheetBase)
}

func (s *Styled) add(el *dom.Element, pseudo css.PseudoElement, r cascade.Result, parent, depth int) int {
	id := s.Tree.NewNode()
	if parent >= 0 {
		// parent is never a descendant here
		_ = s.Tree.SetParent(id, s.Entries[parent].Node)
	}
	s.Tree.SetSpecifiedValues(id, r)
	s.Entries = append(s.Entries, Entry{Element: el, Pseudo: pseudo, Node: id, Depth: depth, Parent: parent})
	return len(s.Entries) - 1
}

// generate adds pseudo-element when some rule gives it content.
func (s *Styled) generate(cd *cascade.Document, cur *dom.Cursor, el *dom.Element, pseudo css.PseudoElement, parent, depth int) {
	cur.Reset(el)
	r := cd.Select(cur, pseudo)
	if r.Empty() {
		return
	}
	idx := s.add(el, pseudo, r, parent, depth)
	content := s.Tree.Value(s.Entries[idx].Node, props.Content)
	if content.Is("normal") || content.Is("none") {
		s.Tree.Release(s.Entries[idx].Node)
		s.Entries = s.Entries[:idx]
	}
}
