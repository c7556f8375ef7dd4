// Package loader fetches stylesheets and documents from the file system and
// from zip archives. Loader implements css.Importer.
package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cssc/archive"
)

//go:embed default.css
var defaultStylesheet []byte

// DefaultStylesheet returns the built-in user agent stylesheet.
func DefaultStylesheet() []byte { return defaultStylesheet }

// ErrUnsupportedScheme is returned for URLs which are not local files.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Option configures Loader.
type Option func(*Loader)

// WithCodePage sets encoding used to decode non UTF-8 file names in
// archives.
func WithCodePage(cp encoding.Encoding) Option {
	return func(l *Loader) { l.cp = cp }
}

// WithFallbackCharset sets encoding of stylesheets which have neither BOM
// nor @charset rule. Default is UTF-8.
func WithFallbackCharset(enc encoding.Encoding) Option {
	return func(l *Loader) { l.fallback = enc }
}

// WithObserver sets function called for every successfully loaded
// stylesheet with its URL and decoded text.
func WithObserver(fn func(uri string, data []byte)) Option {
	return func(l *Loader) { l.observe = fn }
}

// Loader reads local files and entries of zip archives addressed by paths
// or file:// URLs. A path element naming a zip archive continues inside it,
// so "file:///books/styles.zip/css/main.css" reads entry css/main.css.
type Loader struct {
	log      *zap.Logger
	cp       encoding.Encoding
	fallback encoding.Encoding
	observe  func(uri string, data []byte)
}

// New returns loader.
func New(log *zap.Logger, opts ...Option) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{log: log.Named("loader"), fallback: unicode.UTF8}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Import implements css.Importer. Returned text is UTF-8.
func (l *Loader) Import(uri string) ([]byte, string, error) {
	data, base, err := l.Load(uri)
	if err != nil {
		return nil, "", err
	}
	text, name, err := DecodeStylesheet(data, l.fallback)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode %s: %w", uri, err)
	}
	l.log.Debug("Stylesheet loaded", zap.String("url", base), zap.String("charset", name), zap.Int("bytes", len(text)))
	if l.observe != nil {
		l.observe(base, text)
	}
	return text, base, nil
}

// Load returns raw content addressed by uri and its absolute file URL.
func (l *Loader) Load(uri string) ([]byte, string, error) {
	p, err := LocalPath(uri)
	if err != nil {
		return nil, "", err
	}
	base := FileURL(p)
	if arc, inner := archive.Split(p); arc != "" && inner != "" {
		data, err := archive.ReadFile(arc, inner, l.cp)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read %s: %w", uri, err)
		}
		l.log.Debug("Read archive entry", zap.String("archive", arc), zap.String("entry", inner), zap.Int("bytes", len(data)))
		return data, base, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("unable to read %s: %w", uri, err)
	}
	return data, base, nil
}

// LocalPath converts file URL or path to absolute file system path.
func LocalPath(uri string) (string, error) {
	if u, err := url.Parse(uri); err == nil && len(u.Scheme) > 1 {
		if !strings.EqualFold(u.Scheme, "file") {
			return "", fmt.Errorf("%s: %w", uri, ErrUnsupportedScheme)
		}
		uri = filepath.FromSlash(u.Path)
		if vol := filepath.VolumeName(strings.TrimPrefix(uri, string(filepath.Separator))); vol != "" {
			uri = strings.TrimPrefix(uri, string(filepath.Separator))
		}
	}
	p, err := filepath.Abs(uri)
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s: %w", uri, err)
	}
	return p, nil
}

// FileURL returns file URL of an absolute path.
func FileURL(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// DecodeStylesheet converts stylesheet to UTF-8. Encoding is taken from
// BOM, then from leading @charset rule, then fallback. It returns text and
// encoding name.
func DecodeStylesheet(data []byte, fallback encoding.Encoding) ([]byte, string, error) {
	enc, name := fallback, "utf-8"
	if enc == nil {
		enc = unicode.UTF8
	}
	if label, ok := charsetRule(data); ok {
		if e, n := charset.Lookup(label); e != nil {
			enc, name = e, n
		}
	}
	// BOM wins over everything
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return text, name, nil
}

// charsetRule extracts label from `@charset "label";` which must be the
// very first thing in the stylesheet.
func charsetRule(data []byte) (string, bool) {
	const prefix = `@charset "`
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, []byte(prefix)) {
		return "", false
	}
	rest := data[len(prefix):]
	end := bytes.IndexByte(rest, '"')
	if end <= 0 || end+1 >= len(rest) || rest[end+1] != ';' {
		return "", false
	}
	return string(rest[:end]), true
}
