// Package resources implements props.Resources on top of configuration,
// installed fonts and images reachable through a loader.
package resources

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"cssc/props"
)

// Fetcher returns raw content addressed by an absolute URL.
type Fetcher interface {
	Load(uri string) (data []byte, base string, err error)
}

// Settings are environment parameters of computation.
type Settings struct {
	DPI            float64
	MediumFontSize float64
	Color          string
	Quotes         []string
	Families       []string
	FontDirs       []string
}

// Cache implements props.Resources. Images are loaded once per URL.
// Cache is safe for concurrent use.
type Cache struct {
	log      *zap.Logger
	fetch    Fetcher
	static   props.StaticResources
	mu       sync.Mutex
	images   map[string]imageEntry
	families []string
}

type imageEntry struct {
	img  props.Image
	data []byte
	err  error
}

var _ props.Resources = (*Cache)(nil)

// New returns resource cache. Installed font families are read from
// font directories once. Fetcher may be nil, then no images are available.
func New(s Settings, fetch Fetcher, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{
		log:   log.Named("resources"),
		fetch: fetch,
		static: props.StaticResources{
			Resolution: s.DPI,
			Quotes:     s.Quotes,
			MediumSize: s.MediumFontSize,
		},
		images: make(map[string]imageEntry),
	}
	if s.Color != "" {
		fg, ok := props.ParseColor(s.Color)
		if !ok {
			return nil, fmt.Errorf("invalid default color %q", s.Color)
		}
		if fg.A == 0 {
			return nil, fmt.Errorf("default color %q is transparent", s.Color)
		}
		c.static.Foreground = fg
	}
	if len(s.Quotes)%2 != 0 {
		return nil, fmt.Errorf("quotes must come in pairs, got %d", len(s.Quotes))
	}

	families := slices.Clone(s.Families)
	for _, dir := range s.FontDirs {
		found, err := scanFonts(dir, c.log)
		if err != nil {
			c.log.Warn("Unable to scan font directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		families = append(families, found...)
	}
	if len(families) > 0 || len(s.FontDirs) > 0 {
		families = append(families, genericFamilies...)
		slices.SortFunc(families, func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) })
		c.families = slices.CompactFunc(families, strings.EqualFold)
		c.log.Debug("Font families", zap.Int("count", len(c.families)))
	}
	return c, nil
}

// genericFamilies are always available when families are enumerated.
var genericFamilies = []string{"serif", "sans-serif", "monospace", "cursive", "fantasy"}

// DPI implements props.Resources.
func (c *Cache) DPI() float64 { return c.static.DPI() }

// FontFamilies implements props.Resources.
func (c *Cache) FontFamilies() []string { return c.families }

// DefaultQuotes implements props.Resources.
func (c *Cache) DefaultQuotes() []string { return c.static.DefaultQuotes() }

// DefaultColor implements props.Resources.
func (c *Cache) DefaultColor() color.RGBA { return c.static.DefaultColor() }

// FontSize implements props.Resources.
func (c *Cache) FontSize(keyword string) float64 { return c.static.FontSize(keyword) }

// LargerFontSize implements props.Resources.
func (c *Cache) LargerFontSize(size float64) float64 { return c.static.LargerFontSize(size) }

// SmallerFontSize implements props.Resources.
func (c *Cache) SmallerFontSize(size float64) float64 { return c.static.SmallerFontSize(size) }

// LoadImage implements props.Resources. Failures are cached too.
func (c *Cache) LoadImage(url string) (props.Image, error) {
	e := c.image(url)
	return e.img, e.err
}

// Images returns URLs of every image requested so far which could be
// loaded.
func (c *Cache) Images() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var urls []string
	for u, e := range c.images {
		if e.err == nil {
			urls = append(urls, u)
		}
	}
	slices.Sort(urls)
	return urls
}

func (c *Cache) image(url string) imageEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.images[url]; ok {
		return e
	}
	e := c.loadImage(url)
	if e.err != nil {
		c.log.Debug("Image not available", zap.String("url", url), zap.Error(e.err))
	} else {
		c.log.Debug("Image loaded", zap.String("url", url), zap.String("format", e.img.Format),
			zap.Int("width", e.img.Width), zap.Int("height", e.img.Height))
	}
	c.images[url] = e
	return e
}

func (c *Cache) loadImage(url string) imageEntry {
	if c.fetch == nil {
		return imageEntry{err: fmt.Errorf("%s: %w", url, props.ErrNoImage)}
	}
	data, _, err := c.fetch.Load(url)
	if err != nil {
		return imageEntry{err: fmt.Errorf("%w: %w", props.ErrNoImage, err)}
	}
	img, err := decodeConfig(data)
	if err != nil {
		return imageEntry{err: fmt.Errorf("%s: %w: %w", url, props.ErrNoImage, err)}
	}
	return imageEntry{img: img, data: data}
}
