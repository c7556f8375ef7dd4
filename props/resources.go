package props

import (
	"errors"
	"fmt"
	"image/color"
)

// DefaultDPI is used when resources do not specify resolution.
const DefaultDPI = 96

// ErrNoImage is returned by resources which cannot provide an image.
var ErrNoImage = errors.New("image not available")

// Image describes a loaded image.
type Image struct {
	Width, Height int // intrinsic size in pixels
	Format        string
}

// Resources is what property computation needs from the environment.
type Resources interface {
	// DPI is resolution of the output device.
	DPI() float64
	// FontFamilies lists installed families. Nil means families cannot be
	// enumerated and font-family is not filtered.
	FontFamilies() []string
	// LoadImage loads image by absolute URL.
	LoadImage(url string) (Image, error)
	// DefaultQuotes are quote pairs used when quotes is not specified.
	DefaultQuotes() []string
	// DefaultColor is the initial value of color.
	DefaultColor() color.RGBA
	// FontSize returns size in CSS pixels for absolute-size keyword.
	FontSize(keyword string) float64
	// LargerFontSize and SmallerFontSize implement relative-size keywords.
	LargerFontSize(size float64) float64
	SmallerFontSize(size float64) float64
}

var fontScale = map[string]float64{
	"xx-small": 3.0 / 5,
	"x-small":  3.0 / 4,
	"small":    8.0 / 9,
	"medium":   1,
	"large":    6.0 / 5,
	"x-large":  3.0 / 2,
	"xx-large": 2,
}

// KeywordFontSize returns absolute-size keyword size relative to medium.
func KeywordFontSize(medium float64, keyword string) (float64, bool) {
	f, ok := fontScale[keyword]
	return medium * f, ok
}

const relativeFontScale = 1.2

// StaticResources implements Resources from fixed settings. Zero value is
// usable.
type StaticResources struct {
	Resolution float64          // DPI, DefaultDPI if zero
	Families   []string         // installed families, nil if unknown
	Quotes     []string         // default quote pairs
	Foreground color.RGBA       // initial color, black if zero
	MediumSize float64          // medium font size in CSS pixels, 16 if zero
	Images     map[string]Image // known images by URL
}

// DPI implements Resources.
func (s *StaticResources) DPI() float64 {
	if s.Resolution <= 0 {
		return DefaultDPI
	}
	return s.Resolution
}

// FontFamilies implements Resources.
func (s *StaticResources) FontFamilies() []string { return s.Families }

// LoadImage implements Resources.
func (s *StaticResources) LoadImage(url string) (Image, error) {
	img, ok := s.Images[url]
	if !ok {
		return Image{}, fmt.Errorf("%s: %w", url, ErrNoImage)
	}
	return img, nil
}

// DefaultQuotes implements Resources.
func (s *StaticResources) DefaultQuotes() []string {
	if len(s.Quotes) == 0 {
		return []string{"“", "”", "‘", "’"}
	}
	return s.Quotes
}

// DefaultColor implements Resources.
func (s *StaticResources) DefaultColor() color.RGBA {
	if s.Foreground == (color.RGBA{}) {
		return color.RGBA{A: 255}
	}
	return s.Foreground
}

// FontSize implements Resources.
func (s *StaticResources) FontSize(keyword string) float64 {
	medium := s.MediumSize
	if medium <= 0 {
		medium = 16
	}
	size, ok := KeywordFontSize(medium, keyword)
	if !ok {
		return medium
	}
	return size
}

// LargerFontSize implements Resources.
func (s *StaticResources) LargerFontSize(size float64) float64 { return size * relativeFontScale }

// SmallerFontSize implements Resources.
func (s *StaticResources) SmallerFontSize(size float64) float64 { return size / relativeFontScale }
