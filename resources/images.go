package resources

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"cssc/props"
)

// ErrUnknownFormat is returned for data which is not a supported image.
var ErrUnknownFormat = errors.New("unknown image format")

// Replaced elements without intrinsic size default to 300x150.
const (
	defaultSVGWidth  = 300
	defaultSVGHeight = 150
)

// maxRasterDim is the maximum pixel dimension (width or height) allowed when
// rasterizing an SVG. This prevents OOM from malicious SVGs with enormous
// viewBox values.
var maxRasterDim = 8192

// decodeConfig returns intrinsic size of image honoring EXIF orientation.
func decodeConfig(data []byte) (props.Image, error) {
	if isSVG(data) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return props.Image{}, fmt.Errorf("unable to read svg: %w", err)
		}
		w, h := svgSize(icon)
		return props.Image{Width: w, Height: h, Format: "svg"}, nil
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return props.Image{}, ErrUnknownFormat
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return props.Image{}, fmt.Errorf("unable to decode %s: %w", kind.Extension, err)
	}
	b := img.Bounds()
	return props.Image{Width: b.Dx(), Height: b.Dy(), Format: kind.Extension}, nil
}

// isSVG sniffs for an svg root element in the first kilobyte.
func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}

func svgSize(icon *oksvg.SvgIcon) (int, int) {
	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return defaultSVGWidth, defaultSVGHeight
	}
	return w, h
}

// Preview returns image loaded earlier by LoadImage scaled to fit into a
// square with side size. SVG images are rasterized over white background.
func (c *Cache) Preview(url string, size int) (image.Image, error) {
	e := c.image(url)
	if e.err != nil {
		return nil, e.err
	}
	if e.img.Format == "svg" {
		return rasterizeSVG(e.data, size, size)
	}
	img, err := imaging.Decode(bytes.NewReader(e.data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", url, err)
	}
	if b := img.Bounds(); b.Dx() <= size && b.Dy() <= size {
		return img, nil
	}
	return imaging.Fit(img, size, size, imaging.Lanczos), nil
}

// EncodePNG writes image in PNG format.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// rasterizeSVG fits SVG into targetW x targetH box keeping aspect ratio.
func rasterizeSVG(data []byte, targetW, targetH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	intrW, intrH := svgSize(icon)

	scale := math.Min(float64(targetW)/float64(intrW), float64(targetH)/float64(intrH))
	w := max(int(math.Round(float64(intrW)*scale)), 1)
	h := max(int(math.Round(float64(intrH)*scale)), 1)

	// Clamp to maxRasterDim preserving aspect ratio to prevent OOM.
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
