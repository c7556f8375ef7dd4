package resources_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"cssc/loader"
	"cssc/props"
	"cssc/resources"
)

const svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`

// countingFetcher records how many times each URL was requested.
type countingFetcher struct {
	*loader.Loader
	calls map[string]int
}

func (f *countingFetcher) Load(uri string) ([]byte, string, error) {
	f.calls[uri]++
	return f.Loader.Load(uri)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) (string, *countingFetcher) {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 400, 200)
	if err := os.WriteFile(filepath.Join(dir, "pic.svg"), []byte(svg), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, &countingFetcher{Loader: loader.New(zap.NewNop()), calls: map[string]int{}}
}

func TestCache_LoadImage(t *testing.T) {
	dir, fetch := setup(t)
	c, err := resources.New(resources.Settings{}, fetch, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file   string
		want   props.Image
		broken bool
	}{
		{"wide.png", props.Image{Width: 400, Height: 200, Format: "png"}, false},
		{"pic.svg", props.Image{Width: 100, Height: 50, Format: "svg"}, false},
		{"junk.png", props.Image{}, true},
		{"missing.png", props.Image{}, true},
	}
	for _, tt := range tests {
		url := loader.FileURL(filepath.Join(dir, tt.file))
		for range 2 {
			img, err := c.LoadImage(url)
			if tt.broken {
				if !errors.Is(err, props.ErrNoImage) {
					t.Errorf("%s: error = %v, want ErrNoImage", tt.file, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("%s: LoadImage() error = %v", tt.file, err)
			}
			if img != tt.want {
				t.Errorf("%s: image = %+v, want %+v", tt.file, img, tt.want)
			}
		}
		if fetch.calls[url] != 1 {
			t.Errorf("%s fetched %d times", tt.file, fetch.calls[url])
		}
	}
	if got := c.Images(); len(got) != 2 {
		t.Errorf("Images() = %v", got)
	}
}

func TestCache_Preview(t *testing.T) {
	dir, fetch := setup(t)
	c, err := resources.New(resources.Settings{}, fetch, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range []string{"wide.png", "pic.svg"} {
		img, err := c.Preview(loader.FileURL(filepath.Join(dir, file)), 100)
		if err != nil {
			t.Fatalf("%s: Preview() error = %v", file, err)
		}
		if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
			t.Errorf("%s: preview bounds %v", file, b)
		}
		var buf bytes.Buffer
		if err := resources.EncodePNG(&buf, img); err != nil || buf.Len() == 0 {
			t.Errorf("%s: EncodePNG() error = %v", file, err)
		}
	}
}

func TestCache_NoFetcher(t *testing.T) {
	c, err := resources.New(resources.Settings{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadImage("file:///a.png"); !errors.Is(err, props.ErrNoImage) {
		t.Errorf("error = %v", err)
	}
	if c.FontFamilies() != nil {
		t.Error("families are enumerated without configuration")
	}
}

func TestCache_Settings(t *testing.T) {
	c, err := resources.New(resources.Settings{
		DPI:            150,
		MediumFontSize: 20,
		Color:          "rgb(10, 20, 30)",
		Quotes:         []string{"«", "»"},
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.DPI() != 150 || c.FontSize("medium") != 20 || c.FontSize("xx-large") != 40 {
		t.Errorf("dpi %v medium %v", c.DPI(), c.FontSize("medium"))
	}
	if c.DefaultColor() != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("color = %v", c.DefaultColor())
	}
	if q := c.DefaultQuotes(); !slices.Equal(q, []string{"«", "»"}) {
		t.Errorf("quotes = %v", q)
	}

	for _, bad := range []resources.Settings{
		{Color: "nocolor"},
		{Color: "transparent"},
		{Quotes: []string{"«"}},
	} {
		if _, err := resources.New(bad, nil, nil); err == nil {
			t.Errorf("New(%+v) accepted invalid settings", bad)
		}
	}
}

func TestCache_FontFamilies(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "Go-Regular.ttf"), goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("fonts"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := resources.New(resources.Settings{
		Families: []string{"Georgia", "go"},
		FontDirs: []string{dir, filepath.Join(dir, "missing")},
	}, nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got := c.FontFamilies()
	for _, want := range []string{"Georgia", "serif", "monospace"} {
		if !slices.Contains(got, want) {
			t.Errorf("families %v miss %s", got, want)
		}
	}
	if !slices.Contains(got, "Go") && !slices.Contains(got, "go") {
		t.Errorf("families %v miss font from directory", got)
	}
	n := 0
	for _, f := range got {
		if f == "Go" || f == "go" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("duplicate families in %v", got)
	}
}
