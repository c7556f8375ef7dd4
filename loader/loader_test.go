package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"cssc/css"
	"cssc/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeStylesheet(t *testing.T) {
	latin1, _ := charmap.ISO8859_1.NewEncoder().String(`@charset "iso-8859-1"; p:before { content: "é" }`)
	tests := []struct {
		name     string
		data     string
		wantText string
		wantName string
	}{
		{"plain", `p { color: red }`, `p { color: red }`, "utf-8"},
		{"bom", "\xef\xbb\xbfp {}", "p {}", "utf-8"},
		{"charset rule", latin1, `@charset "iso-8859-1"; p:before { content: "é" }`, "windows-1252"},
		{"unknown charset", `@charset "nope"; p {}`, `@charset "nope"; p {}`, "utf-8"},
		{"not first", ` @charset "iso-8859-1"; p {}`, ` @charset "iso-8859-1"; p {}`, "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, name, err := loader.DecodeStylesheet([]byte(tt.data), nil)
			if err != nil {
				t.Fatalf("DecodeStylesheet() error = %v", err)
			}
			if string(text) != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if name != tt.wantName {
				t.Errorf("charset = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestLoader_ImportFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.css"), `@import "parts/base.css"; p { color: red }`)
	writeFile(t, filepath.Join(dir, "parts", "base.css"), `@import url(../extra.css); body { margin: 0 }`)
	writeFile(t, filepath.Join(dir, "extra.css"), `div { width: 1px }`)

	var seen []string
	l := loader.New(zap.NewNop(), loader.WithObserver(func(uri string, _ []byte) { seen = append(seen, uri) }))
	data, base, err := l.Import(filepath.Join(dir, "main.css"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if base != loader.FileURL(filepath.Join(dir, "main.css")) {
		t.Errorf("base = %q", base)
	}

	p := css.NewParser(zap.NewNop(), css.WithImporter(l))
	sheet, err := p.Parse(data, css.OriginAuthor, base)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Rulesets) != 3 {
		t.Fatalf("got %d rulesets, want 3", len(sheet.Rulesets))
	}
	if got := sheet.Rulesets[0].Selectors[0].String(); got != "div" {
		t.Errorf("first ruleset = %s, want imported div", got)
	}
	if len(seen) != 3 {
		t.Errorf("observer saw %v", seen)
	}
}

func TestLoader_ImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.css"), `@import "b.css"; a { color: red }`)
	writeFile(t, filepath.Join(dir, "b.css"), `@import "a.css"; b { color: blue }`)

	l := loader.New(nil)
	data, base, err := l.Import(filepath.Join(dir, "a.css"))
	if err != nil {
		t.Fatal(err)
	}
	sheet, err := css.NewParser(nil, css.WithImporter(l)).Parse(data, css.OriginAuthor, base)
	if !errors.Is(err, css.ErrImportCycle) {
		t.Errorf("Parse() error = %v, want ErrImportCycle", err)
	}
	if len(sheet.Rulesets) != 2 {
		t.Errorf("got %d rulesets, want 2", len(sheet.Rulesets))
	}
}

func TestLoader_Archive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "styles.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	w := fixzip.NewWriter(f)
	for name, content := range map[string]string{
		"css/main.css":    `@import "../common/base.css"; p { color: red }`,
		"common/base.css": `body { margin: 0 }`,
	} {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l := loader.New(zap.NewNop())
	uri := loader.FileURL(filepath.Join(zipPath, "css", "main.css"))
	data, base, err := l.Import(uri)
	if err != nil {
		t.Fatalf("Import(%s) error = %v", uri, err)
	}
	sheet, err := css.NewParser(nil, css.WithImporter(l)).Parse(data, css.OriginAuthor, base)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Rulesets) != 2 || !strings.HasSuffix(sheet.Imports[0], "styles.zip/common/base.css") {
		t.Errorf("rulesets %d imports %v", len(sheet.Rulesets), sheet.Imports)
	}
}

func TestLoader_Errors(t *testing.T) {
	l := loader.New(nil)
	if _, _, err := l.Import("http://example.com/a.css"); !errors.Is(err, loader.ErrUnsupportedScheme) {
		t.Errorf("http error = %v", err)
	}
	if _, _, err := l.Import(filepath.Join(t.TempDir(), "missing.css")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestDefaultStylesheet(t *testing.T) {
	sheet, err := css.NewParser(nil).Parse(loader.DefaultStylesheet(), css.OriginDefault, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet.RulesBySelector("li")) == 0 || len(sheet.RulesBySelector("h1")) < 2 {
		t.Error("default stylesheet misses rulesets")
	}
	for _, rs := range sheet.RulesBySelector("h1") {
		if _, ok := rs.Lookup("page-break-before"); ok {
			t.Error("print rules are applied on screen")
		}
	}
}
