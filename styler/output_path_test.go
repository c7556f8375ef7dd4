package styler

import (
	"path/filepath"
	"testing"

	"cssc/config"
)

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")
	tests := []struct {
		name     string
		template string
		translit bool
		source   string
		format   string
		want     string
		wantErr  bool
	}{
		{"default template", "{{ .Name }}.{{ .Ext }}", false, "book/page.html", "text", "/out/book/page.txt", false},
		{"empty template", "", false, "page.xhtml", "sqlite", "/out/page.db", false},
		{"subdirectories", "{{ .Format }}/{{ .Name | upper }}.{{ .Ext }}", false, "page.html", "text", "/out/text/PAGE.txt", false},
		{"traversal dropped", "../{{ .Name }}.{{ .Ext }}", false, "page.html", "text", "/out/page.txt", false},
		{"transliterate", "{{ .Name }}.{{ .Ext }}", true, "Глава 1.html", "text", "/out/glava-1.txt", false},
		{"bad template", "{{ .Name ", false, "page.html", "text", "/out/page.txt", true},
		{"empty result", "{{ if false }}x{{ end }}", false, "page.html", "text", "/out/page.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &config.OutputConfig{NameTemplate: tt.template, FileNameTransliterate: tt.translit}
			got, err := BuildOutputPath(out, NewValues(nil, tt.source, tt.format), dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("BuildOutputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("BuildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestNewValues(t *testing.T) {
	_, doc := setupDocument(t)
	e, err := New(engineConfig(t), Options{Pseudo: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := e.Style(doc)

	v := NewValues(s, "dir/page.html", "text")
	if v.Name != "page" || v.Ext != "txt" || v.Source != "dir/page.html" {
		t.Errorf("values = %+v", v)
	}
	if v.Lang != "en" {
		t.Errorf("lang = %q", v.Lang)
	}
	// html head link link style body p p
	if v.Elements != 9 || v.Sheets != 2 {
		t.Errorf("elements %d sheets %d", v.Elements, v.Sheets)
	}
}
