package styler

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"cssc/config"
)

// Values holds variables available for output name template expansion.
type Values struct {
	Context  string
	Name     string // source file name without extension
	Ext      string // extension of the output format without dot
	Format   string
	Source   string // source path relative to processed location
	Lang     string // language of the root element
	Elements int
	Sheets   int
}

func formatExt(format string) string {
	if format == "sqlite" {
		return "db"
	}
	return "txt"
}

// NewValues prepares template values for styled document.
func NewValues(s *Styled, src, format string) Values {
	v := Values{
		Context: string(config.NameTemplateFieldName),
		Name:    strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Ext:     formatExt(format),
		Format:  format,
		Source:  filepath.ToSlash(src),
	}
	if s != nil {
		v.Lang = s.Doc.Root.Lang()
		v.Sheets = len(s.Cascade.Sheets())
		for _, en := range s.Entries {
			if en.Pseudo == 0 {
				v.Elements++
			}
		}
	}
	return v
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildOutputPath returns output file path for a processed source. src is
// relative to the processed location and its directory is kept under dst.
// Template result may contain subdirectories; every path segment is cleaned
// and, if requested, transliterated. Default name is used when template is
// empty or cannot be expanded.
func BuildOutputPath(out *config.OutputConfig, values Values, dst string) (string, error) {
	outDir := filepath.Join(dst, filepath.Dir(filepath.FromSlash(values.Source)))
	fallback := cleanSegment(values.Name, out.FileNameTransliterate) + "." + values.Ext

	if out.NameTemplate == "" {
		return filepath.Join(outDir, fallback), nil
	}
	expanded, err := expandTemplate(config.NameTemplateFieldName, out.NameTemplate, values)
	if err != nil {
		return filepath.Join(outDir, fallback), fmt.Errorf("unable to prepare output filename: %w", err)
	}

	var parts []string
	for _, seg := range strings.FieldsFunc(filepath.ToSlash(expanded), func(r rune) bool { return r == '/' }) {
		if seg = strings.TrimSpace(seg); seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, cleanSegment(seg, out.FileNameTransliterate))
	}
	if len(parts) == 0 {
		return filepath.Join(outDir, fallback), nil
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}

func cleanSegment(segment string, transliterate bool) string {
	if transliterate {
		ext := filepath.Ext(segment)
		segment = slug.Make(strings.TrimSuffix(segment, ext)) + strings.ToLower(ext)
	}
	return config.CleanFileName(segment)
}
