package debug

import (
	"bytes"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "html", nil, "html\n"},
		{"depth 1", 1, "html/body", nil, "  html/body\n"},
		{"depth 3", 3, "html/body/p[%d]", []any{2}, "      html/body/p[2]\n"},
		{"multiple args", 1, "Sheet[%d] origin=%s", []any{0, "user"}, "  Sheet[0] origin=user\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "style", "", "style: \n"},
		{"indented", 2, "style", "color: red", "    style: \"color: red\"\n"},
		{"quotes", 0, "content", `"»"`, "content: \"\\\"»\\\"\"\n"},
		{"newline", 1, "text", "a\nb", "  text: \"a\\nb\"\n"},
		{"backslash", 0, "url", `c:\img.png`, "url: \"c:\\\\img.png\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Property(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "html/body/p")
	tw.Property(1, 11, "color", "#ff0000")
	tw.Property(1, 11, "font-size", "16px")
	tw.Property(1, 3, "margin-left", "0")
	tw.TextBlock(1, "style", "color: red")
	want := "html/body/p\n  color:       #ff0000\n  font-size:   16px\n  margin-left: 0\n  style: \"color: red\"\n"
	if got := tw.String(); got != want {
		t.Errorf("Property() = %q, want %q", got, want)
	}

	var buf bytes.Buffer
	n, err := tw.WriteTo(&buf)
	if err != nil || n != int64(len(want)) || buf.String() != want {
		t.Errorf("WriteTo() = %d, %v, %q", n, err, buf.String())
	}
}
