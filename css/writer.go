package css

import (
	"fmt"
	"io"
	"strings"
)

// WriteTo writes the stylesheet to w, implementing io.WriterTo. Imported
// rulesets are written inline, at-rules other than @font-face are not
// preserved.
func (s *StyleSheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	count := func(n int, err error) error {
		total += int64(n)
		return err
	}

	if s.BaseURI != "" {
		if err := count(fmt.Fprintf(w, "/* base: %s */\n", s.BaseURI)); err != nil {
			return total, err
		}
	}
	for i := range s.FontFaces {
		if err := count(writeFontFace(w, &s.FontFaces[i])); err != nil {
			return total, err
		}
	}
	for i, rs := range s.Rulesets {
		if i > 0 || len(s.FontFaces) > 0 {
			if err := count(fmt.Fprint(w, "\n")); err != nil {
				return total, err
			}
		}
		if err := count(writeRuleset(w, rs)); err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *StyleSheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// String returns the CSS text of the ruleset.
func (r *Ruleset) String() string {
	var sb strings.Builder
	writeRuleset(&sb, r) //nolint:errcheck
	return sb.String()
}

// writeRuleset writes a single ruleset to w.
func writeRuleset(w io.Writer, rs *Ruleset) (int, error) {
	sels := make([]string, 0, len(rs.Selectors))
	for i := range rs.Selectors {
		sels = append(sels, rs.Selectors[i].String())
	}
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", strings.Join(sels, ", "))
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeValues(w, rs.Values, "")
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeValues(w, rs.Important, " !important")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeValues writes declarations in declaration order.
func writeValues(w io.Writer, values []PropertyValue, suffix string) (int, error) {
	var total int
	for _, v := range values {
		n, err := fmt.Fprintf(w, "  %s: %s%s;\n", v.PropertyName(), v.String(), suffix)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeFontFace writes an @font-face block to w.
func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var total int
	n, err := fmt.Fprint(w, "@font-face {\n")
	total += n
	if err != nil {
		return total, err
	}

	// Write properties in a stable order
	if ff.Family != "" {
		n, err = fmt.Fprintf(w, "  font-family: \"%s\";\n", cssEscapeDoubleQuoted(ff.Family))
		total += n
		if err != nil {
			return total, err
		}
	}
	if len(ff.Src) > 0 {
		srcs := make([]string, 0, len(ff.Src))
		for _, s := range ff.Src {
			if strings.HasPrefix(s, "local(") {
				srcs = append(srcs, s)
				continue
			}
			srcs = append(srcs, `url("`+cssEscapeDoubleQuoted(s)+`")`)
		}
		n, err = fmt.Fprintf(w, "  src: %s;\n", strings.Join(srcs, ", "))
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Style != "" {
		n, err = fmt.Fprintf(w, "  font-style: %s;\n", ff.Style)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Weight != "" {
		n, err = fmt.Fprintf(w, "  font-weight: %s;\n", ff.Weight)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
