package dom

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLang returns canonical BCP 47 form of a language attribute, so
// "EN_us" and "en-US" match the same selectors. Values which are not valid
// tags are kept lower-cased.
func normalizeLang(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return strings.ToLower(v)
	}
	return tag.String()
}
