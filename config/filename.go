package config

import (
	"strings"
	"unicode"
)

const maxFileNameLen = 200

// CleanFileName makes name usable as a single path segment on current
// platform: drops separators and reserved characters, leading dots and
// trailing spaces. Empty result is replaced with a placeholder.
func CleanFileName(in string) string {
	out := strings.Map(func(r rune) rune {
		if r == 0 || unicode.IsControl(r) || strings.ContainsRune(reservedRunes, r) {
			return -1
		}
		return r
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, ". "), ". ")
	if len(out) > maxFileNameLen {
		cut := maxFileNameLen
		for cut > 0 && !isRuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	if out == "" || reservedName(out) {
		out = "_bad_file_name_" + out
	}
	return out
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
