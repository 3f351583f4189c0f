package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoteRemovedPlaceholder replaces a note whose every character was stripped.
const NoteRemovedPlaceholder = "[note removed: unsupported characters]"

// SanitizeNote folds accents ("é" -> "e") and drops anything outside printable
// ASCII and newline. A note of plain spaces and line breaks counts as no note;
// any other whitespace is unsupported like the rest.
func SanitizeNote(raw string) string {
	if strings.Trim(raw, " \r\n") == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r != '\n' && (r < 0x20 || r > 0x7e)
		})),
	)
	clean, _, err := transform.String(t, raw)
	if err != nil {
		clean = ""
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return NoteRemovedPlaceholder
	}
	return clean
}
