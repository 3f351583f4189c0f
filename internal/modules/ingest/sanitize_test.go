package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "spaces only", in: "   ", want: ""},
		{name: "line breaks only", in: " \r\n ", want: ""},
		{name: "tab only", in: "\t", want: NoteRemovedPlaceholder},
		{name: "vertical tab only", in: "\v", want: NoteRemovedPlaceholder},
		{name: "nbsp only", in: "\u00a0\u00a0", want: NoteRemovedPlaceholder},
		{name: "next line only", in: "\u0085", want: NoteRemovedPlaceholder},
		{name: "tab inside text", in: "gate\tcode", want: "gatecode"},
		{name: "plain", in: "Leave at the gate", want: "Leave at the gate"},
		{name: "diacritics folded", in: "Café près de l'église", want: "Cafe pres de l'eglise"},
		{name: "newline kept", in: "line one\r\nline two", want: "line one\nline two"},
		{name: "emoji dropped", in: "Thanks 🌱🌱", want: "Thanks"},
		{name: "only unsupported", in: "🌱🌻", want: NoteRemovedPlaceholder},
		{name: "only control chars", in: "\x01\x02\x7f", want: NoteRemovedPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeNote(tt.in))
		})
	}
}
