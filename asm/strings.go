package asm

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// decodeStringLiteral turns a DB "…" or DB '…' payload into the bytes it
// emits: one byte per rune, narrowed to the rune's low 8 bits. Checking the
// literal for valid UTF-8 first means a source file that isn't valid UTF-8
// fails with a clear line-scoped error instead of silently emitting garbage
// or panicking on a malformed rune.
func decodeStringLiteral(raw string) ([]byte, error) {
	if !utf8.ValidString(raw) {
		return nil, &diagnosticError{"malformed UTF-8 in string literal"}
	}
	decoded, err := unicode.UTF8.NewDecoder().String(raw)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(decoded))
	for _, r := range decoded {
		out = append(out, byte(r))
	}
	return out, nil
}
