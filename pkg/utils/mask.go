package utils

import (
	"strings"
	"unicode"
)

// MaskName hides an attendee's name for public lists: whitespace is removed,
// the first and last two characters are kept and the rest replaced by '*'.
// Names of four characters or fewer are fully masked.
func MaskName(name string) string {
	compact := []rune(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name))
	n := len(compact)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return string(compact[:2]) + strings.Repeat("*", n-4) + string(compact[n-2:])
}
