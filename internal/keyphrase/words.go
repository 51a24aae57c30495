// Package keyphrase turns texts into the key-phrase words the classifier scores.
package keyphrase

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SplitWords splits each phrase on spaces and returns the non-empty words in order.
func SplitWords(phrases []string) []string {
	var out []string
	for _, p := range phrases {
		for _, w := range strings.Split(p, " ") {
			w = Normalize(w)
			if w != "" {
				out = append(out, w)
			}
		}
	}
	return out
}

// Normalize applies NFC composition, drops control characters and trims whitespace.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
