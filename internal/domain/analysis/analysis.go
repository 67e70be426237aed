// Package analysis computes the derived properties of a text value.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Properties is the fixed bundle of values derived from a string.
type Properties struct {
	Length             int
	IsPalindrome       bool
	UniqueCharacters   int
	WordCount          int
	SHA256Hash         string
	CharacterFrequency map[rune]int
}

// Analyze computes all properties of text. Length and character counts are in Unicode scalars.
func Analyze(text string) Properties {
	freq := frequency(text)
	return Properties{
		Length:             utf8.RuneCountInString(text),
		IsPalindrome:       IsPalindrome(text),
		UniqueCharacters:   len(freq),
		WordCount:          len(strings.Fields(text)),
		SHA256Hash:         Hash(text),
		CharacterFrequency: freq,
	}
}

// Hash returns the hex-encoded SHA-256 digest of the raw bytes of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome reports whether text reads the same backwards,
// ignoring case and whitespace. Comparison is rune-wise.
func IsPalindrome(text string) bool {
	cleaned := make([]rune, 0, len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		cleaned = append(cleaned, r)
	}
	for i, j := 0, len(cleaned)-1; i < j; i, j = i+1, j-1 {
		if cleaned[i] != cleaned[j] {
			return false
		}
	}
	return true
}

func frequency(text string) map[rune]int {
	m := make(map[rune]int)
	for _, r := range text {
		m[r]++
	}
	return m
}
