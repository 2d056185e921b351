// Package corpus scans document collections and builds the raw inverted
// index the compressor consumes.
package corpus

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases text and splits it into runs of letters, digits and
// underscores, the same word shape query terms have.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
