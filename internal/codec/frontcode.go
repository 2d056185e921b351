package codec

import (
	"fmt"

	apperrors "packdex/pkg/errors"
)

// FrontCode compresses a sorted term list into blocks of blockSize terms.
// Each block stores its first term in full; every follower stores only the
// length of the prefix it shares with the block base plus its remaining
// suffix. Prefix lengths count code points, stored lengths count UTF-8
// bytes.
func FrontCode(terms []string, blockSize int) ([]byte, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("front coding block size must be >= 1, got %d", blockSize)
	}
	var out []byte
	for start := 0; start < len(terms); start += blockSize {
		end := start + blockSize
		if end > len(terms) {
			end = len(terms)
		}
		base := terms[start]
		baseRunes := []rune(base)
		out = appendNumber(out, len(base))
		out = append(out, base...)
		out = appendNumber(out, end-start-1)
		for _, term := range terms[start+1 : end] {
			lcp := commonPrefixLen(baseRunes, []rune(term))
			suffix := string([]rune(term)[lcp:])
			out = appendNumber(out, lcp)
			out = appendNumber(out, len(suffix))
			out = append(out, suffix...)
		}
	}
	return out, nil
}

// DecodeFrontCoded expands a front-coded dictionary back into the full term
// list, in the order the terms were encoded.
func DecodeFrontCoded(data []byte) ([]string, error) {
	var terms []string
	pos := 0
	for pos < len(data) {
		baseLen, next, err := DecodeOne(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if pos+baseLen > len(data) {
			return nil, fmt.Errorf("%w: block base runs past end of dictionary", apperrors.ErrMalformedStream)
		}
		base := string(data[pos : pos+baseLen])
		pos += baseLen
		terms = append(terms, base)
		baseRunes := []rune(base)

		followers, next, err := DecodeOne(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		for i := 0; i < followers; i++ {
			lcp, afterLCP, err := DecodeOne(data, pos)
			if err != nil {
				return nil, err
			}
			sufLen, afterLen, err := DecodeOne(data, afterLCP)
			if err != nil {
				return nil, err
			}
			pos = afterLen
			if pos+sufLen > len(data) {
				return nil, fmt.Errorf("%w: suffix runs past end of dictionary", apperrors.ErrMalformedStream)
			}
			if lcp > len(baseRunes) {
				return nil, fmt.Errorf("%w: shared prefix length %d exceeds block base", apperrors.ErrMalformedStream, lcp)
			}
			terms = append(terms, string(baseRunes[:lcp])+string(data[pos:pos+sufLen]))
			pos += sufLen
		}
	}
	return terms, nil
}

// commonPrefixLen returns the number of leading code points a and b share.
func commonPrefixLen(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
