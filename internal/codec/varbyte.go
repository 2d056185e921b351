// Package codec implements the byte-level encodings used by the compressed
// index: variable-byte integer coding for postings lists and blocked front
// coding for the term dictionary.
//
// Variable-byte coding splits an integer into base-128 digits and stores one
// digit per byte, most significant digit first. The low seven bits of every
// byte carry the digit; the high bit marks the final byte of a number, which
// makes the stream self-delimiting. Zero encodes as the single byte 0x80.
package codec

import (
	"fmt"

	apperrors "packdex/pkg/errors"
)

// EncodeNumber encodes one non-negative integer. Negative input reports
// ErrNegativeValue.
func EncodeNumber(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrNegativeValue, n)
	}
	return appendNumber(nil, n), nil
}

// EncodeList encodes a list of non-negative integers into one contiguous
// stream.
func EncodeList(nums []int) ([]byte, error) {
	out := make([]byte, 0, len(nums))
	for _, n := range nums {
		if n < 0 {
			return nil, fmt.Errorf("%w: %d", apperrors.ErrNegativeValue, n)
		}
		out = appendNumber(out, n)
	}
	return out, nil
}

// appendNumber appends the base-128 digits of a non-negative n to dst, most
// significant digit first, with the high bit set on the final byte.
func appendNumber(dst []byte, n int) []byte {
	// 64-bit ints need at most ten base-128 digits.
	var digits [10]byte
	i := len(digits)
	for {
		i--
		digits[i] = byte(n % 128)
		if n < 128 {
			break
		}
		n /= 128
	}
	digits[len(digits)-1] |= 0x80
	return append(dst, digits[i:]...)
}

// DecodeStream decodes every number in a variable-byte stream. The stream
// must end on a terminating byte; a trailing run of continuation bytes
// reports ErrMalformedStream.
func DecodeStream(data []byte) ([]int, error) {
	nums := make([]int, 0, len(data))
	n := 0
	pending := false
	for _, b := range data {
		if b < 0x80 {
			n = n<<7 | int(b)
			pending = true
			continue
		}
		n = n<<7 | int(b&0x7f)
		nums = append(nums, n)
		n = 0
		pending = false
	}
	if pending {
		return nil, fmt.Errorf("%w: stream ends mid-number", apperrors.ErrMalformedStream)
	}
	return nums, nil
}

// DecodeOne decodes the single number starting at pos and returns it together
// with the offset of the byte that follows it.
func DecodeOne(data []byte, pos int) (value, next int, err error) {
	n := 0
	for i := pos; i < len(data); i++ {
		b := data[i]
		if b < 0x80 {
			n = n<<7 | int(b)
			continue
		}
		return n<<7 | int(b&0x7f), i + 1, nil
	}
	return 0, 0, fmt.Errorf("%w: no terminator after offset %d", apperrors.ErrMalformedStream, pos)
}

// Gaps converts a sorted ID list into d-gaps: the first element is kept as
// is, every later element becomes the difference to its predecessor.
func Gaps(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	out[0] = ids[0]
	for i := 1; i < len(ids); i++ {
		out[i] = ids[i] - ids[i-1]
	}
	return out
}

// FromGaps reverses Gaps by taking prefix sums.
func FromGaps(gaps []int) []int {
	if len(gaps) == 0 {
		return nil
	}
	out := make([]int, len(gaps))
	out[0] = gaps[0]
	for i := 1; i < len(gaps); i++ {
		out[i] = out[i-1] + gaps[i]
	}
	return out
}
