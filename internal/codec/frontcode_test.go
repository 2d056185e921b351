package codec

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"

	apperrors "packdex/pkg/errors"
)

func TestFrontCodeGolden(t *testing.T) {
	data, err := FrontCode([]string{"ab", "abc"}, 8)
	if err != nil {
		t.Fatalf("FrontCode returned error: %v", err)
	}
	// base len 2, "ab", one follower, lcp 2, suffix len 1, "c"
	want := []byte{0x82, 'a', 'b', 0x81, 0x82, 0x81, 'c'}
	if !bytes.Equal(data, want) {
		t.Errorf("FrontCode = %x, want %x", data, want)
	}
}

func TestFrontCodeRoundTrip(t *testing.T) {
	terms := []string{
		"casa", "casamiento", "casas", "cascada", "cascadas",
		"perro", "perros", "pez", "raton", "ratones", "zanja",
	}
	for _, blockSize := range []int{1, 2, 3, 8, 64} {
		data, err := FrontCode(terms, blockSize)
		if err != nil {
			t.Fatalf("FrontCode(blockSize=%d) returned error: %v", blockSize, err)
		}
		got, err := DecodeFrontCoded(data)
		if err != nil {
			t.Fatalf("DecodeFrontCoded(blockSize=%d) returned error: %v", blockSize, err)
		}
		if !reflect.DeepEqual(got, terms) {
			t.Errorf("blockSize=%d round trip = %v, want %v", blockSize, got, terms)
		}
	}
}

func TestFrontCodeMultiByteRunes(t *testing.T) {
	// Shared prefixes must be counted in code points, not bytes, or the
	// decoder reassembles broken strings.
	terms := []string{"año", "años", "árbol", "árboles", "über", "überall"}
	data, err := FrontCode(terms, 4)
	if err != nil {
		t.Fatalf("FrontCode returned error: %v", err)
	}
	got, err := DecodeFrontCoded(data)
	if err != nil {
		t.Fatalf("DecodeFrontCoded returned error: %v", err)
	}
	if !reflect.DeepEqual(got, terms) {
		t.Errorf("round trip = %v, want %v", got, terms)
	}
}

func TestFrontCodeExactBlockMultiple(t *testing.T) {
	terms := []string{"a", "ab", "b", "ba"}
	data, err := FrontCode(terms, 2)
	if err != nil {
		t.Fatalf("FrontCode returned error: %v", err)
	}
	got, err := DecodeFrontCoded(data)
	if err != nil {
		t.Fatalf("DecodeFrontCoded returned error: %v", err)
	}
	if !reflect.DeepEqual(got, terms) {
		t.Errorf("round trip = %v, want %v", got, terms)
	}
}

func TestFrontCodeEmpty(t *testing.T) {
	data, err := FrontCode(nil, 8)
	if err != nil {
		t.Fatalf("FrontCode(nil) returned error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("FrontCode(nil) = %x, want empty", data)
	}
	got, err := DecodeFrontCoded(data)
	if err != nil {
		t.Fatalf("DecodeFrontCoded returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecodeFrontCoded = %v, want empty", got)
	}
}

func TestFrontCodeInvalidBlockSize(t *testing.T) {
	if _, err := FrontCode([]string{"a"}, 0); err == nil {
		t.Fatal("expected error for block size 0")
	}
}

func TestDecodeFrontCodedTruncated(t *testing.T) {
	data, err := FrontCode([]string{"casa", "casas"}, 8)
	if err != nil {
		t.Fatalf("FrontCode returned error: %v", err)
	}
	for cut := 1; cut < len(data); cut++ {
		if _, err := DecodeFrontCoded(data[:cut]); !errors.Is(err, apperrors.ErrMalformedStream) {
			t.Errorf("cut=%d: error = %v, want ErrMalformedStream", cut, err)
		}
	}
}

func benchTerms() []string {
	terms := make([]string, 2000)
	for i := range terms {
		terms[i] = fmt.Sprintf("term%06d", i)
	}
	return terms
}

func BenchmarkFrontCode(b *testing.B) {
	terms := benchTerms()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, err := FrontCode(terms, 8)
		if err != nil {
			b.Fatal(err)
		}
		_ = data
	}
}

func BenchmarkDecodeFrontCoded(b *testing.B) {
	data, err := FrontCode(benchTerms(), 8)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		terms, err := DecodeFrontCoded(data)
		if err != nil {
			b.Fatal(err)
		}
		_ = terms
	}
}
