// Package compact compresses inverted indexes and serves lookups from the
// compressed artifacts. The term dictionary is front coded in blocks, the
// postings lists are d-gapped and variable-byte coded into a single blob,
// and JSON sidecars carry the per-term offsets and the document ID maps.
package compact

import (
	"encoding/json"
	"fmt"
)

// Span locates one term's postings list inside the postings blob.
type Span struct {
	Start  int
	Length int
}

// MarshalJSON writes the span as a [start, length] pair.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.Length})
}

// UnmarshalJSON reads a [start, length] pair.
func (s *Span) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("postings offset must be a [start, length] pair: %w", err)
	}
	s.Start, s.Length = pair[0], pair[1]
	return nil
}

// Index is a compressed inverted index, ready to be written to disk or
// served by a Reader.
type Index struct {
	Lexicon   []byte          // front-coded term dictionary
	BlockSize int             // front coding block size
	Terms     []string        // terms in dictionary order
	Postings  []byte          // every postings list, d-gapped and variable-byte coded
	Offsets   map[string]Span // term -> location in Postings
	DocIDs    map[string]int  // external reference -> internal ID
	Labels    []string        // internal ID -> external reference
}

// Stats summarizes the in-memory size of the compressed artifacts.
type Stats struct {
	Terms         int
	Docs          int
	LexiconBytes  int
	PostingsBytes int
	TotalBytes    int
}

// Stats reports term and document counts plus the compressed byte sizes.
func (ix *Index) Stats() Stats {
	return Stats{
		Terms:         len(ix.Terms),
		Docs:          len(ix.DocIDs),
		LexiconBytes:  len(ix.Lexicon),
		PostingsBytes: len(ix.Postings),
		TotalBytes:    len(ix.Lexicon) + len(ix.Postings),
	}
}
