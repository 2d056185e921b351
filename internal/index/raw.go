package index

// RawIndex is an uncompressed inverted index: each term maps to the
// references of the documents containing it. Postings need not be sorted
// or deduplicated; compression takes care of both.
type RawIndex map[string][]DocRef

// RawStats summarizes the footprint of a raw index before compression.
type RawStats struct {
	Terms         int
	Postings      int
	VocabBytes    int
	EstimatedSize int
}

// Stats estimates the uncompressed size of the index: the UTF-8 bytes of
// every term plus four bytes per posting.
func (ix RawIndex) Stats() RawStats {
	var s RawStats
	s.Terms = len(ix)
	for term, postings := range ix {
		s.VocabBytes += len(term)
		s.Postings += len(postings)
	}
	s.EstimatedSize = s.VocabBytes + 4*s.Postings
	return s
}
