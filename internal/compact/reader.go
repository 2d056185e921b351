package compact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"packdex/internal/codec"
	apperrors "packdex/pkg/errors"
)

// Reader serves term lookups from a compressed index directory, decoding
// one postings list at a time.
type Reader struct {
	dir       string
	postings  []byte
	offsets   map[string]Span
	docIDs    map[string]int
	labels    []string
	terms     []string
	blockSize int
	logger    *slog.Logger
}

// Open loads the compressed artifacts from dir. The postings blob, the
// offsets and the doc maps are required; the front-coded lexicon is only
// read when the doc maps carry no term order.
func Open(dir string) (*Reader, error) {
	r := &Reader{
		dir:    dir,
		logger: slog.Default().With("component", "compact"),
	}

	var err error
	if r.postings, err = readArtifact(dir, PostingsFile); err != nil {
		return nil, err
	}
	offsetsData, err := readArtifact(dir, OffsetsFile)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(offsetsData, &r.offsets); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", OffsetsFile, err)
	}
	mapsData, err := readArtifact(dir, DocMapsFile)
	if err != nil {
		return nil, err
	}
	var maps docMaps
	if err := json.Unmarshal(mapsData, &maps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DocMapsFile, err)
	}
	r.docIDs = maps.DocIDMap
	r.labels = maps.RevDocIDMap
	r.terms = maps.TermsOrder
	r.blockSize = maps.BlockSize
	if r.blockSize == 0 {
		r.blockSize = 8
	}

	if len(r.terms) == 0 {
		data, err := os.ReadFile(filepath.Join(dir, LexiconFile))
		switch {
		case err == nil:
			terms, err := codec.DecodeFrontCoded(data)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", LexiconFile, err)
			}
			r.terms = terms
		case os.IsNotExist(err):
			// No term order anywhere. Lookups still work, but the
			// document universe is unknown and NOT queries will be
			// rejected.
		default:
			return nil, fmt.Errorf("reading %s: %w", LexiconFile, err)
		}
	}

	r.logger.Debug("compressed index opened",
		"dir", dir, "terms", len(r.terms), "docs", len(r.docIDs))
	return r, nil
}

func readArtifact(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Postings returns the document IDs for term in ascending order. Unknown
// terms yield an empty list.
func (r *Reader) Postings(term string) ([]int, error) {
	span, ok := r.offsets[term]
	if !ok {
		return nil, nil
	}
	if span.Start < 0 || span.Length < 0 || span.Start+span.Length > len(r.postings) {
		return nil, fmt.Errorf("%w: postings offset for %q outside blob", apperrors.ErrMalformedStream, term)
	}
	gaps, err := codec.DecodeStream(r.postings[span.Start : span.Start+span.Length])
	if err != nil {
		return nil, fmt.Errorf("postings for %q: %w", term, err)
	}
	return codec.FromGaps(gaps), nil
}

// Label resolves an internal document ID back to its external reference.
// IDs without a table entry fall back to their decimal form.
func (r *Reader) Label(id int) string {
	if id >= 0 && id < len(r.labels) && r.labels[id] != "" {
		return r.labels[id]
	}
	return strconv.Itoa(id)
}

// Terms lists every term in dictionary order. The slice is shared; callers
// must not modify it.
func (r *Reader) Terms() []string { return r.terms }

// DocCount returns the number of documents known to the index.
func (r *Reader) DocCount() int { return len(r.docIDs) }

// BlockSize returns the front coding block size the index was built with.
func (r *Reader) BlockSize() int { return r.blockSize }
