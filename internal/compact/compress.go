package compact

import (
	"fmt"
	"sort"
	"strconv"

	"packdex/internal/codec"
	"packdex/internal/index"
	apperrors "packdex/pkg/errors"
)

// NullLabel fills slot zero of the label table when documents are keyed by
// label, since label IDs are assigned from one.
const NullLabel = "<NULL>"

// Compress turns a raw index into its compressed form.
//
// Document references are normalized to internal integer IDs first. When
// every reference is numeric, the external values themselves become the
// internal IDs. Otherwise every reference is a label and IDs follow the
// labels' lexicographic rank, starting at one. An index that mixes numeric
// and label references is rejected.
func Compress(raw index.RawIndex, blockSize int) (*Index, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("front coding block size must be >= 1, got %d", blockSize)
	}

	normalized, docIDs, labels, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(normalized))
	for term := range normalized {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var blob []byte
	offsets := make(map[string]Span, len(terms))
	for _, term := range terms {
		encoded, err := codec.EncodeList(codec.Gaps(normalized[term]))
		if err != nil {
			return nil, fmt.Errorf("encoding postings for %q: %w", term, err)
		}
		offsets[term] = Span{Start: len(blob), Length: len(encoded)}
		blob = append(blob, encoded...)
	}

	lexicon, err := codec.FrontCode(terms, blockSize)
	if err != nil {
		return nil, err
	}

	return &Index{
		Lexicon:   lexicon,
		BlockSize: blockSize,
		Terms:     terms,
		Postings:  blob,
		Offsets:   offsets,
		DocIDs:    docIDs,
		Labels:    labels,
	}, nil
}

// normalize maps every document reference to an internal integer ID and
// returns each term's postings deduplicated and sorted.
func normalize(raw index.RawIndex) (map[string][]int, map[string]int, []string, error) {
	refs := make(map[index.DocRef]struct{})
	hasNum, hasLabel := false, false
	for _, postings := range raw {
		for _, ref := range postings {
			refs[ref] = struct{}{}
			if ref.IsLabel() {
				hasLabel = true
			} else {
				hasNum = true
			}
		}
	}
	if hasNum && hasLabel {
		return nil, nil, nil, fmt.Errorf("%w: index mixes numeric and label document references", apperrors.ErrMixedDocIDs)
	}

	normalized := make(map[string][]int, len(raw))
	if len(refs) == 0 {
		// Terms with no postings still belong in the dictionary.
		for term := range raw {
			normalized[term] = nil
		}
		return normalized, map[string]int{}, []string{}, nil
	}

	docIDs := make(map[string]int, len(refs))
	var labels []string
	var toInternal func(index.DocRef) int

	if hasLabel {
		sorted := make([]string, 0, len(refs))
		for ref := range refs {
			sorted = append(sorted, ref.Label())
		}
		sort.Strings(sorted)
		labels = make([]string, len(sorted)+1)
		labels[0] = NullLabel
		for i, label := range sorted {
			docIDs[label] = i + 1
			labels[i+1] = label
		}
		toInternal = func(ref index.DocRef) int { return docIDs[ref.Label()] }
	} else {
		maxID := 0
		for ref := range refs {
			if ref.Num() < 0 {
				return nil, nil, nil, fmt.Errorf("%w: document ID %d", apperrors.ErrNegativeValue, ref.Num())
			}
			if ref.Num() > maxID {
				maxID = ref.Num()
			}
		}
		labels = make([]string, maxID+1)
		for ref := range refs {
			s := strconv.Itoa(ref.Num())
			docIDs[s] = ref.Num()
			labels[ref.Num()] = s
		}
		toInternal = func(ref index.DocRef) int { return ref.Num() }
	}

	for term, postings := range raw {
		seen := make(map[int]struct{}, len(postings))
		ids := make([]int, 0, len(postings))
		for _, ref := range postings {
			id := toInternal(ref)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		sort.Ints(ids)
		normalized[term] = ids
	}
	return normalized, docIDs, labels, nil
}
