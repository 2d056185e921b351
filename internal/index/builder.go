package index

import (
	"sort"
	"sync"
)

// Builder accumulates term occurrences into an inverted index. It is safe
// for concurrent use, so corpus files can be tokenized in parallel.
type Builder struct {
	mu    sync.Mutex
	docs  map[DocRef]struct{}
	terms map[string]map[DocRef]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		docs:  make(map[DocRef]struct{}),
		terms: make(map[string]map[DocRef]struct{}),
	}
}

// Add records that doc contains each of the given terms. Empty terms are
// ignored, duplicates collapse.
func (b *Builder) Add(doc DocRef, terms []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[doc] = struct{}{}
	for _, term := range terms {
		if term == "" {
			continue
		}
		postings, ok := b.terms[term]
		if !ok {
			postings = make(map[DocRef]struct{})
			b.terms[term] = postings
		}
		postings[doc] = struct{}{}
	}
}

// Docs returns the number of distinct documents added so far.
func (b *Builder) Docs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.docs)
}

// Terms returns the number of distinct terms added so far.
func (b *Builder) Terms() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.terms)
}

// Snapshot copies the accumulated index into a RawIndex with postings in a
// stable order. The Builder remains usable afterwards.
func (b *Builder) Snapshot() RawIndex {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(RawIndex, len(b.terms))
	for term, postings := range b.terms {
		refs := make([]DocRef, 0, len(postings))
		for ref := range postings {
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
		out[term] = refs
	}
	return out
}
