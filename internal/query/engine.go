package query

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	apperrors "packdex/pkg/errors"
)

// Backend supplies postings lists to the engine.
type Backend interface {
	// Postings returns the IDs of the documents containing term, empty
	// when the term is unknown.
	Postings(term string) ([]int, error)
}

// TermLister is implemented by backends that can enumerate their
// dictionary. The engine needs it to build the document universe that NOT
// complements against.
type TermLister interface {
	Terms() []string
}

// Engine evaluates boolean queries against a Backend. The document
// universe is computed once, on the first query that needs it, and cached
// for the life of the engine.
type Engine struct {
	backend Backend
	logger  *slog.Logger

	universeOnce sync.Once
	universe     map[int]struct{}
	universeErr  error
}

// NewEngine returns an Engine over backend.
func NewEngine(backend Backend) *Engine {
	return &Engine{
		backend: backend,
		logger:  slog.Default().With("component", "query"),
	}
}

// Lookup returns the documents containing a single term, sorted by ID.
func (e *Engine) Lookup(term string) ([]int, error) {
	ids, err := e.backend.Postings(term)
	if err != nil {
		return nil, err
	}
	return sortedIDs(setOf(ids)), nil
}

// And intersects the posting sets of the given terms. Empty terms are
// skipped; no terms means no results.
func (e *Engine) And(terms ...string) ([]int, error) {
	sets, err := e.termSets(terms)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}
	acc := sets[0]
	for _, s := range sets[1:] {
		acc = intersect(acc, s)
	}
	return sortedIDs(acc), nil
}

// Or unions the posting sets of the given terms.
func (e *Engine) Or(terms ...string) ([]int, error) {
	sets, err := e.termSets(terms)
	if err != nil {
		return nil, err
	}
	acc := make(map[int]struct{})
	for _, s := range sets {
		acc = union(acc, s)
	}
	return sortedIDs(acc), nil
}

// Not returns every document outside the union of the given terms'
// postings. With no terms it returns the whole universe.
func (e *Engine) Not(terms ...string) ([]int, error) {
	universe, err := e.requireUniverse()
	if err != nil {
		return nil, err
	}
	sets, err := e.termSets(terms)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int]struct{})
	for _, s := range sets {
		excluded = union(excluded, s)
	}
	return sortedIDs(difference(universe, excluded)), nil
}

// Evaluate parses and runs a boolean expression combining terms with AND,
// OR, NOT and parentheses. Results come back sorted by document ID.
func (e *Engine) Evaluate(expr string) ([]int, error) {
	tokens := tokenize(expr)
	rpn, err := toRPN(tokens)
	if err != nil {
		return nil, err
	}
	var universe map[int]struct{}
	if hasNot(tokens) {
		if universe, err = e.requireUniverse(); err != nil {
			return nil, err
		}
	}
	result, err := e.evalRPN(rpn, universe)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query evaluated", "query", expr, "hits", len(result))
	return sortedIDs(result), nil
}

// termSets fetches one posting set per term, skipping empty strings.
func (e *Engine) termSets(terms []string) ([]map[int]struct{}, error) {
	sets := make([]map[int]struct{}, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		ids, err := e.backend.Postings(term)
		if err != nil {
			return nil, err
		}
		sets = append(sets, setOf(ids))
	}
	return sets, nil
}

func hasNot(tokens []token) bool {
	for _, t := range tokens {
		if t.kind == tokenNot {
			return true
		}
	}
	return false
}

// requireUniverse returns the cached document universe. Queries that need
// it are rejected when the backend cannot enumerate terms or when the
// universe comes out empty.
func (e *Engine) requireUniverse() (map[int]struct{}, error) {
	e.universeOnce.Do(func() {
		lister, ok := e.backend.(TermLister)
		if !ok {
			e.universeErr = fmt.Errorf("%w: backend does not expose its dictionary", apperrors.ErrUniverseUnavailable)
			return
		}
		u := make(map[int]struct{})
		for _, term := range lister.Terms() {
			ids, err := e.backend.Postings(term)
			if err != nil {
				e.universeErr = fmt.Errorf("building document universe: %w", err)
				return
			}
			for _, id := range ids {
				u[id] = struct{}{}
			}
		}
		e.universe = u
		e.logger.Debug("document universe built", "docs", len(u))
	})
	if e.universeErr != nil {
		return nil, e.universeErr
	}
	if len(e.universe) == 0 {
		return nil, fmt.Errorf("%w: no documents known to the dictionary", apperrors.ErrUniverseUnavailable)
	}
	return e.universe, nil
}

// Names resolves document IDs through label and returns the names sorted
// alphabetically.
func Names(ids []int, label func(int) string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, label(id))
	}
	sort.Strings(names)
	return names
}
