package query

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	apperrors "packdex/pkg/errors"
)

// fakeBackend serves canned postings without exposing a dictionary.
type fakeBackend struct {
	postings map[string][]int
	err      error
	calls    int
}

func (f *fakeBackend) Postings(term string) ([]int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.postings[term], nil
}

// listingBackend adds the dictionary listing the universe is built from.
type listingBackend struct {
	fakeBackend
}

func (l *listingBackend) Terms() []string {
	terms := make([]string, 0, len(l.postings))
	for t := range l.postings {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func newTestEngine() *Engine {
	return NewEngine(&listingBackend{fakeBackend{postings: map[string][]int{
		"gato":  {1, 2},
		"perro": {2, 3},
		"raton": {3, 4},
	}}})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want []int
	}{
		{"gato", []int{1, 2}},
		{"gato AND perro", []int{2}},
		{"gato OR perro", []int{1, 2, 3}},
		{"NOT gato", []int{3, 4}},
		{"(gato OR perro) AND NOT raton", []int{1, 2}},
		{"gato OR perro AND raton", []int{1, 2, 3}},
		{"NOT gato AND perro", []int{3}},
		{"NOT NOT gato", []int{1, 2}},
		{"gato and perro", []int{2}},
		{"(((gato)))", []int{1, 2}},
		{"gato AND fantasma", []int{}},
		// Terms are matched verbatim, keywords are not.
		{"Gato", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := newTestEngine().Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) returned error: %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	e := newTestEngine()
	for _, expr := range []string{"(gato OR perro", "gato)"} {
		if _, err := e.Evaluate(expr); !errors.Is(err, apperrors.ErrSyntax) {
			t.Errorf("Evaluate(%q): error = %v, want ErrSyntax", expr, err)
		}
	}
}

func TestEvaluateArityErrors(t *testing.T) {
	e := newTestEngine()
	for _, expr := range []string{"AND gato", "gato OR", "NOT"} {
		if _, err := e.Evaluate(expr); !errors.Is(err, apperrors.ErrOperatorArity) {
			t.Errorf("Evaluate(%q): error = %v, want ErrOperatorArity", expr, err)
		}
	}
}

func TestEvaluateInvalidExpressions(t *testing.T) {
	e := newTestEngine()
	for _, expr := range []string{"", "gato perro", "()"} {
		if _, err := e.Evaluate(expr); !errors.Is(err, apperrors.ErrInvalidExpression) {
			t.Errorf("Evaluate(%q): error = %v, want ErrInvalidExpression", expr, err)
		}
	}
}

func TestNotWithoutDictionary(t *testing.T) {
	e := NewEngine(&fakeBackend{postings: map[string][]int{"gato": {1}}})
	if _, err := e.Evaluate("NOT gato"); !errors.Is(err, apperrors.ErrUniverseUnavailable) {
		t.Errorf("Evaluate: error = %v, want ErrUniverseUnavailable", err)
	}
	if _, err := e.Not("gato"); !errors.Is(err, apperrors.ErrUniverseUnavailable) {
		t.Errorf("Not: error = %v, want ErrUniverseUnavailable", err)
	}
	// Queries without NOT still work.
	got, err := e.Evaluate("gato")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Evaluate = %v, want [1]", got)
	}
}

func TestNotWithEmptyUniverse(t *testing.T) {
	e := NewEngine(&listingBackend{fakeBackend{postings: map[string][]int{"fantasma": {}}}})
	if _, err := e.Evaluate("NOT fantasma"); !errors.Is(err, apperrors.ErrUniverseUnavailable) {
		t.Errorf("error = %v, want ErrUniverseUnavailable", err)
	}
}

func TestSyntaxErrorWinsOverMissingUniverse(t *testing.T) {
	e := NewEngine(&fakeBackend{postings: map[string][]int{"gato": {1}}})
	if _, err := e.Evaluate("(gato NOT"); !errors.Is(err, apperrors.ErrSyntax) {
		t.Errorf("error = %v, want ErrSyntax", err)
	}
}

func TestUniverseCached(t *testing.T) {
	b := &listingBackend{fakeBackend{postings: map[string][]int{
		"gato":  {1},
		"perro": {2},
	}}}
	e := NewEngine(b)
	first, err := e.Not()
	if err != nil {
		t.Fatalf("Not returned error: %v", err)
	}
	if !reflect.DeepEqual(first, []int{1, 2}) {
		t.Errorf("Not() = %v, want [1 2]", first)
	}
	after := b.calls
	if _, err := e.Not(); err != nil {
		t.Fatalf("second Not returned error: %v", err)
	}
	if b.calls != after {
		t.Errorf("dictionary rescanned: calls went %d -> %d", after, b.calls)
	}
}

func TestMenuOperations(t *testing.T) {
	e := newTestEngine()

	got, err := e.Lookup("perro")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("Lookup = %v, want [2 3]", got)
	}

	got, err = e.And("gato", "", "perro")
	if err != nil {
		t.Fatalf("And returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("And = %v, want [2]", got)
	}

	got, err = e.Or("gato", "raton")
	if err != nil {
		t.Fatalf("Or returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Or = %v, want [1 2 3 4]", got)
	}

	got, err = e.Not("gato")
	if err != nil {
		t.Fatalf("Not returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("Not = %v, want [3 4]", got)
	}

	// NOT with no terms complements nothing: the whole universe.
	got, err = e.Not()
	if err != nil {
		t.Fatalf("Not() returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Not() = %v, want [1 2 3 4]", got)
	}

	if got, err := e.And(); err != nil || len(got) != 0 {
		t.Errorf("And() = %v, %v, want empty", got, err)
	}
	if got, err := e.Or(); err != nil || len(got) != 0 {
		t.Errorf("Or() = %v, %v, want empty", got, err)
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	boom := errors.New("postings unavailable")
	e := NewEngine(&fakeBackend{err: boom})
	if _, err := e.Evaluate("gato"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
	if _, err := e.And("gato"); !errors.Is(err, boom) {
		t.Errorf("And error = %v, want wrapped %v", err, boom)
	}
}

func TestNames(t *testing.T) {
	got := Names([]int{3, 1, 2}, func(id int) string { return fmt.Sprintf("doc%d.txt", id) })
	want := []string{"doc1.txt", "doc2.txt", "doc3.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestEngineUsableAfterError(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Evaluate("AND gato"); err == nil {
		t.Fatal("expected error for malformed expression")
	}
	got, err := e.Evaluate("gato AND perro")
	if err != nil {
		t.Fatalf("Evaluate after failure: %v", err)
	}
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Evaluate = %v, want [2]", got)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	postings := make(map[string][]int, 500)
	for i := 0; i < 500; i++ {
		step := 7 + i%13
		ids := make([]int, 0, 2000/step+1)
		for id := i % 7; id < 2000; id += step {
			ids = append(ids, id)
		}
		postings[fmt.Sprintf("term%03d", i)] = ids
	}
	e := NewEngine(&listingBackend{fakeBackend{postings: postings}})
	expr := "(term001 OR term002) AND NOT term003"
	if _, err := e.Evaluate(expr); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ids, err := e.Evaluate(expr)
		if err != nil {
			b.Fatal(err)
		}
		_ = ids
	}
}
