package query

import (
	"errors"
	"reflect"
	"testing"

	apperrors "packdex/pkg/errors"
)

func kinds(tokens []token) []tokenKind {
	out := make([]tokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.kind
	}
	return out
}

func texts(tokens []token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.text
	}
	return out
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("(gato OR perro) AND NOT ratón")
	wantKinds := []tokenKind{tokenLParen, tokenTerm, tokenOr, tokenTerm, tokenRParen, tokenAnd, tokenNot, tokenTerm}
	if !reflect.DeepEqual(kinds(tokens), wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds(tokens), wantKinds)
	}
	if tokens[7].text != "ratón" {
		t.Errorf("last term = %q, want ratón", tokens[7].text)
	}
}

func TestTokenizeKeywordCase(t *testing.T) {
	tokens := tokenize("gato and perro Or not raton")
	want := []tokenKind{tokenTerm, tokenAnd, tokenTerm, tokenOr, tokenNot, tokenTerm}
	if !reflect.DeepEqual(kinds(tokens), want) {
		t.Errorf("kinds = %v, want %v", kinds(tokens), want)
	}
}

func TestTokenizeKeywordPrefixStaysTerm(t *testing.T) {
	for _, word := range []string{"ANDes", "ORganismo", "NOTa", "android", "editor"} {
		tokens := tokenize(word)
		if len(tokens) != 1 || tokens[0].kind != tokenTerm || tokens[0].text != word {
			t.Errorf("tokenize(%q) = %v, want a single term", word, tokens)
		}
	}
}

func TestTokenizePunctuation(t *testing.T) {
	// Hyphens and commas separate tokens, underscores and digits do not.
	tokens := tokenize("gato-perro, r2_d2!")
	want := []string{"gato", "perro", "r2_d2"}
	if !reflect.DeepEqual(texts(tokens), want) {
		t.Errorf("texts = %v, want %v", texts(tokens), want)
	}
}

func TestToRPN(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"gato AND perro", []string{"gato", "perro", "AND"}},
		// AND binds tighter than OR.
		{"gato OR perro AND raton", []string{"gato", "perro", "raton", "AND", "OR"}},
		// NOT binds tightest.
		{"NOT gato AND perro", []string{"gato", "NOT", "perro", "AND"}},
		// AND is left-associative.
		{"gato AND perro AND raton", []string{"gato", "perro", "AND", "raton", "AND"}},
		// NOT is right-associative.
		{"NOT NOT gato", []string{"gato", "NOT", "NOT"}},
		// Parentheses override precedence.
		{"(gato OR perro) AND raton", []string{"gato", "perro", "OR", "raton", "AND"}},
	}
	for _, tt := range tests {
		rpn, err := toRPN(tokenize(tt.expr))
		if err != nil {
			t.Fatalf("toRPN(%q) returned error: %v", tt.expr, err)
		}
		if !reflect.DeepEqual(texts(rpn), tt.want) {
			t.Errorf("toRPN(%q) = %v, want %v", tt.expr, texts(rpn), tt.want)
		}
	}
}

func TestToRPNUnbalanced(t *testing.T) {
	for _, expr := range []string{"(gato", "gato)", "((gato OR perro)", "gato))"} {
		if _, err := toRPN(tokenize(expr)); !errors.Is(err, apperrors.ErrSyntax) {
			t.Errorf("toRPN(%q): error = %v, want ErrSyntax", expr, err)
		}
	}
}
