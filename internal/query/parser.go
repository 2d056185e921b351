// Package query parses and evaluates boolean search expressions against a
// postings backend. Expressions combine terms with AND, OR, NOT and
// parentheses; NOT binds tightest, then AND, then OR.
package query

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "packdex/pkg/errors"
)

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

// tokenPattern matches parentheses and runs of word characters. Everything
// else separates tokens.
var tokenPattern = regexp.MustCompile(`[()]|[\p{L}\p{N}_]+`)

// tokenize splits a boolean expression into parentheses, operator keywords
// and terms. Keywords match case-insensitively; terms keep their spelling.
func tokenize(expr string) []token {
	matches := tokenPattern.FindAllString(expr, -1)
	tokens := make([]token, 0, len(matches))
	for _, m := range matches {
		switch {
		case m == "(":
			tokens = append(tokens, token{kind: tokenLParen, text: "("})
		case m == ")":
			tokens = append(tokens, token{kind: tokenRParen, text: ")"})
		case strings.EqualFold(m, "AND"):
			tokens = append(tokens, token{kind: tokenAnd, text: "AND"})
		case strings.EqualFold(m, "OR"):
			tokens = append(tokens, token{kind: tokenOr, text: "OR"})
		case strings.EqualFold(m, "NOT"):
			tokens = append(tokens, token{kind: tokenNot, text: "NOT"})
		default:
			tokens = append(tokens, token{kind: tokenTerm, text: m})
		}
	}
	return tokens
}

func isOperator(k tokenKind) bool {
	return k == tokenAnd || k == tokenOr || k == tokenNot
}

func precedence(k tokenKind) int {
	switch k {
	case tokenOr:
		return 1
	case tokenAnd:
		return 2
	case tokenNot:
		return 3
	}
	return 0
}

func rightAssociative(k tokenKind) bool { return k == tokenNot }

// binds reports whether the operator on top of the stack must be popped
// before pushing t: left-associative operators yield to equal or higher
// precedence, right-associative ones only to strictly higher.
func binds(t, top tokenKind) bool {
	if rightAssociative(t) {
		return precedence(t) < precedence(top)
	}
	return precedence(t) <= precedence(top)
}

// toRPN rearranges tokens into reverse Polish notation with the
// shunting-yard algorithm.
func toRPN(tokens []token) ([]token, error) {
	output := make([]token, 0, len(tokens))
	var ops []token
	for _, t := range tokens {
		switch {
		case t.kind == tokenLParen:
			ops = append(ops, t)
		case t.kind == tokenRParen:
			for len(ops) > 0 && ops[len(ops)-1].kind != tokenLParen {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses", apperrors.ErrSyntax)
			}
			ops = ops[:len(ops)-1]
		case isOperator(t.kind):
			for len(ops) > 0 && isOperator(ops[len(ops)-1].kind) && binds(t.kind, ops[len(ops)-1].kind) {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		default:
			output = append(output, t)
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.kind == tokenLParen || top.kind == tokenRParen {
			return nil, fmt.Errorf("%w: unbalanced parentheses", apperrors.ErrSyntax)
		}
		output = append(output, top)
	}
	return output, nil
}
