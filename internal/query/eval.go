package query

import (
	"fmt"
	"sort"

	apperrors "packdex/pkg/errors"
)

func setOf(ids []int) map[int]struct{} {
	s := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func intersect(a, b map[int]struct{}) map[int]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[int]struct{}, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func union(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func difference(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func sortedIDs(s map[int]struct{}) []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// evalRPN executes an RPN token stream. The universe is only consulted by
// NOT and may be nil when the stream carries none.
func (e *Engine) evalRPN(rpn []token, universe map[int]struct{}) (map[int]struct{}, error) {
	var stack []map[int]struct{}
	for _, t := range rpn {
		switch t.kind {
		case tokenTerm:
			ids, err := e.backend.Postings(t.text)
			if err != nil {
				return nil, err
			}
			stack = append(stack, setOf(ids))
		case tokenNot:
			if len(stack) < 1 {
				return nil, fmt.Errorf("%w: NOT is missing its operand", apperrors.ErrOperatorArity)
			}
			stack[len(stack)-1] = difference(universe, stack[len(stack)-1])
		case tokenAnd, tokenOr:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: %s needs two operands", apperrors.ErrOperatorArity, t.text)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			if t.kind == tokenAnd {
				stack[len(stack)-1] = intersect(a, b)
			} else {
				stack[len(stack)-1] = union(a, b)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected %q", apperrors.ErrInvalidExpression, t.text)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: expression does not reduce to a single result", apperrors.ErrInvalidExpression)
	}
	return stack[0], nil
}
