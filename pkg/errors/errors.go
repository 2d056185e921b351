// Package errors defines the sentinel errors shared across packdex and maps
// them to process exit codes for the CLI. Callers wrap these with
// fmt.Errorf("...: %w", err) so the offending term, token, or path travels
// with the error while errors.Is still matches the kind.
package errors

import (
	"errors"
)

var (
	// ErrMalformedStream reports a VarByte stream that ended before the
	// terminating byte of a number was seen.
	ErrMalformedStream = errors.New("malformed varbyte stream")

	// ErrMissingArtifact reports that a required persisted index artifact
	// is absent at load time.
	ErrMissingArtifact = errors.New("missing index artifact")

	// ErrUniverseUnavailable reports a NOT query against a backend whose
	// document universe is unknown or empty.
	ErrUniverseUnavailable = errors.New("document universe unavailable")

	// ErrSyntax reports unbalanced parentheses or an otherwise malformed
	// boolean expression.
	ErrSyntax = errors.New("query syntax error")

	// ErrOperatorArity reports an operator evaluated with too few operands
	// on the stack.
	ErrOperatorArity = errors.New("operator missing operands")

	// ErrInvalidExpression reports a postfix evaluation that did not end
	// with exactly one operand.
	ErrInvalidExpression = errors.New("invalid query expression")

	// ErrMixedDocIDs reports a raw mapping containing both numeric and
	// string document identifiers.
	ErrMixedDocIDs = errors.New("mixed document id types")

	// ErrNegativeValue reports a negative integer where only non-negative
	// values are encodable.
	ErrNegativeValue = errors.New("negative value")
)

// Exit codes returned by ExitCode. Query-shape problems, missing artifacts,
// and corrupt data get distinct codes so scripts can branch on them.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitQuery   = 2
	ExitMissing = 3
	ExitCorrupt = 4
)

// ExitCode maps an error to the CLI process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrSyntax),
		errors.Is(err, ErrOperatorArity),
		errors.Is(err, ErrInvalidExpression),
		errors.Is(err, ErrUniverseUnavailable):
		return ExitQuery
	case errors.Is(err, ErrMissingArtifact):
		return ExitMissing
	case errors.Is(err, ErrMalformedStream),
		errors.Is(err, ErrMixedDocIDs),
		errors.Is(err, ErrNegativeValue):
		return ExitCorrupt
	default:
		return ExitFailure
	}
}
