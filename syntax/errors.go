package syntax

import (
	"fmt"
)

// Error is the error returned for a pattern that cannot be compiled.
type Error struct {
	Code ErrorCode
	Expr string
	Args []interface{}
}

func (e *Error) Error() string {
	if len(e.Args) == 0 {
		return "error parsing regexp: " + e.Code.String() + " in `" + e.Expr + "`"
	}
	return "error parsing regexp: " + fmt.Sprintf(e.Code.String(), e.Args...) + " in `" + e.Expr + "`"
}

// ErrorCode describes a failure to compile a regular expression.
type ErrorCode string

const (
	// program errors
	ErrMissingGroup      ErrorCode = "reference to non-existent subexpression"
	ErrInfiniteRecursion ErrorCode = "encountered an infinite recursion"
	ErrBadLookbehind     ErrorCode = "invalid lookbehind assertion: variable or unknown width"
	ErrInvalidRange      ErrorCode = "invalid character range: end point before start point"
	ErrBadEquivalence    ErrorCode = "equivalence class has no primary sort key"

	// parser errors
	ErrMissingParen     ErrorCode = "missing closing )"
	ErrUnexpectedParen  ErrorCode = "unexpected )"
	ErrNothingToRepeat  ErrorCode = "quantifier does not follow a repeatable item"
	ErrMissingBracket   ErrorCode = "missing closing ]"
	ErrIllegalEndEscape ErrorCode = "illegal \\ at end of pattern"
	ErrBadRepeat        ErrorCode = "invalid repeat count {%v}"
	ErrUnknownGroup     ErrorCode = "unrecognized grouping construct (?%v"
	ErrEmptyAssertion   ErrorCode = "empty or unterminated zero-width assertion"
	ErrUnknownClass     ErrorCode = "unknown character class %v"
	ErrUnknownVerb      ErrorCode = "unknown verb (*%v)"
	ErrBadEscape        ErrorCode = "invalid escape sequence"
	ErrUnknownName      ErrorCode = "reference to undefined group name %v"
)

func (e ErrorCode) String() string {
	return string(e)
}
