package engine

import (
	"errors"
	"fmt"
)

// Code is an engine error code. The four *Bug codes form the fatal set:
// they can only arise from a defect inside the engine itself, never from
// adversarial input, and the harness escalates them to process abort.
type Code uint8

const (
	CodeBadPattern Code = iota + 1
	CodeBadEncoding
	CodeRetryLimit
	CodeUnsupported

	CodeStackBug
	CodeUndefinedOpcode
	CodeUnexpectedOpcode
	CodeParserBug
)

// Fatal reports whether the code signals an internal-consistency
// violation in the engine.
func (c Code) Fatal() bool {
	switch c {
	case CodeStackBug, CodeUndefinedOpcode, CodeUnexpectedOpcode, CodeParserBug:
		return true
	}
	return false
}

func (c Code) String() string {
	switch c {
	case CodeBadPattern:
		return "bad pattern"
	case CodeBadEncoding:
		return "bad encoding"
	case CodeRetryLimit:
		return "retry limit exceeded"
	case CodeUnsupported:
		return "unsupported feature"
	case CodeStackBug:
		return "internal stack corruption"
	case CodeUndefinedOpcode:
		return "undefined internal instruction"
	case CodeUnexpectedOpcode:
		return "unexpected internal instruction"
	case CodeParserBug:
		return "internal parser inconsistency"
	default:
		return fmt.Sprintf("code(%d)", uint8(c))
	}
}

// Error carries a raw engine error code through the adapter boundary.
// Adapters attach codes; classification is the verdict package's job.
type Error struct {
	Code Code
	Op   string // "open", "compile" or "search"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("engine: %s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a coded engine error.
func Errf(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf extracts the engine code from an error chain.
func CodeOf(err error) (Code, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}
