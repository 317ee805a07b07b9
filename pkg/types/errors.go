package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a NusaLang error code.
type ErrorCode string

// Error codes. The leading letter names the pipeline stage that raises them.
const (
	// L01xx: Lexing errors
	ErrInvalidCharacter ErrorCode = "L0101"
	ErrInvalidNumber    ErrorCode = "L0102"
	ErrStringNotClosed  ErrorCode = "L0103"

	// S02xx: Parse errors
	ErrUnexpectedToken ErrorCode = "S0201"
	ErrUnexpectedEnd   ErrorCode = "S0202"
	ErrNestingTooDeep  ErrorCode = "S0203"

	// R03xx: Runtime errors
	ErrUndefinedVariable     ErrorCode = "R0301"
	ErrUndefinedFunction     ErrorCode = "R0302"
	ErrArgumentCountMismatch ErrorCode = "R0303"
	ErrRuntime               ErrorCode = "R0304"
	ErrStackOverflow         ErrorCode = "R0305"
)

// Stage identifies the pipeline stage an error came from.
type Stage string

const (
	StageUnknown Stage = ""
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageRuntime Stage = "runtime"
)

// Label returns the human-readable stage name used in diagnostics.
func (s Stage) Label() string {
	switch s {
	case StageLex:
		return "Lexing"
	case StageParse:
		return "Parse"
	case StageRuntime:
		return "Runtime"
	default:
		return "Internal"
	}
}

// Stage returns the pipeline stage that raises errors with this code.
func (c ErrorCode) Stage() Stage {
	switch {
	case strings.HasPrefix(string(c), "L"):
		return StageLex
	case strings.HasPrefix(string(c), "S"):
		return StageParse
	case strings.HasPrefix(string(c), "R"):
		return StageRuntime
	default:
		return StageUnknown
	}
}

// Error represents a structured NusaLang error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new NusaLang error.
// Use a negative position when no source location is known.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Errorf creates a new NusaLang error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...), position)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Stage returns the pipeline stage that produced the error.
func (e *Error) Stage() Stage {
	return e.Code.Stage()
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// StageOf reports the pipeline stage of err, or StageUnknown when err is not
// (and does not wrap) an *Error.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage()
	}
	return StageUnknown
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// LineCol converts a byte offset into 1-based line and column numbers.
// Columns count runes, not bytes. Offsets past the end clamp to the end.
func LineCol(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, col = 1, 1
	for _, r := range source[:max(offset, 0)] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
